// Package services talks to the npm registry.
// It looks up the published version of create-next-app so users can be told to upgrade.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louiss0/create-next-app/build_info"
)

const PACKAGE_NAME = "create-next-app"

// NpmRegistryService defines the interface for interacting with the npm registry.
type NpmRegistryService interface {
	LatestVersion(ctx context.Context, pkg string) (string, error)
}

// npmRegistryServiceImpl is the concrete implementation of NpmRegistryService
// that interacts with the npm registry API.
type npmRegistryServiceImpl struct {
	client *http.Client
	// baseURL is the registry root, e.g. "https://registry.npmjs.org"
	baseURL string
}

// NewNpmRegistryService creates a client for registry with a short timeout,
// an update check must never hold up the CLI.
func NewNpmRegistryService(registry string) NpmRegistryService {
	return &npmRegistryServiceImpl{
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
		baseURL: strings.TrimSuffix(registry, "/"),
	}
}

// NewNpmRegistryServiceWithClient allows injecting a custom HTTP client and base URL for testing.
func NewNpmRegistryServiceWithClient(client *http.Client, baseURL string) NpmRegistryService {
	return &npmRegistryServiceImpl{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// npmLatestResponse is the part of `<registry>/<package>/latest` we read.
type npmLatestResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LatestVersion returns the version behind the latest dist-tag of pkg.
func (s *npmRegistryServiceImpl) LatestVersion(ctx context.Context, pkg string) (string, error) {
	if pkg == "" {
		return "", fmt.Errorf("package name cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/%s/latest", s.baseURL, url.PathEscape(pkg))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build_info.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make HTTP request to npm registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("npm registry returned status %d: %s (body: %s)", resp.StatusCode, resp.Status, string(bodyBytes))
	}

	var latest npmLatestResponse
	if err := json.NewDecoder(resp.Body).Decode(&latest); err != nil {
		return "", fmt.Errorf("failed to parse npm registry response: %w", err)
	}

	if latest.Version == "" {
		return "", fmt.Errorf("npm registry returned no version for %s", pkg)
	}

	return latest.Version, nil
}
