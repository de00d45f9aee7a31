// Package config merges create-next-app flags with CNA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "CNA"

const (
	SKIP_INSTALL_KEY      = "skip-install"
	DISABLE_GIT_KEY       = "disable-git"
	SKIP_UPDATE_CHECK_KEY = "skip-update-check"
	CONFIG_DIR_KEY        = "config-dir"
	REGISTRY_KEY          = "registry"
	DEBUG_KEY             = "debug"
)

const DEFAULT_REGISTRY = "https://registry.npmjs.org"

var envKeyReplacer = strings.NewReplacer("-", "_")

// EnvVar returns the environment variable that sets key, e.g. CNA_SKIP_INSTALL.
func EnvVar(key string) string {
	return ENV_PREFIX + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// Config is the resolved runtime configuration. Flags win over the environment.
type Config struct {
	SkipInstall     bool
	DisableGit      bool
	SkipUpdateCheck bool
	Debug           bool
	ConfigDir       string
	Registry        string
}

// Load binds every known key that flags defines and reads the rest from CNA_* variables.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault(REGISTRY_KEY, DEFAULT_REGISTRY)

	for _, key := range []string{SKIP_INSTALL_KEY, DISABLE_GIT_KEY, SKIP_UPDATE_CHECK_KEY, DEBUG_KEY} {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, fmt.Errorf("failed to bind --%s: %w", key, err)
		}
	}

	cfg := Config{
		SkipInstall:     v.GetBool(SKIP_INSTALL_KEY),
		DisableGit:      v.GetBool(DISABLE_GIT_KEY),
		SkipUpdateCheck: v.GetBool(SKIP_UPDATE_CHECK_KEY),
		Debug:           v.GetBool(DEBUG_KEY),
		ConfigDir:       v.GetString(CONFIG_DIR_KEY),
		Registry:        strings.TrimSuffix(v.GetString(REGISTRY_KEY), "/"),
	}

	if cfg.ConfigDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to locate the user config directory: %w", err)
		}
		cfg.ConfigDir = dir
	}

	return cfg, nil
}
