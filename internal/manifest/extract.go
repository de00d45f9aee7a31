package manifest

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Dependencies reads root/package.json and returns its dependencies and devDependencies
// as sorted "name@version" strings.
func Dependencies(fs afero.Fs, root string) ([]string, error) {
	pkg, err := Read(fs, root)
	if err != nil {
		return nil, err
	}
	return DependencyList(pkg), nil
}

// DependencyList flattens the dependency maps of pkg into sorted "name@version" strings.
func DependencyList(pkg PackageJSON) []string {
	entries := lo.Entries(lo.Assign(pkg.Dependencies, pkg.DevDependencies))
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return lo.Map(entries, func(entry lo.Entry[string, string], _ int) string {
		return fmt.Sprintf("%s@%s", entry.Key, entry.Value)
	})
}

// Hash is a SHA256 over the sorted dependency list, stable under key reordering.
func Hash(pkg PackageJSON) string {
	sum := sha256.Sum256([]byte(strings.Join(DependencyList(pkg), "\n")))
	return fmt.Sprintf("%x", sum)
}
