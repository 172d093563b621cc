package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every SQL migration in dir for the versioned naming
// scheme, unique versions, and the goose Up/Down markers. An empty directory
// passes.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		name := entry.Name()

		match := migrationFileRe.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %q does not match YYYYMMDDHHMMSS_name.sql", name)
		}
		if existing, dup := versions[match[1]]; dup {
			return fmt.Errorf("migrations %q and %q share version %s", existing, name, match[1])
		}
		versions[match[1]] = name

		if err := validateMarkers(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func validateMarkers(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", path, err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(content), marker) {
			return fmt.Errorf("migration %q is missing %q", filepath.Base(path), marker)
		}
	}
	return nil
}
