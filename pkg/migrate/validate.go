package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir: naming convention, unique
// versions, and the presence of goose Up/Down markers. Non-SQL files and
// subdirectories are ignored.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if err := validateFile(dir, entry.Name(), versions); err != nil {
			return err
		}
	}
	return nil
}

func validateFile(dir, name string, versions map[string]string) error {
	match := migrationFileRe.FindStringSubmatch(name)
	if match == nil {
		return fmt.Errorf("migration %q does not match YYYYMMDDHHMMSS_name.sql", name)
	}

	version := match[1]
	if earlier, dup := versions[version]; dup {
		return fmt.Errorf("version %s used by both %q and %q", version, earlier, name)
	}
	versions[version] = name

	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}

	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(contents), marker) {
			return fmt.Errorf("migration %q is missing %q", name, marker)
		}
	}
	return nil
}
