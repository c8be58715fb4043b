package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir lints every .sql file in dir and reports all problems at once:
// bad filenames, duplicate versions, missing Up/Down sections, and unbalanced
// statement blocks.
func ValidateDir(dir string) error {
	if dir == "" {
		return errors.New("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		match := migrationFileRe.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (want YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("version %s used by both %q and %q", match[1], prev, name))
		}
		versions[match[1]] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("read %q: %w", name, err))
			continue
		}
		problems = multierr.Append(problems, lintMigration(name, string(body)))
	}

	if len(versions) == 0 && problems == nil {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return problems
}

func lintMigration(name, body string) error {
	var problems error
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(body, marker) {
			problems = multierr.Append(problems, fmt.Errorf("migration %q missing %q", name, marker))
		}
	}
	if strings.Count(body, "-- +goose StatementBegin") != strings.Count(body, "-- +goose StatementEnd") {
		problems = multierr.Append(problems, fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", name))
	}
	return problems
}
