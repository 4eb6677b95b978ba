package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/creative-studio/internal/logging"
)

// RunClickHouseMigrations executes every .sql file in migrationsPath in name order.
// Statements must be idempotent; there is no version table.
func RunClickHouseMigrations(ctx context.Context, db *ClickHouseDB, migrationsPath string) error {
	logger := logging.FromContext(ctx).WithField("migrationsPath", migrationsPath)

	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		logger.Warn("No ClickHouse migration files found")
		return nil
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsPath, name)) // #nosec G304 - trusted migrations path
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		for i, stmt := range splitSQLStatements(string(content)) {
			if err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute statement %d in %s: %w", i+1, name, err)
			}
		}
		logger.WithField("file", name).Info("Applied ClickHouse migration")
	}

	return nil
}

// splitSQLStatements splits on statement-ending semicolons, dropping
// comment-only lines and the trailing semicolon ClickHouse does not need.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	flush := func() {
		stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";")
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	return statements
}
