package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/leapstack-labs/sitecounts/pkg/core"
	"gopkg.in/yaml.v3"
)

// Fixture is a YAML description of content to load into the store.
type Fixture struct {
	ContentTypes []core.ContentType `yaml:"content_types"`
	Entries      []core.Entry       `yaml:"entries"`
}

// LoadFixtureFile parses a single fixture file.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// LoadFixtureDir merges every .yaml and .yml file in dir, in file name order.
// A missing directory yields an empty fixture.
func LoadFixtureDir(dir string) (*Fixture, error) {
	merged := &Fixture{}

	dirEntries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return merged, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures directory: %w", err)
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		switch filepath.Ext(de.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, de.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		f, err := LoadFixtureFile(path)
		if err != nil {
			return nil, err
		}
		merged.ContentTypes = append(merged.ContentTypes, f.ContentTypes...)
		merged.Entries = append(merged.Entries, f.Entries...)
	}
	return merged, nil
}

// ImportFixture upserts the fixture's content types and replaces all entries
// with the fixture's entries in a single transaction.
func (s *SQLiteStore) ImportFixture(ctx context.Context, f *Fixture) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if f == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ct := range f.ContentTypes {
		if ct.Name == "" {
			return fmt.Errorf("content type name is required")
		}
		if err := upsertContentType(ctx, tx, ct); err != nil {
			return err
		}
	}

	for _, stmt := range []string{`DELETE FROM entry_terms`, `DELETE FROM entries`, `DELETE FROM terms`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}
	}

	for _, e := range f.Entries {
		if _, err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fixture: %w", err)
	}

	s.logger.Info("imported fixture", "content_types", len(f.ContentTypes), "entries", len(f.Entries))
	return nil
}
