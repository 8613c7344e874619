package alias

import (
	"fmt"
	"os"
	"strings"

	"stdscore/internal/config"
	"stdscore/internal/storage"
)

// FromConfig loads the alias table selected by cfg and reports where it
// came from. In auto mode an alias file wins over the store, and the store
// is only used when its file already exists.
func FromConfig(cfg config.Config) (*Table, string, error) {
	source := cfg.AliasSource
	if source == config.AliasSourceAuto {
		switch {
		case strings.TrimSpace(cfg.AliasFile) != "":
			source = config.AliasSourceFile
		case fileExists(cfg.AliasDBPath):
			source = config.AliasSourceDB
		default:
			source = config.AliasSourceEmbedded
		}
	}

	switch source {
	case config.AliasSourceFile:
		t, err := LoadFile(cfg.AliasFile)
		return t, "file:" + cfg.AliasFile, err
	case config.AliasSourceDB:
		t, err := LoadDB(cfg.AliasDBPath)
		return t, "db:" + cfg.AliasDBPath, err
	case config.AliasSourceEmbedded:
		t, err := Default()
		return t, "embedded", err
	default:
		return nil, "", fmt.Errorf("unsupported alias source: %s", source)
	}
}

func LoadDB(path string) (*Table, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := db.ListAliases()
	if err != nil {
		return nil, err
	}
	t, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Import validates the TOML alias file at path and stores it as the alias
// table of the database at dbPath.
func Import(path, dbPath string) (int, error) {
	t, err := LoadFile(path)
	if err != nil {
		return 0, err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := db.ReplaceAliases(t.Entries()); err != nil {
		return 0, err
	}
	_ = db.SetMetadata("aliases.imported_from", path)
	return t.Len(), nil
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
