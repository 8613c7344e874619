// Package alias maps names as they appear in score tables to the display
// names used in the comparison. A Table is built once at start-up and is
// safe for concurrent use.
package alias

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stdscore/internal"
)

//go:embed aliases.toml
var defaultAliases []byte

type Table struct {
	byKey map[string]string
}

type file struct {
	Aliases map[string]string `toml:"aliases"`
}

// New builds a table from entries. Keys are lowercased; two keys equal
// after lowercasing are rejected, as are empty keys and display names.
func New(entries []internal.AliasEntry) (*Table, error) {
	t := &Table{byKey: make(map[string]string, len(entries))}
	original := make(map[string]string, len(entries))
	for _, e := range entries {
		key := lower(e.Key)
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("alias with empty key (display %q)", e.Display)
		}
		if strings.TrimSpace(e.Display) == "" {
			return nil, fmt.Errorf("alias %q has empty display name", e.Key)
		}
		if prev, ok := original[key]; ok {
			return nil, fmt.Errorf("duplicate alias key %q (also %q)", e.Key, prev)
		}
		original[key] = e.Key
		t.byKey[key] = e.Display
	}
	return t, nil
}

func Empty() *Table {
	return &Table{byKey: map[string]string{}}
}

func Default() (*Table, error) {
	return Parse(defaultAliases)
}

func Parse(blob []byte) (*Table, error) {
	var f file
	if err := toml.Unmarshal(blob, &f); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	keys := make([]string, 0, len(f.Aliases))
	for k := range f.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]internal.AliasEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, internal.AliasEntry{Key: k, Display: f.Aliases[k]})
	}
	return New(entries)
}

func LoadFile(path string) (*Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Resolve returns the display name for name, or name itself when no alias
// is registered.
func (t *Table) Resolve(name string) string {
	if t == nil {
		return name
	}
	if display, ok := t.byKey[lower(name)]; ok {
		return display
	}
	return name
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

// Entries returns the table sorted by key.
func (t *Table) Entries() []internal.AliasEntry {
	if t == nil {
		return nil
	}
	out := make([]internal.AliasEntry, 0, len(t.byKey))
	for k, v := range t.byKey {
		out = append(out, internal.AliasEntry{Key: k, Display: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Casers keep state, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
