package storage

import (
	"path/filepath"
	"testing"

	"stdscore/internal"
)

func TestReplaceAndListAliases(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "aliases.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.ReplaceAliases([]internal.AliasEntry{{Key: "zz", Display: "Z Z"}, {Key: "cqyc-wht", Display: "CQYC-王鸿天"}}); err != nil {
		t.Fatal(err)
	}
	got, err := db.ListAliases()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Key != "cqyc-wht" || got[0].Display != "CQYC-王鸿天" {
		t.Fatalf("got=%+v", got)
	}

	if err := db.ReplaceAliases([]internal.AliasEntry{{Key: "bob-x", Display: "Bob X"}}); err != nil {
		t.Fatal(err)
	}
	got, _ = db.ListAliases()
	if len(got) != 1 || got[0].Key != "bob-x" {
		t.Fatalf("replace kept old rows: %+v", got)
	}
}

func TestMetadata(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "aliases.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	v, err := db.GetMetadata("aliases.imported_from")
	if err != nil || v != nil {
		t.Fatalf("v=%v err=%v", v, err)
	}
	if err := db.SetMetadata("aliases.imported_from", "a.toml"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("aliases.imported_from", "b.toml"); err != nil {
		t.Fatal(err)
	}
	v, _ = db.GetMetadata("aliases.imported_from")
	if v == nil || *v != "b.toml" {
		t.Fatalf("v=%v", v)
	}
}
