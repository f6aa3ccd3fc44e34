package db

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_SortsAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"003_indexes.sql": {Data: []byte("CREATE INDEX a ON b (c);")},
		"001_schema.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"002_hours.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"README.md":       {Data: []byte("not sql")},
		"notes.sql":       {Data: []byte("no prefix")},
		"draft_x.sql":     {Data: []byte("non numeric prefix")},
	}

	migrations, err := LoadMigrations(fsys)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("index %d: expected version %d, got %d", i, i+1, m.Version)
		}
	}
	if migrations[0].Name != "001_schema.sql" || migrations[0].SQL != "CREATE TABLE a (id INT);" {
		t.Errorf("unexpected first migration %+v", migrations[0])
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql":  {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := LoadMigrations(fsys); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestEmbeddedSchema(t *testing.T) {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	migrations, err := LoadMigrations(sub)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != 1 {
		t.Fatalf("expected embedded schema starting at version 1, got %+v", migrations)
	}
	for _, table := range []string{"doctors", "doctor_working_hours", "patients", "appointments"} {
		if !strings.Contains(migrations[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("expected schema to create %s", table)
		}
	}
}
