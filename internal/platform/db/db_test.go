package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() err = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (k TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (k) VALUES (?)`, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestOpenPostgresUnreachable(t *testing.T) {
	if _, err := Open("postgres://nobody@127.0.0.1:1/none?connect_timeout=1"); err == nil {
		t.Fatalf("Open() err = nil, want connection error")
	}
}
