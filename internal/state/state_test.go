package state

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory_Schema(t *testing.T) {
	m, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer m.Close()

	for _, table := range []string{"songs", "song_tags", "queue_tracks", "playlists", "playlist_tracks"} {
		var name string
		err := m.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var version int
	if err := m.DB().QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("schema_version query failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if m.Path() != path {
		t.Errorf("Path() = %q, want %q", m.Path(), path)
	}
	if _, err := m.DB().Exec(`INSERT INTO playlists (name, mtime) VALUES ('x', 1)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	m.Close()

	// Reopening keeps the data and does not re-run the version insert
	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	var count int
	if err := m.DB().QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("playlists = %d, want 1", count)
	}
	if err := m.DB().QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_version rows = %d, want 1", count)
	}
}

func TestOpen_NewerSchemaRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := m.DB().Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion+1); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	m.Close()

	if m, err := Open(path); err == nil {
		m.Close()
		t.Fatal("expected error for newer schema version")
	}
}
