package storage

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_PreferencesDefaults(t *testing.T) {
	store := newTestStore(t)

	p, err := store.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if p.Theme != "dark" || p.Language != "English" {
		t.Fatalf("defaults = %+v", p)
	}
}

func TestSQLiteStore_PreferencesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	want := Preferences{Theme: "light", Language: "中文", LastEmail: "a@b.com"}
	if err := store.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := store.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Upsert keeps a single row.
	want.Theme = "dark"
	if err := store.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences (update): %v", err)
	}
	got, _ = store.LoadPreferences()
	if got.Theme != "dark" {
		t.Fatalf("Theme=%q after update, want dark", got.Theme)
	}
}

func TestSQLiteStore_TranscriptSequencing(t *testing.T) {
	store := newTestStore(t)

	appends := []struct{ account, sender, body string }{
		{"a@b.com", "user", "hello"},
		{"a@b.com", "ai", "hi there"},
		{"other@b.com", "user", "unrelated"},
		{"a@b.com", "user", "more"},
	}
	for _, a := range appends {
		if err := store.AppendMessage(a.account, a.sender, a.body); err != nil {
			t.Fatalf("AppendMessage(%q): %v", a.body, err)
		}
	}

	rows, err := store.LoadTranscript("a@b.com")
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, r := range rows {
		if r.Seq != i {
			t.Fatalf("row %d seq = %d", i, r.Seq)
		}
	}
	if rows[1].Sender != "ai" || rows[1].Body != "hi there" {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

func TestSQLiteStore_AppendMessageRequiresAccount(t *testing.T) {
	store := newTestStore(t)
	if err := store.AppendMessage("  ", "user", "x"); err == nil {
		t.Fatal("empty account should be rejected")
	}
}

func TestSQLiteStore_ClearTranscript(t *testing.T) {
	store := newTestStore(t)

	_ = store.AppendMessage("a@b.com", "user", "hello")
	_ = store.AppendMessage("keep@b.com", "user", "stay")

	if err := store.ClearTranscript("a@b.com"); err != nil {
		t.Fatalf("ClearTranscript: %v", err)
	}
	rows, _ := store.LoadTranscript("a@b.com")
	if len(rows) != 0 {
		t.Fatalf("rows = %d after clear", len(rows))
	}
	kept, _ := store.LoadTranscript("keep@b.com")
	if len(kept) != 1 {
		t.Fatal("other accounts must be untouched")
	}
}
