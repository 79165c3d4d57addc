package prefs

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHideAndUnhide(t *testing.T) {
	db := openTestDB(t)

	if err := db.HideList("u1", "classroom-c1"); err != nil {
		t.Fatalf("HideList failed: %v", err)
	}

	hidden, err := db.IsHidden("u1", "classroom-c1")
	if err != nil || !hidden {
		t.Errorf("IsHidden = %v, %v; want true", hidden, err)
	}

	if err := db.UnhideList("u1", "classroom-c1"); err != nil {
		t.Fatalf("UnhideList failed: %v", err)
	}
	hidden, _ = db.IsHidden("u1", "classroom-c1")
	if hidden {
		t.Error("list should be visible after unhide")
	}
}

func TestHideTwiceIsNoOp(t *testing.T) {
	db := openTestDB(t)

	if err := db.HideList("u1", "inbox"); err != nil {
		t.Fatalf("first hide: %v", err)
	}
	if err := db.HideList("u1", "inbox"); err != nil {
		t.Fatalf("second hide should not error: %v", err)
	}

	ids, err := db.HiddenLists("u1")
	if err != nil {
		t.Fatalf("HiddenLists failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("hidden = %v, want one entry", ids)
	}
}

func TestHiddenListsScopedByOwner(t *testing.T) {
	db := openTestDB(t)

	db.HideList("u1", "a")
	db.HideList("u1", "b")
	db.HideList("u2", "c")

	ids, err := db.HiddenLists("u1")
	if err != nil {
		t.Fatalf("HiddenLists failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("u1 hidden = %v, want [a b]", ids)
	}

	other, _ := db.HiddenLists("u2")
	if len(other) != 1 || other[0] != "c" {
		t.Errorf("u2 hidden = %v, want [c]", other)
	}
}
