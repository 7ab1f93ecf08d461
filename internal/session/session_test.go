package session

import (
	"os"
	"path/filepath"
	"testing"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.toml")
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := testPath(t)

	s := Open(path)
	if s.SignedIn() {
		t.Fatal("fresh store reports signed in")
	}

	identity := Identity{
		Token:     "tok-abc",
		UserID:    "u1",
		UserName:  "Ada",
		UserEmail: "ada@example.com",
		UserRole:  "customer",
	}
	if err := s.Save(identity); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded := Open(path)
	if !reloaded.SignedIn() {
		t.Fatal("reloaded store not signed in")
	}
	if got := reloaded.Identity(); got != identity {
		t.Fatalf("reloaded identity = %#v, want %#v", got, identity)
	}
	if reloaded.Token() != "tok-abc" || reloaded.UserID() != "u1" {
		t.Fatalf("accessors = (%q, %q), want token and user id", reloaded.Token(), reloaded.UserID())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 0600", perm)
	}
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	s := Open(testPath(t))
	if err := s.Save(Identity{UserID: "u1"}); err == nil {
		t.Fatal("Save accepted identity without credential")
	}
}

func TestStore_ClearRemovesFile(t *testing.T) {
	path := testPath(t)

	s := Open(path)
	if err := s.Save(Identity{Token: "tok", UserID: "u1"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if s.SignedIn() || s.Token() != "" {
		t.Fatal("store still signed in after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still present after Clear: %v", err)
	}

	// Clearing again is a no-op.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestOpen_GracefulOnMissingAndCorrupt(t *testing.T) {
	missing := Open(filepath.Join(t.TempDir(), "nope", "session.toml"))
	if missing.SignedIn() {
		t.Fatal("missing file reported signed in")
	}

	path := testPath(t)
	if err := os.WriteFile(path, []byte("{{{not toml"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	corrupt := Open(path)
	if corrupt.SignedIn() {
		t.Fatal("corrupt file reported signed in")
	}
}
