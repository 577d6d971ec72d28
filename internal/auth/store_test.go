package auth

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *FileAccountStore {
	t.Helper()
	return NewFileAccountStore(filepath.Join(t.TempDir(), "cache", "accounts.json"))
}

func testAccount(id, username, access string) *Account {
	return &Account{ID: id, Username: username, Token: &oauth2.Token{AccessToken: access, RefreshToken: "r-" + access}}
}

// --- FileAccountStore Tests ---

func TestFileAccountStore_EmptyIsNotLoggedIn(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Selected(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	accounts, selected, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 || selected != "" {
		t.Errorf("expected empty cache, got %d accounts selected=%q", len(accounts), selected)
	}
}

func TestFileAccountStore_PutAndSelected(t *testing.T) {
	store := newTestStore(t)
	if err := store.Put(testAccount("a.t", "alice@example.com", "tok-a"), false); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Selected()
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if got.ID != "a.t" || got.Token.AccessToken != "tok-a" {
		t.Errorf("unexpected account %+v", got)
	}
}

func TestFileAccountStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	if err := store.Put(testAccount("a.t", "alice", "tok"), true); err != nil {
		t.Fatalf("Put: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestFileAccountStore_ListSortedWithSelection(t *testing.T) {
	store := newTestStore(t)
	store.Put(testAccount("b.t", "bob@example.com", "tok-b"), false)
	store.Put(testAccount("a.t", "alice@example.com", "tok-a"), false)

	accounts, selected, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Username != "alice@example.com" {
		t.Errorf("expected alice first, got %s", accounts[0].Username)
	}
	if selected != "b.t" {
		t.Errorf("expected first stored account selected, got %q", selected)
	}
}

func TestFileAccountStore_Select(t *testing.T) {
	store := newTestStore(t)
	store.Put(testAccount("a.t", "alice", "tok-a"), true)
	store.Put(testAccount("b.t", "bob", "tok-b"), false)

	if err := store.Select("b.t"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	got, _ := store.Selected()
	if got.ID != "b.t" {
		t.Errorf("expected b.t, got %s", got.ID)
	}

	if err := store.Select("nope"); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestFileAccountStore_RemoveSelectedReselects(t *testing.T) {
	store := newTestStore(t)
	store.Put(testAccount("a.t", "alice", "tok-a"), true)
	store.Put(testAccount("b.t", "bob", "tok-b"), false)

	if err := store.Remove("a.t"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err := store.Selected()
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if got.ID != "b.t" {
		t.Errorf("expected b.t selected after removal, got %s", got.ID)
	}

	if err := store.Remove("b.t"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Selected(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if err := store.Remove("b.t"); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestFileAccountStore_UpdateToken(t *testing.T) {
	store := newTestStore(t)
	store.Put(testAccount("a.t", "alice", "old"), true)

	if err := store.UpdateToken("a.t", &oauth2.Token{AccessToken: "new"}); err != nil {
		t.Fatalf("UpdateToken: %v", err)
	}
	got, _ := store.Selected()
	if got.Token.AccessToken != "new" {
		t.Errorf("expected new token, got %s", got.Token.AccessToken)
	}
	if err := store.UpdateToken("x", &oauth2.Token{}); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestFileAccountStore_Clear(t *testing.T) {
	store := newTestStore(t)
	store.Put(testAccount("a.t", "alice", "tok"), true)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("expected cache file removed, got %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestFileAccountStore_CorruptFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	os.MkdirAll(filepath.Dir(store.Path()), 0700)
	os.WriteFile(store.Path(), []byte("{not json"), 0600)

	if _, err := store.Selected(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn for corrupt cache, got %v", err)
	}
	if err := store.Put(testAccount("a.t", "alice", "tok"), true); err != nil {
		t.Errorf("expected Put to overwrite corrupt cache, got %v", err)
	}
}

func TestFileAccountStore_ConcurrentAccess(t *testing.T) {
	store := newTestStore(t)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Put(testAccount("a.t", "alice", "tok"), i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			store.List()
		}()
	}
	wg.Wait()

	if _, err := store.Selected(); err != nil {
		t.Errorf("expected account after concurrent writes, got %v", err)
	}
}
