package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/oauth2"
)

// Account is one signed-in Microsoft identity and its cached token.
type Account struct {
	ID       string        `json:"id"` // <oid>.<tid>
	Username string        `json:"username"`
	Name     string        `json:"name,omitempty"`
	TenantID string        `json:"tenant_id,omitempty"`
	Token    *oauth2.Token `json:"token,omitempty"`
}

// cacheFile is the on-disk layout of the account cache.
type cacheFile struct {
	Selected string              `json:"selected"`
	Accounts map[string]*Account `json:"accounts"`
}

// FileAccountStore persists accounts to a JSON file with 0600 permissions.
type FileAccountStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileAccountStore creates a store that persists to path. The directory
// is created on first write.
func NewFileAccountStore(path string) *FileAccountStore {
	return &FileAccountStore{path: path}
}

// Path returns the cache file location.
func (s *FileAccountStore) Path() string {
	return s.path
}

// load reads the cache. A missing or corrupt file is an empty cache.
func (s *FileAccountStore) load() (*cacheFile, error) {
	cache := &cacheFile{Accounts: map[string]*Account{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cache); err != nil {
		return &cacheFile{Accounts: map[string]*Account{}}, nil
	}
	if cache.Accounts == nil {
		cache.Accounts = map[string]*Account{}
	}
	return cache, nil
}

// save writes the cache. Must be called with mu held.
func (s *FileAccountStore) save(cache *cacheFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Selected returns the selected account, or ErrNotLoggedIn.
func (s *FileAccountStore) Selected() (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cache, err := s.load()
	if err != nil {
		return nil, err
	}
	acct, ok := cache.Accounts[cache.Selected]
	if !ok || acct.Token == nil {
		return nil, ErrNotLoggedIn
	}
	return acct, nil
}

// List returns all accounts sorted by username, and the selected id.
func (s *FileAccountStore) List() ([]Account, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cache, err := s.load()
	if err != nil {
		return nil, "", err
	}
	accounts := make([]Account, 0, len(cache.Accounts))
	for _, a := range cache.Accounts {
		accounts = append(accounts, *a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Username != accounts[j].Username {
			return accounts[i].Username < accounts[j].Username
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, cache.Selected, nil
}

// Put stores acct and, when selectIt is set, makes it the selected account.
func (s *FileAccountStore) Put(acct *Account, selectIt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.load()
	if err != nil {
		return err
	}
	cache.Accounts[acct.ID] = acct
	if selectIt || cache.Selected == "" {
		cache.Selected = acct.ID
	}
	return s.save(cache)
}

// UpdateToken replaces the token of an existing account.
func (s *FileAccountStore) UpdateToken(id string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.load()
	if err != nil {
		return err
	}
	acct, ok := cache.Accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	acct.Token = token
	return s.save(cache)
}

// Select makes id the selected account.
func (s *FileAccountStore) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := cache.Accounts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	cache.Selected = id
	return s.save(cache)
}

// Remove deletes id from the cache. Removing the selected account selects
// the first remaining one by id, if any.
func (s *FileAccountStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := cache.Accounts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	delete(cache.Accounts, id)
	if cache.Selected == id {
		cache.Selected = ""
		ids := make([]string, 0, len(cache.Accounts))
		for k := range cache.Accounts {
			ids = append(ids, k)
		}
		sort.Strings(ids)
		if len(ids) > 0 {
			cache.Selected = ids[0]
		}
	}
	return s.save(cache)
}

// Clear removes the cache file.
func (s *FileAccountStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
