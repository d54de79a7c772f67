package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store is a string key/value store with browser local storage semantics.
type Store interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

var _ Store = (*LocalStorage)(nil)

// LocalStorage persists keys as a single JSON object in a file. Writes
// replace the file atomically.
type LocalStorage struct {
	mu   sync.Mutex
	path string
}

func NewLocalStorage(path string) *LocalStorage {
	return &LocalStorage{path: path}
}

// DefaultPath is the storage file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cart.DefaultPath: %w", err)
	}
	return filepath.Join(dir, "storefront", "localstorage.json"), nil
}

func (s *LocalStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

func (s *LocalStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *LocalStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *LocalStorage) load() (map[string]string, error) {
	const op = "cart.LocalStorage.load"

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", op, s.path, err)
	}

	items := map[string]string{}
	if len(raw) == 0 {
		return items, nil
	}
	if err = json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, s.path, err)
	}
	return items, nil
}

func (s *LocalStorage) save(items map[string]string) error {
	const op = "cart.LocalStorage.save"

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%s: create dir: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, ".localstorage-*")
	if err != nil {
		return fmt.Errorf("%s: create temp file: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%s: close: %w", op, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: replace %s: %w", op, s.path, err)
	}
	return nil
}
