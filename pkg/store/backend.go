package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
)

// Backend is the durable key-value store the event collection is written to
type Backend interface {
	// Load returns the value stored under key, or nil if the key is unset
	Load(key string) ([]byte, error)
	// Save durably stores value under key before returning
	Save(key string, value []byte) error
}

// PreferencesBackend keeps values in the fyne application preferences.
// fyne writes preferences to disk in the background and only logs failures,
// so Save never reports an error. Events stored by older versions live here
// and are moved to a FileBackend with MigrateKey.
type PreferencesBackend struct {
	prefs fyne.Preferences
}

// NewPreferencesBackend creates a backend on top of fyne preferences
func NewPreferencesBackend(prefs fyne.Preferences) *PreferencesBackend {
	return &PreferencesBackend{prefs: prefs}
}

func (pb *PreferencesBackend) Load(key string) ([]byte, error) {
	value := pb.prefs.String(key)
	if value == "" {
		return nil, nil
	}
	return []byte(value), nil
}

func (pb *PreferencesBackend) Save(key string, value []byte) error {
	pb.prefs.SetString(key, string(value))
	return nil
}

func (pb *PreferencesBackend) Remove(key string) {
	pb.prefs.RemoveValue(key)
}

// MigrateKey moves the value under key from one backend to another unless
// the destination already holds one. It reports whether anything was moved.
func MigrateKey(from, to Backend, key string) (bool, error) {
	existing, err := to.Load(key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	value, err := from.Load(key)
	if err != nil || value == nil {
		return false, err
	}
	if err := to.Save(key, value); err != nil {
		return false, err
	}

	if remover, ok := from.(interface{ Remove(key string) }); ok {
		remover.Remove(key)
	}
	return true, nil
}

// FileBackend keeps values in a single JSON document on disk.
// The document is a JSON object mapping keys to their raw JSON values.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a backend stored at path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file the backend writes to
func (fb *FileBackend) Path() string {
	return fb.path
}

func (fb *FileBackend) Load(key string) ([]byte, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	doc, err := fb.readDocument()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (fb *FileBackend) Save(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	doc, err := fb.readDocument()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(fb.path, data)
}

// Backup copies the current document to its path plus suffix and returns
// the copy's path
func (fb *FileBackend) Backup(suffix string) (string, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	data, err := os.ReadFile(fb.path)
	if err != nil {
		return "", err
	}
	backupPath := fb.path + suffix
	return backupPath, writeFileAtomic(backupPath, data)
}

func (fb *FileBackend) readDocument() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(fb.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fb.path, err)
	}
	return doc, nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path, so readers never observe a partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".kalendria-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
