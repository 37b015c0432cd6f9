package cache

import (
	"os"
	"path/filepath"
)

// Manager handles the local cache of downloaded book content.
type Manager struct {
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Path returns the cache path for a book's content.
// Layout: <baseDir>/books/<bookID>.epub
func (m *Manager) Path(bookID string) string {
	return filepath.Join(m.baseDir, "books", bookID+".epub")
}

// Dir returns the content cache directory.
func (m *Manager) Dir() string {
	return filepath.Join(m.baseDir, "books")
}

// Exists reports whether the book's content is cached.
func (m *Manager) Exists(bookID string) bool {
	_, err := os.Stat(m.Path(bookID))
	return err == nil
}

// EnsureDir creates the content directory.
func (m *Manager) EnsureDir() error {
	return os.MkdirAll(filepath.Join(m.baseDir, "books"), 0750)
}

// Remove deletes a book's cached content if present.
func (m *Manager) Remove(bookID string) error {
	err := os.Remove(m.Path(bookID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes the whole content cache.
func (m *Manager) Clear() error {
	return os.RemoveAll(filepath.Join(m.baseDir, "books"))
}

// Size returns the total bytes cached and the number of cached books.
func (m *Manager) Size() (int64, int, error) {
	dir := filepath.Join(m.baseDir, "books")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	var total int64
	count := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
		count++
	}
	return total, count, nil
}
