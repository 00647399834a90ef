package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a durable string key-value store
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

var errCorruptStorage = errors.New("storage file is corrupt")

// FileStorage keeps key-value pairs in a single JSON object on disk.
// Every call goes to disk so separate processes observe each other's writes.
type FileStorage struct {
	mu   sync.RWMutex
	path string
}

// NewFileStorage returns a FileStorage backed by path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultFileStorage returns storage at the standard location under the config dir
func DefaultFileStorage() (*FileStorage, error) {
	path, err := GetStoragePath()
	if err != nil {
		return nil, err
	}
	return NewFileStorage(path), nil
}

// Path returns the backing file location
func (s *FileStorage) Path() string {
	return s.path
}

// Get returns the value stored under key
func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.readLocked()
	if err != nil {
		return "", false
	}
	v, ok := data[key]
	return v, ok
}

// Set stores value under key
func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readForWriteLocked()
	if err != nil {
		return err
	}
	data[key] = value
	return s.writeLocked(data)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readForWriteLocked()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.writeLocked(data)
}

func (s *FileStorage) readLocked() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptStorage, err)
	}
	return data, nil
}

// readForWriteLocked is readLocked for Set and Delete. A corrupt file is
// moved aside to <path>.corrupt and replaced by an empty store.
func (s *FileStorage) readForWriteLocked() (map[string]string, error) {
	data, err := s.readLocked()
	if !errors.Is(err, errCorruptStorage) {
		return data, err
	}
	if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
		return nil, fmt.Errorf("failed to move corrupt storage file aside: %w", err)
	}
	return map[string]string{}, s.writeLocked(map[string]string{})
}

func (s *FileStorage) writeLocked(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	// Write to a sibling file and rename so readers never see a torn write
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// MemoryStorage is a non-durable Storage, used in tests
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
