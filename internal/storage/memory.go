package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory keeps files in process memory. Used by tests and by development
// setups running without an S3 endpoint.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	types map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (m *Memory) Save(_ context.Context, path string, file io.Reader, contentType string) error {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = buf.Bytes()
	m.types[path] = contentType
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	delete(m.types, path)
	return nil
}

func (m *Memory) URL(_ context.Context, path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; !ok {
		return "", fmt.Errorf("file %q not found", path)
	}
	return "memory://" + path, nil
}

// File returns the stored bytes and content type.
func (m *Memory) File(path string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, m.types[path], ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
