package fsxmem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/Abraxas-365/hirehub/pkg/fsx"
)

// MemoryFileSystem keeps files in process memory. Used by the memory store driver and tests.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	// FailCopy makes CopyFile fail, to exercise fallback paths
	FailCopy bool
}

func New() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

var _ fsx.FileSystem = (*MemoryFileSystem)(nil)

func (m *MemoryFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (m *MemoryFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.WriteFile(ctx, p, data)
}

func (m *MemoryFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, fsx.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	data, err := m.ReadFile(ctx, p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryFileSystem) CopyFile(ctx context.Context, src, dst string) error {
	if m.FailCopy {
		return fmt.Errorf("copy %s: storage unavailable", src)
	}
	data, err := m.ReadFile(ctx, src)
	if err != nil {
		return err
	}
	return m.WriteFile(ctx, dst, data)
}

func (m *MemoryFileSystem) DeleteFile(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
	return nil
}

func (m *MemoryFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[p]
	return ok, nil
}
