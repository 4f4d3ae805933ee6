package storage

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// MockBlobClient is an in-memory BlobClient for tests and local runs
// without an FTP server.
type MockBlobClient struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailUpload, when set, makes Upload fail for that exact path.
	FailUpload map[string]bool
	// Uploads records paths in upload order.
	Uploads []string
}

func NewMockBlobClient() *MockBlobClient {
	return &MockBlobClient{
		blobs:      make(map[string][]byte),
		FailUpload: make(map[string]bool),
	}
}

func (m *MockBlobClient) Upload(remotePath string, data io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpload[remotePath] {
		return errors.New("mock upload failure")
	}

	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.blobs[remotePath] = b
	m.Uploads = append(m.Uploads, remotePath)
	return nil
}

func (m *MockBlobClient) Download(remotePath string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[remotePath]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MockBlobClient) Delete(remotePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[remotePath]; !ok {
		return errors.New("blob not found")
	}
	delete(m.blobs, remotePath)
	return nil
}

func (m *MockBlobClient) Close() error { return nil }

// Has reports whether a blob exists at the path.
func (m *MockBlobClient) Has(remotePath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[remotePath]
	return ok
}
