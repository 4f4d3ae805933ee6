package storage

import "io"

// BlobClient moves raw bytes to and from the backing store.
type BlobClient interface {
	Upload(remotePath string, data io.Reader) error
	Download(remotePath string) (io.ReadCloser, error)
	Delete(remotePath string) error
	Close() error
}

var _ BlobClient = (*FTPClient)(nil)
var _ BlobClient = (*MockBlobClient)(nil)
