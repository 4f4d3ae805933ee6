package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFTPConn struct {
	objects map[string][]byte
	fail    bool
	quit    bool

	storCalls   int
	retrCalls   int
	deleteCalls int
}

func newFakeFTPConn() *fakeFTPConn {
	return &fakeFTPConn{objects: map[string][]byte{}}
}

func (f *fakeFTPConn) Stor(remotePath string, data io.Reader) error {
	f.storCalls++
	if f.fail {
		return errors.New("connection reset by peer")
	}
	payload, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[remotePath] = payload
	return nil
}

func (f *fakeFTPConn) Retr(remotePath string) (io.ReadCloser, error) {
	f.retrCalls++
	if f.fail {
		return nil, errors.New("connection reset by peer")
	}
	data, ok := f.objects[remotePath]
	if !ok {
		return nil, errors.New("550 file unavailable")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFTPConn) Delete(remotePath string) error {
	f.deleteCalls++
	if f.fail {
		return errors.New("connection reset by peer")
	}
	delete(f.objects, remotePath)
	return nil
}

func (f *fakeFTPConn) Quit() error {
	f.quit = true
	return nil
}

func TestFTPClientUploadDownloadRoundTrip(t *testing.T) {
	conn := newFakeFTPConn()
	client := &FTPClient{dial: func() (ftpConn, error) { return conn, nil }}

	require.NoError(t, client.Upload("previews/shot.png", strings.NewReader("pixels")))

	reader, err := client.Download("previews/shot.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestFTPClientRedialsWhenSessionDies(t *testing.T) {
	first := newFakeFTPConn()
	second := newFakeFTPConn()
	conns := []*fakeFTPConn{first, second}
	dials := 0
	client := &FTPClient{dial: func() (ftpConn, error) {
		conn := conns[dials]
		dials++
		return conn, nil
	}}

	// Establish the session, then have the server drop it.
	require.NoError(t, client.Upload("a.txt", strings.NewReader("one")))
	first.fail = true

	// Next command fails on the stale session and retries on a fresh one.
	require.NoError(t, client.Upload("b.txt", strings.NewReader("two")))

	assert.Equal(t, 2, dials)
	assert.True(t, first.quit)
	assert.Equal(t, "two", string(second.objects["b.txt"]))
}

func TestFTPClientDoesNotRetryFreshSession(t *testing.T) {
	dials := 0
	client := &FTPClient{dial: func() (ftpConn, error) {
		dials++
		conn := newFakeFTPConn()
		conn.fail = true
		return conn, nil
	}}

	err := client.Upload("a.txt", strings.NewReader("one"))
	require.Error(t, err)
	assert.Equal(t, 1, dials)
}

func TestFTPClientSurfacesDialError(t *testing.T) {
	client := &FTPClient{dial: func() (ftpConn, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}

	err := client.Upload("a.txt", strings.NewReader("one"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFTPClientDownloadRetryReturnsFullObject(t *testing.T) {
	first := newFakeFTPConn()
	second := newFakeFTPConn()
	second.objects["a.txt"] = []byte("payload")
	conns := []*fakeFTPConn{first, second}
	dials := 0
	client := &FTPClient{dial: func() (ftpConn, error) {
		conn := conns[dials]
		dials++
		return conn, nil
	}}

	first.objects["warm.txt"] = []byte("warm")
	reader, err := client.Download("warm.txt")
	require.NoError(t, err)
	reader.Close()

	first.fail = true
	reader, err = client.Download("a.txt")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, 2, dials)
}

func TestFTPClientCloseQuitsSession(t *testing.T) {
	conn := newFakeFTPConn()
	client := &FTPClient{dial: func() (ftpConn, error) { return conn, nil }}

	require.NoError(t, client.Upload("a.txt", strings.NewReader("one")))
	require.NoError(t, client.Close())
	assert.True(t, conn.quit)

	// Close on an already-closed client is a no-op.
	require.NoError(t, client.Close())
}
