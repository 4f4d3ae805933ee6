package storage

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// ftpConn is the slice of an FTP session the client uses.
type ftpConn interface {
	Stor(remotePath string, data io.Reader) error
	Retr(remotePath string) (io.ReadCloser, error)
	Delete(remotePath string) error
	Quit() error
}

// serverConn adapts *ftp.ServerConn to ftpConn (Retr returns the
// concrete *ftp.Response type).
type serverConn struct{ *ftp.ServerConn }

func (s serverConn) Retr(remotePath string) (io.ReadCloser, error) {
	return s.ServerConn.Retr(remotePath)
}

// FTPClient is the production BlobClient. One session is shared across
// request goroutines under a mutex; a command failing on an established
// session drops the connection and retries once on a fresh dial, so a
// dropped session heals on the next command.
type FTPClient struct {
	dial func() (ftpConn, error)

	mu   sync.Mutex
	conn ftpConn
}

func NewFTPClient(host, port, user, password string) *FTPClient {
	addr := host + ":" + port
	return &FTPClient{
		dial: func() (ftpConn, error) {
			conn, err := ftp.Dial(addr, ftp.DialWithTimeout(10*time.Second))
			if err != nil {
				return nil, fmt.Errorf("failed to connect to blob store: %w", err)
			}
			if err := conn.Login(user, password); err != nil {
				conn.Quit()
				return nil, fmt.Errorf("failed to login to blob store: %w", err)
			}
			return serverConn{conn}, nil
		},
	}
}

// withConn runs one command while holding the session lock. On error
// the session is dropped either way; a reused session additionally gets
// one retry on a fresh connection, since the failure may just be a dead
// control connection.
func (c *FTPClient) withConn(fn func(ftpConn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reused := c.conn != nil
	if c.conn == nil {
		conn, err := c.dial()
		if err != nil {
			return err
		}
		c.conn = conn
	}

	err := fn(c.conn)
	if err == nil {
		return nil
	}

	c.conn.Quit()
	c.conn = nil
	if !reused {
		return err
	}

	conn, dialErr := c.dial()
	if dialErr != nil {
		return err
	}
	c.conn = conn

	if err := fn(c.conn); err != nil {
		c.conn.Quit()
		c.conn = nil
		return err
	}
	return nil
}

func (c *FTPClient) Upload(remotePath string, data io.Reader) error {
	// Buffer so a retried STOR re-sends from the start.
	payload, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read upload payload: %w", err)
	}

	err = c.withConn(func(conn ftpConn) error {
		return conn.Stor(remotePath, bytes.NewReader(payload))
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	return nil
}

func (c *FTPClient) Download(remotePath string) (io.ReadCloser, error) {
	var buf bytes.Buffer
	err := c.withConn(func(conn ftpConn) error {
		buf.Reset()
		resp, err := conn.Retr(remotePath)
		if err != nil {
			return err
		}
		defer resp.Close()
		_, err = io.Copy(&buf, resp)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func (c *FTPClient) Delete(remotePath string) error {
	err := c.withConn(func(conn ftpConn) error {
		return conn.Delete(remotePath)
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (c *FTPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Quit()
		c.conn = nil
		return err
	}
	return nil
}
