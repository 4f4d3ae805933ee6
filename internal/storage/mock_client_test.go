package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBlobClientRoundTrip(t *testing.T) {
	m := NewMockBlobClient()

	require.NoError(t, m.Upload("submissions/a.png", bytes.NewReader([]byte("bytes"))))
	assert.True(t, m.Has("submissions/a.png"))
	assert.Equal(t, []string{"submissions/a.png"}, m.Uploads)

	r, err := m.Download("submissions/a.png")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	require.NoError(t, m.Delete("submissions/a.png"))
	assert.False(t, m.Has("submissions/a.png"))
}

func TestMockBlobClientFailureInjection(t *testing.T) {
	m := NewMockBlobClient()
	m.FailUpload["submissions/b.png"] = true

	assert.Error(t, m.Upload("submissions/b.png", bytes.NewReader(nil)))
	assert.False(t, m.Has("submissions/b.png"))
	assert.Empty(t, m.Uploads)

	_, err := m.Download("submissions/b.png")
	assert.Error(t, err)
}
