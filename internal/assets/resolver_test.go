package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSigner struct {
	signedURL string
	err       error
	container string
	path      string
	calls     int
}

func (f *fakeSigner) SignedURL(_ context.Context, container, path string, _ time.Duration) (string, error) {
	f.calls++
	f.container = container
	f.path = path
	if f.err != nil {
		return "", f.err
	}
	return f.signedURL, nil
}

func TestDisplayURLEmptyReturnsPlaceholder(t *testing.T) {
	signer := &fakeSigner{}
	r := NewResolver(signer, time.Hour)

	assert.Equal(t, PlaceholderURL, r.DisplayURL(context.Background(), ""))
	assert.Zero(t, signer.calls)
}

func TestDisplayURLLocalPreviewPassesThrough(t *testing.T) {
	signer := &fakeSigner{}
	r := NewResolver(signer, time.Hour)

	ref := "blob:https://app.example.com/1c2e0f9a"
	assert.Equal(t, ref, r.DisplayURL(context.Background(), ref))
	assert.Zero(t, signer.calls)
}

func TestDisplayURLStoredPublicURLGetsSigned(t *testing.T) {
	signer := &fakeSigner{signedURL: "https://cdn.example.com/signed?token=abc"}
	r := NewResolver(signer, time.Hour)

	ref := "https://api.example.com/storage/v1/object/public/submissions/preview-images/u1/123-shot.png"
	got := r.DisplayURL(context.Background(), ref)

	assert.Equal(t, "https://cdn.example.com/signed?token=abc", got)
	assert.Equal(t, "submissions", signer.container)
	assert.Equal(t, "preview-images/u1/123-shot.png", signer.path)
}

func TestDisplayURLFallsBackToStoredURLWhenSigningFails(t *testing.T) {
	signer := &fakeSigner{err: errors.New("signer unavailable")}
	r := NewResolver(signer, time.Hour)

	ref := "https://api.example.com/storage/v1/object/public/submissions/preview-images/u1/123-shot.png"
	assert.Equal(t, ref, r.DisplayURL(context.Background(), ref))
}

func TestDisplayURLForeignURLPassesThrough(t *testing.T) {
	signer := &fakeSigner{}
	r := NewResolver(signer, time.Hour)

	ref := "https://images.unsplash.com/photo-1551650975-87deedd944c3"
	assert.Equal(t, ref, r.DisplayURL(context.Background(), ref))
	assert.Zero(t, signer.calls)
}
