package assets

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// PlaceholderURL is shown whenever a submission has no usable preview.
const PlaceholderURL = "https://placehold.co/600x400/e2e8f0/475569?text=No+Preview"

// localPreviewPrefix marks an ephemeral browser-session handle created
// during file selection. Such references are only meaningful to the
// client that created them and pass through untouched.
const localPreviewPrefix = "blob:"

// submissionsContainer is the container whose stored public URLs get
// re-signed for display.
const submissionsContainer = "submissions"

var publicObjectPattern = regexp.MustCompile(`/storage/v1/object/public/submissions/(.+)$`)

// URLSigner mints a time-limited signed URL for a stored object.
type URLSigner interface {
	SignedURL(ctx context.Context, container, path string, ttl time.Duration) (string, error)
}

// Resolver turns persisted asset references into displayable URLs,
// preferring a fresh short-lived signed URL over a stored public one.
type Resolver struct {
	signer     URLSigner
	displayTTL time.Duration
}

func NewResolver(signer URLSigner, displayTTL time.Duration) *Resolver {
	return &Resolver{signer: signer, displayTTL: displayTTL}
}

// DisplayURL resolves a stored reference to something an image or
// iframe tag can use. It is total: whatever goes wrong, the caller
// gets a URL back, never an error.
func (r *Resolver) DisplayURL(ctx context.Context, ref string) string {
	if ref == "" {
		return PlaceholderURL
	}

	if strings.HasPrefix(ref, localPreviewPrefix) {
		return ref
	}

	if match := publicObjectPattern.FindStringSubmatch(ref); match != nil {
		objectPath := match[1]
		signed, err := r.signer.SignedURL(ctx, submissionsContainer, objectPath, r.displayTTL)
		if err != nil {
			slog.Warn("failed to sign stored asset, falling back to stored URL",
				"path", objectPath, "error", err)
			return ref
		}
		return signed
	}

	return ref
}
