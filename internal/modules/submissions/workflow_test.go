package submissions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssetStore struct {
	containers  []storage.Container
	failUploads map[string]bool
	signErr     error
	uploads     []string
	publicCalls []string
}

func (f *fakeAssetStore) ListContainers(_ context.Context) ([]storage.Container, error) {
	return f.containers, nil
}

func (f *fakeAssetStore) Upload(_ context.Context, container, path string, data []byte, _ storage.UploadOptions) (*storage.Object, error) {
	key := container + "/" + path
	if f.failUploads[path] {
		return nil, errors.New("upload refused")
	}
	f.uploads = append(f.uploads, key)
	return &storage.Object{ContainerName: container, Path: path, Size: int64(len(data))}, nil
}

func (f *fakeAssetStore) SetPublic(_ context.Context, container, path string, _ bool) error {
	f.publicCalls = append(f.publicCalls, container+"/"+path)
	return nil
}

func (f *fakeAssetStore) SignedURL(_ context.Context, container, path string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://api.test/api/storage/object/" + container + "/" + path + "?token=t", nil
}

func (f *fakeAssetStore) PublicURL(container, path string) string {
	return "https://api.test/storage/v1/object/public/" + container + "/" + path
}

type fakeSubmissionStore struct {
	inserted []*Submission
	err      error
}

func (f *fakeSubmissionStore) Insert(_ context.Context, sub *Submission) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, sub)
	return nil
}

func newTestWorkflow(assets *fakeAssetStore, store *fakeSubmissionStore) *UploadWorkflow {
	w := NewUploadWorkflow(assets, store, "submissions", 168*time.Hour)
	w.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return w
}

func validInput() UploadInput {
	return UploadInput{
		ChallengeID: uuid.New(),
		Title:       "Banking dashboard",
		Description: "Dark-mode dashboard with spending insights",
		Tools:       "Figma",
		Preview:     &PreviewUpload{Name: "final shot.png", ContentType: "image/png", Data: []byte("png")},
		Files: []FileUpload{
			{Name: "mockup.fig", ContentType: "application/octet-stream", Data: []byte("fig")},
		},
	}
}

func TestRunRejectsAnonymousUser(t *testing.T) {
	assets := &fakeAssetStore{}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	_, err := w.Run(context.Background(), uuid.Nil, validInput())

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StateValidating, stage.Stage)
	assert.Empty(t, assets.uploads)
	assert.Empty(t, store.inserted)
}

func TestRunRejectsMissingFields(t *testing.T) {
	assets := &fakeAssetStore{}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	input := validInput()
	input.Description = ""

	_, err := w.Run(context.Background(), uuid.New(), input)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StateValidating, stage.Stage)
	assert.Empty(t, assets.uploads)
}

func TestRunRejectsNoAssetsAtAll(t *testing.T) {
	assets := &fakeAssetStore{}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	input := validInput()
	input.Preview = nil
	input.Files = nil

	_, err := w.Run(context.Background(), uuid.New(), input)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StateValidating, stage.Stage)
}

func TestRunHappyPath(t *testing.T) {
	assets := &fakeAssetStore{
		containers: []storage.Container{{Name: "avatars"}, {Name: "submissions"}},
	}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)
	userID := uuid.New()

	sub, err := w.Run(context.Background(), userID, validInput())
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)

	// Preview goes to the submissions container even when it is not
	// listed first, under a timestamped sanitized name.
	assert.Contains(t, assets.uploads, "submissions/preview-images/"+userID.String()+"/1700000000000-final_shot.png")
	assert.Contains(t, assets.uploads, "submissions/project-files/"+userID.String()+"/1700000000000-mockup.fig")
	assert.Len(t, assets.publicCalls, 1)

	require.NotNil(t, sub.PreviewImage)
	assert.True(t, strings.Contains(*sub.PreviewImage, "token="))
	assert.Equal(t, StatusSubmitted, sub.Status)
}

func TestRunFallsBackToFirstContainer(t *testing.T) {
	assets := &fakeAssetStore{containers: []storage.Container{{Name: "uploads"}}}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)
	userID := uuid.New()

	_, err := w.Run(context.Background(), userID, validInput())
	require.NoError(t, err)

	assert.Contains(t, assets.uploads, "uploads/preview-images/"+userID.String()+"/1700000000000-final_shot.png")
}

func TestRunFileFailureAbortsWithoutPersisting(t *testing.T) {
	assets := &fakeAssetStore{
		containers: []storage.Container{{Name: "submissions"}},
	}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)
	userID := uuid.New()

	input := validInput()
	input.Files = []FileUpload{
		{Name: "one.fig", ContentType: "application/octet-stream", Data: []byte("1")},
		{Name: "two.fig", ContentType: "application/octet-stream", Data: []byte("2")},
		{Name: "three.fig", ContentType: "application/octet-stream", Data: []byte("3")},
	}
	assets.failUploads = map[string]bool{
		"project-files/" + userID.String() + "/1700000000000-two.fig": true,
	}

	_, err := w.Run(context.Background(), userID, input)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StateUploadingFiles, stage.Stage)
	assert.Empty(t, store.inserted)
}

func TestRunSigningFailureFallsBackToPublicURL(t *testing.T) {
	assets := &fakeAssetStore{
		containers: []storage.Container{{Name: "submissions"}},
		signErr:    errors.New("signer down"),
	}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	sub, err := w.Run(context.Background(), uuid.New(), validInput())
	require.NoError(t, err)

	require.NotNil(t, sub.PreviewImage)
	assert.True(t, strings.Contains(*sub.PreviewImage, "/storage/v1/object/public/submissions/"))
}

func TestRunCancelledContextStopsBeforeStorage(t *testing.T) {
	assets := &fakeAssetStore{containers: []storage.Container{{Name: "submissions"}}}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Run(ctx, uuid.New(), validInput())

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StateUploadingPreview, stage.Stage)
	assert.Empty(t, assets.uploads)
	assert.Empty(t, store.inserted)
}

func TestSaveDraftSkipsStorageEntirely(t *testing.T) {
	assets := &fakeAssetStore{}
	store := &fakeSubmissionStore{}
	w := newTestWorkflow(assets, store)

	sub, err := w.SaveDraft(context.Background(), uuid.New(), DraftInput{
		ChallengeID: uuid.New(),
		Preview:     "blob:https://app.test/7f3c",
		Files: []SubmissionFile{
			{Name: "wip.fig", Type: "application/octet-stream", Size: 12, URL: "blob:https://app.test/9a1b"},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, assets.uploads)
	assert.Equal(t, "Untitled Draft", sub.Title)
	assert.Equal(t, StatusDraft, sub.Status)
	require.NotNil(t, sub.PreviewImage)
	assert.Equal(t, "blob:https://app.test/7f3c", *sub.PreviewImage)
	assert.False(t, sub.PreviewRecoverable())
}
