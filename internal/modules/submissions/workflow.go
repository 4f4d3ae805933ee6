package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/storage"
	"gorm.io/datatypes"
)

// State names one stage of a submission attempt.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateUploadingPreview State = "uploading_preview"
	StateUploadingFiles   State = "uploading_files"
	StatePersisting       State = "persisting"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// StageError reports which stage a submission attempt died in, with a
// message fit to show the user.
type StageError struct {
	Stage   State
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage State, message string, err error) *StageError {
	return &StageError{Stage: stage, Message: message, Err: err}
}

// AssetStore is the slice of the storage service the workflow needs.
type AssetStore interface {
	ListContainers(ctx context.Context) ([]storage.Container, error)
	Upload(ctx context.Context, container, path string, data []byte, opts storage.UploadOptions) (*storage.Object, error)
	SetPublic(ctx context.Context, container, path string, public bool) error
	SignedURL(ctx context.Context, container, path string, ttl time.Duration) (string, error)
	PublicURL(container, path string) string
}

// SubmissionStore persists the final row.
type SubmissionStore interface {
	Insert(ctx context.Context, sub *Submission) error
}

// PreviewUpload is the selected preview image.
type PreviewUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileUpload is one selected project file.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadInput is everything a submission attempt starts from.
type UploadInput struct {
	ChallengeID uuid.UUID
	Title       string
	Description string
	Tools       string
	FigmaEmbed  string
	Preview     *PreviewUpload
	Files       []FileUpload
}

// UploadWorkflow turns selected files, an optional preview image and a
// Figma embed into one persisted submission. Stages run strictly in
// order (validate, preview, files, persist); the first failure aborts
// everything after it, so no partial submission is ever persisted.
type UploadWorkflow struct {
	assets           AssetStore
	store            SubmissionStore
	defaultContainer string
	uploadTTL        time.Duration
	now              func() time.Time
}

func NewUploadWorkflow(assets AssetStore, store SubmissionStore, defaultContainer string, uploadTTL time.Duration) *UploadWorkflow {
	return &UploadWorkflow{
		assets:           assets,
		store:            store,
		defaultContainer: defaultContainer,
		uploadTTL:        uploadTTL,
		now:              time.Now,
	}
}

// Run executes one submission attempt. ctx is checked before every
// side-effecting call so an abandoned request stops spending storage
// round trips.
func (w *UploadWorkflow) Run(ctx context.Context, userID uuid.UUID, input UploadInput) (*Submission, error) {
	// Validating
	if userID == uuid.Nil {
		return nil, stageErr(StateValidating, "Sign in to submit a solution", nil)
	}
	if input.Title == "" || input.Description == "" || (input.Preview == nil && len(input.Files) == 0) {
		return nil, stageErr(StateValidating,
			"Please fill in all fields and upload at least one file or preview image", nil)
	}

	// UploadingPreview
	var previewURL *string
	if input.Preview != nil {
		url, err := w.uploadPreview(ctx, userID, input.Preview)
		if err != nil {
			return nil, err
		}
		previewURL = &url
	}

	// UploadingFiles
	uploaded, err := w.uploadFiles(ctx, userID, input.Files)
	if err != nil {
		return nil, err
	}

	// Persisting
	if err := ctx.Err(); err != nil {
		return nil, stageErr(StatePersisting, "Submission cancelled", err)
	}

	sub := &Submission{
		ChallengeID:  input.ChallengeID,
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		Tools:        input.Tools,
		PreviewImage: previewURL,
		FigmaEmbed:   optional(input.FigmaEmbed),
		Files:        filesJSON(uploaded),
		Status:       StatusSubmitted,
	}

	if err := w.store.Insert(ctx, sub); err != nil {
		return nil, stageErr(StatePersisting, "Failed to save submission. Please try again.", err)
	}

	return sub, nil
}

func (w *UploadWorkflow) uploadPreview(ctx context.Context, userID uuid.UUID, preview *PreviewUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", stageErr(StateUploadingPreview, "Submission cancelled", err)
	}

	containers, err := w.assets.ListContainers(ctx)
	if err != nil {
		return "", stageErr(StateUploadingPreview, "Failed to access storage. Please try again.", err)
	}

	container := w.pickContainer(containers)
	path := fmt.Sprintf("preview-images/%s/%s", userID, w.objectName(preview.Name))

	if err := ctx.Err(); err != nil {
		return "", stageErr(StateUploadingPreview, "Submission cancelled", err)
	}

	_, err = w.assets.Upload(ctx, container, path, preview.Data, storage.UploadOptions{
		ContentType:  preview.ContentType,
		CacheControl: "3600",
	})
	if err != nil {
		if errors.Is(err, storage.ErrContainerNotFound) {
			return "", stageErr(StateUploadingPreview,
				fmt.Sprintf("Storage container %q not found. Available containers: %s",
					container, containerNames(containers)), err)
		}
		return "", stageErr(StateUploadingPreview, "Failed to upload preview image. Please try again.", err)
	}

	// Mark readable without a token; failure here is logged, not fatal,
	// because the signed URL below still works.
	if err := w.assets.SetPublic(ctx, container, path, true); err != nil {
		slog.Warn("failed to make preview public", "path", path, "error", err)
	}

	return w.displayURL(ctx, container, path), nil
}

func (w *UploadWorkflow) uploadFiles(ctx context.Context, userID uuid.UUID, files []FileUpload) ([]SubmissionFile, error) {
	uploaded := make([]SubmissionFile, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, stageErr(StateUploadingFiles, "Submission cancelled", err)
		}

		path := fmt.Sprintf("project-files/%s/%s", userID, w.objectName(file.Name))

		_, err := w.assets.Upload(ctx, w.defaultContainer, path, file.Data, storage.UploadOptions{
			ContentType: file.ContentType,
		})
		if err != nil {
			if errors.Is(err, storage.ErrContainerNotFound) {
				return nil, stageErr(StateUploadingFiles,
					fmt.Sprintf("Storage container %q not found. Provision it before accepting submissions.", w.defaultContainer), err)
			}
			return nil, stageErr(StateUploadingFiles, "Failed to upload project files. Please try again.", err)
		}

		uploaded = append(uploaded, SubmissionFile{
			Name: file.Name,
			Type: file.ContentType,
			Size: int64(len(file.Data)),
			URL:  w.displayURL(ctx, w.defaultContainer, path),
		})
	}
	return uploaded, nil
}

// displayURL prefers a fresh signed URL for the just-uploaded object,
// falling back to the public URL when signing fails.
func (w *UploadWorkflow) displayURL(ctx context.Context, container, path string) string {
	signed, err := w.assets.SignedURL(ctx, container, path, w.uploadTTL)
	if err != nil {
		slog.Warn("failed to sign uploaded asset, falling back to public URL",
			"path", path, "error", err)
		return w.assets.PublicURL(container, path)
	}
	return signed
}

// pickContainer prefers the submissions container, then the first
// available, then the configured default.
func (w *UploadWorkflow) pickContainer(containers []storage.Container) string {
	for _, c := range containers {
		if c.Name == w.defaultContainer {
			return c.Name
		}
	}
	if len(containers) > 0 {
		return containers[0].Name
	}
	return w.defaultContainer
}

// objectName namespaces a file name with a millisecond timestamp and
// strips spaces, matching the layout of historically stored assets.
func (w *UploadWorkflow) objectName(name string) string {
	sanitized := strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%d-%s", w.now().UnixMilli(), sanitized)
}

// DraftInput is the cheap path: nothing is uploaded, local preview
// handles and file metadata are stored as-is.
type DraftInput struct {
	ChallengeID uuid.UUID
	Title       string
	Description string
	Tools       string
	FigmaEmbed  string
	Preview     string
	Files       []SubmissionFile
}

// SaveDraft persists a draft without touching storage at all.
func (w *UploadWorkflow) SaveDraft(ctx context.Context, userID uuid.UUID, input DraftInput) (*Submission, error) {
	if userID == uuid.Nil {
		return nil, stageErr(StateValidating, "Sign in to save a draft", nil)
	}

	title := input.Title
	if title == "" {
		title = "Untitled Draft"
	}

	sub := &Submission{
		ChallengeID:  input.ChallengeID,
		UserID:       userID,
		Title:        title,
		Description:  input.Description,
		Tools:        input.Tools,
		PreviewImage: optional(input.Preview),
		FigmaEmbed:   optional(input.FigmaEmbed),
		Files:        filesJSON(input.Files),
		Status:       StatusDraft,
	}

	if err := w.store.Insert(ctx, sub); err != nil {
		return nil, stageErr(StatePersisting, "Failed to save draft. Please try again.", err)
	}

	return sub, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func filesJSON(files []SubmissionFile) datatypes.JSON {
	if len(files) == 0 {
		return nil
	}
	b, err := json.Marshal(files)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func containerNames(containers []storage.Container) string {
	if len(containers) == 0 {
		return "(none)"
	}
	names := make([]string, len(containers))
	for i, c := range containers {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
