package submissions

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/models"
	"github.com/leetuiux/leetuiux-backend/internal/modules/challenges"
	"gorm.io/datatypes"
)

// Submission is one design solution for a challenge. Rows are written
// once by the upload workflow (or draft save) and never mutated.
type Submission struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChallengeID  uuid.UUID             `gorm:"type:uuid;not null;index" json:"challenge_id"`
	UserID       uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string                `gorm:"size:255;not null" json:"title"`
	Description  string                `gorm:"type:text" json:"description"`
	Tools        string                `gorm:"size:500" json:"tools"`
	PreviewImage *string               `gorm:"size:1000" json:"preview_image"`
	FigmaEmbed   *string               `gorm:"type:text" json:"figma_embed"`
	Files        datatypes.JSON        `json:"files"`
	Status       string                `gorm:"size:10;default:'submitted'" json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	User         models.User           `gorm:"foreignKey:UserID" json:"-"`
	Challenge    challenges.Challenge  `gorm:"foreignKey:ChallengeID" json:"-"`
}

const (
	StatusSubmitted = "submitted"
	StatusDraft     = "draft"
)

// SubmissionFile is one entry of the files JSON column. URL holds a
// durable storage URL for submitted work, Preview an ephemeral local
// handle for drafts.
type SubmissionFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	URL     string `json:"url,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// PreviewRecoverable reports whether the stored preview reference will
// still render. Drafts keep browser-session-local handles that die with
// the page session, so a reloaded draft preview is unrecoverable.
func (s *Submission) PreviewRecoverable() bool {
	if s.PreviewImage == nil || *s.PreviewImage == "" {
		return true
	}
	return !strings.HasPrefix(*s.PreviewImage, "blob:")
}

// SubmissionRating is one user's rating of a submission. The composite
// unique index makes the at-most-one-rating rule a database invariant.
type SubmissionRating struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_submission_user" json:"submission_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_submission_user" json:"user_id"`
	Rating       int       `gorm:"not null" json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}
