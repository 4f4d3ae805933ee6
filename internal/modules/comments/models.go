package comments

import (
	"time"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/models"
	"gorm.io/gorm"
)

// Comment is a discussion entry under a challenge. The like count is
// derived from comment_likes rows, never stored.
type Comment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChallengeID uuid.UUID      `gorm:"type:uuid;not null;index" json:"challenge_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	User        models.User    `gorm:"foreignKey:UserID" json:"-"`
}

// CommentLike marks that a user liked a comment. The composite unique
// index owns the at-most-one-like rule; the toggle relies on the
// duplicate-key error instead of a check-then-act read.
type CommentLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
