package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one inbox entry for a user.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification types.
const (
	TypeWelcome     = "welcome"
	TypeBadgeEarned = "badge_earned"
)
