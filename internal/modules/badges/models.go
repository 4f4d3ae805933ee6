package badges

import (
	"time"

	"github.com/google/uuid"
)

// Badge is one entry of the badge catalog.
type Badge struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key         string    `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	Icon        string    `gorm:"size:20" json:"icon"`
	Color       string    `gorm:"size:30" json:"color"`
	Metric      string    `gorm:"size:30;not null" json:"metric"`
	Threshold   int       `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBadge records a badge a user has earned.
type UserBadge struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge" json:"user_id"`
	BadgeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// Metrics a badge threshold can be measured against.
const (
	MetricSubmissions   = "submissions"
	MetricComments      = "comments"
	MetricRatingsGiven  = "ratings_given"
	MetricLikesReceived = "likes_received"
)
