package badges

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/modules/comments"
	"github.com/leetuiux/leetuiux-backend/internal/modules/notifications"
	"github.com/leetuiux/leetuiux-backend/internal/modules/submissions"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var catalog = []Badge{
	{Key: "first_submission", Name: "First Steps", Description: "Submit your first design", Category: "submissions", Icon: "🎨", Color: "blue", Metric: MetricSubmissions, Threshold: 1},
	{Key: "five_submissions", Name: "Prolific Designer", Description: "Submit 5 designs", Category: "submissions", Icon: "🚀", Color: "purple", Metric: MetricSubmissions, Threshold: 5},
	{Key: "ten_submissions", Name: "Design Machine", Description: "Submit 10 designs", Category: "submissions", Icon: "⚡", Color: "gold", Metric: MetricSubmissions, Threshold: 10},
	{Key: "first_comment", Name: "Conversation Starter", Description: "Leave your first comment", Category: "community", Icon: "💬", Color: "green", Metric: MetricComments, Threshold: 1},
	{Key: "ten_comments", Name: "Community Voice", Description: "Leave 10 comments", Category: "community", Icon: "📣", Color: "teal", Metric: MetricComments, Threshold: 10},
	{Key: "first_rating", Name: "Critic", Description: "Rate a submission", Category: "community", Icon: "⭐", Color: "orange", Metric: MetricRatingsGiven, Threshold: 1},
	{Key: "ten_likes", Name: "Crowd Favorite", Description: "Receive 10 likes on your comments", Category: "community", Icon: "❤️", Color: "red", Metric: MetricLikesReceived, Threshold: 10},
}

type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// SeedCatalog upserts the badge catalog. Safe to run on every startup.
func (s *BadgeService) SeedCatalog() error {
	for _, b := range catalog {
		row := b
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "category", "icon", "color", "metric", "threshold"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", b.Key, err)
		}
	}
	return nil
}

// BadgeProgress pairs a catalog badge with the viewer's standing on it.
type BadgeProgress struct {
	Badge    Badge  `json:"badge"`
	Earned   bool   `json:"earned"`
	EarnedAt string `json:"earned_at,omitempty"`
	Progress int    `json:"progress"`
}

func (s *BadgeService) metricValue(ctx context.Context, userID uuid.UUID, metric string) (int64, error) {
	db := s.db.WithContext(ctx)
	var count int64
	var err error
	switch metric {
	case MetricSubmissions:
		err = db.Model(&submissions.Submission{}).
			Where("user_id = ? AND status = ?", userID, submissions.StatusSubmitted).
			Count(&count).Error
	case MetricComments:
		err = db.Model(&comments.Comment{}).Where("user_id = ?", userID).Count(&count).Error
	case MetricRatingsGiven:
		err = db.Model(&submissions.SubmissionRating{}).Where("user_id = ?", userID).Count(&count).Error
	case MetricLikesReceived:
		err = db.Model(&comments.CommentLike{}).
			Joins("JOIN comments ON comments.id = comment_likes.comment_id").
			Where("comments.user_id = ?", userID).
			Count(&count).Error
	default:
		return 0, fmt.Errorf("unknown badge metric: %s", metric)
	}
	return count, err
}

// ForUser returns the full catalog annotated with the user's progress,
// awarding any badge whose threshold is now met.
func (s *BadgeService) ForUser(ctx context.Context, userID uuid.UUID) ([]BadgeProgress, error) {
	var all []Badge
	if err := s.db.WithContext(ctx).Order("category, threshold").Find(&all).Error; err != nil {
		return nil, err
	}

	var earned []UserBadge
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedAt := make(map[uuid.UUID]UserBadge, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub
	}

	// One count per distinct metric, not per badge.
	counts := make(map[string]int64)
	for _, b := range all {
		if _, ok := counts[b.Metric]; ok {
			continue
		}
		n, err := s.metricValue(ctx, userID, b.Metric)
		if err != nil {
			return nil, err
		}
		counts[b.Metric] = n
	}

	out := make([]BadgeProgress, 0, len(all))
	for _, b := range all {
		progress := int(counts[b.Metric])
		if progress > b.Threshold {
			progress = b.Threshold
		}
		p := BadgeProgress{Badge: b, Progress: progress}

		if ub, ok := earnedAt[b.ID]; ok {
			p.Earned = true
			p.EarnedAt = ub.EarnedAt.Format("2006-01-02T15:04:05Z07:00")
		} else if counts[b.Metric] >= int64(b.Threshold) {
			if ub, err := s.award(ctx, userID, b); err == nil {
				p.Earned = true
				p.EarnedAt = ub.EarnedAt.Format("2006-01-02T15:04:05Z07:00")
			} else {
				slog.Error("failed to award badge", "badge", b.Key, "user_id", userID, "error", err)
			}
		}

		out = append(out, p)
	}
	return out, nil
}

func (s *BadgeService) award(ctx context.Context, userID uuid.UUID, b Badge) (UserBadge, error) {
	ub := UserBadge{UserID: userID, BadgeID: b.ID}
	err := s.db.WithContext(ctx).Create(&ub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Concurrent request won the race; load the existing row.
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND badge_id = ?", userID, b.ID).
			First(&ub).Error
	}
	if err != nil {
		return UserBadge{}, err
	}

	notifications.Notify(s.db, userID, notifications.TypeBadgeEarned,
		fmt.Sprintf("You earned the %s badge: %s", b.Name, b.Description))
	return ub, nil
}
