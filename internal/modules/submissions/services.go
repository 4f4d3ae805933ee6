package submissions

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/assets"
	"github.com/leetuiux/leetuiux-backend/internal/modules/challenges"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// SubmissionService reads submissions and shapes them for display,
// resolving stored preview references through the asset resolver.
type SubmissionService struct {
	db       *gorm.DB
	resolver *assets.Resolver
}

func NewSubmissionService(db *gorm.DB, resolver *assets.Resolver) *SubmissionService {
	return &SubmissionService{db: db, resolver: resolver}
}

// Insert persists a new submission and, for submitted work, bumps the
// challenge's denormalized counter. Implements SubmissionStore.
func (s *SubmissionService) Insert(ctx context.Context, sub *Submission) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return err
	}

	if sub.Status == StatusSubmitted {
		if err := s.db.WithContext(ctx).Model(&challenges.Challenge{}).
			Where("id = ?", sub.ChallengeID).
			Update("submissions_count", gorm.Expr("submissions_count + 1")).Error; err != nil {
			// Counter drift is tolerable; the row itself is saved.
			return nil
		}
	}
	return nil
}

// UserEmbed is the author slice joined onto a submission.
type UserEmbed struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

// ChallengeEmbed is the challenge slice joined onto a submission.
type ChallengeEmbed struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Difficulty string    `json:"difficulty"`
}

// SubmissionView is the API form of a submission.
type SubmissionView struct {
	ID                 uuid.UUID        `json:"id"`
	ChallengeID        uuid.UUID        `json:"challenge_id"`
	UserID             uuid.UUID        `json:"user_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Tools              string           `json:"tools"`
	PreviewImage       *string          `json:"preview_image"`
	PreviewDisplayURL  string           `json:"preview_display_url"`
	PreviewRecoverable bool             `json:"preview_recoverable"`
	FigmaEmbed         *string          `json:"figma_embed"`
	FigmaPreviewURL    string           `json:"figma_preview_url"`
	Files              []SubmissionFile `json:"files"`
	Status             string           `json:"status"`
	CreatedAt          string           `json:"created_at"`
	Rating             float64          `json:"rating"`
	User               *UserEmbed       `json:"user,omitempty"`
	Challenge          *ChallengeEmbed  `json:"challenge,omitempty"`
}

func (s *SubmissionService) view(ctx context.Context, sub *Submission, withUser, withChallenge bool) SubmissionView {
	view := SubmissionView{
		ID:                 sub.ID,
		ChallengeID:        sub.ChallengeID,
		UserID:             sub.UserID,
		Title:              sub.Title,
		Description:        sub.Description,
		Tools:              sub.Tools,
		PreviewImage:       sub.PreviewImage,
		PreviewRecoverable: sub.PreviewRecoverable(),
		FigmaEmbed:         sub.FigmaEmbed,
		Files:              []SubmissionFile{},
		Status:             sub.Status,
		CreatedAt:          sub.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	ref := ""
	if sub.PreviewImage != nil {
		ref = *sub.PreviewImage
	}
	view.PreviewDisplayURL = s.resolver.DisplayURL(ctx, ref)

	if sub.FigmaEmbed != nil {
		view.FigmaPreviewURL = ExtractFigmaURL(*sub.FigmaEmbed)
	}

	if len(sub.Files) > 0 {
		var files []SubmissionFile
		if err := json.Unmarshal(sub.Files, &files); err == nil && files != nil {
			view.Files = files
		}
	}

	if withUser {
		view.User = &UserEmbed{
			ID:        sub.User.ID,
			Email:     sub.User.Email,
			FullName:  sub.User.FullName,
			AvatarURL: sub.User.AvatarURL,
		}
	}
	if withChallenge {
		shaped := sub.Challenge.Shaped()
		view.Challenge = &ChallengeEmbed{
			ID:         shaped.ID,
			Title:      shaped.Title,
			Difficulty: shaped.Difficulty,
		}
	}

	return view
}

// ByChallenge lists a challenge's submissions, newest first, with the
// author embedded.
func (s *SubmissionService) ByChallenge(ctx context.Context, challengeID uuid.UUID) ([]SubmissionView, error) {
	var rows []Submission
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]SubmissionView, len(rows))
	for i := range rows {
		views[i] = s.view(ctx, &rows[i], true, false)
		rating, err := s.avgRating(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		views[i].Rating = rating
	}
	return views, nil
}

// ByUser lists a user's submissions (drafts included), newest first,
// with the challenge embedded.
func (s *SubmissionService) ByUser(ctx context.Context, userID uuid.UUID) ([]SubmissionView, error) {
	var rows []Submission
	err := s.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]SubmissionView, len(rows))
	for i := range rows {
		views[i] = s.view(ctx, &rows[i], false, true)
	}
	return views, nil
}

func (s *SubmissionService) ByID(ctx context.Context, submissionID uuid.UUID) (*SubmissionView, error) {
	var row Submission
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Challenge").
		Where("id = ?", submissionID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	view := s.view(ctx, &row, true, true)
	rating, err := s.avgRating(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	view.Rating = rating
	return &view, nil
}

// avgRating averages a submission's ratings; no ratings averages to 0.
func (s *SubmissionService) avgRating(ctx context.Context, submissionID uuid.UUID) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&SubmissionRating{}).
		Where("submission_id = ?", submissionID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// Rate records one user's rating. The unique index owns the
// at-most-one-row rule: a duplicate insert flips to an update instead
// of relying on a racy pre-check.
func (s *SubmissionService) Rate(ctx context.Context, submissionID, userID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	var exists Submission
	if err := s.db.WithContext(ctx).Select("id").Where("id = ?", submissionID).First(&exists).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	row := SubmissionRating{
		SubmissionID: submissionID,
		UserID:       userID,
		Rating:       rating,
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.db.WithContext(ctx).Model(&SubmissionRating{}).
			Where("submission_id = ? AND user_id = ?", submissionID, userID).
			Update("rating", rating).Error
	}
	return err
}
