package comments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// Like toggle outcomes.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// LikeStore is the persistence slice the toggle needs. CreateLike must
// return gorm.ErrDuplicatedKey when the (comment, user) row already
// exists, which is how the toggle learns to flip to delete.
type LikeStore interface {
	CreateLike(ctx context.Context, commentID, userID uuid.UUID) error
	DeleteLike(ctx context.Context, commentID, userID uuid.UUID) error
}

type gormLikeStore struct {
	db *gorm.DB
}

func (s *gormLikeStore) CreateLike(ctx context.Context, commentID, userID uuid.UUID) error {
	like := CommentLike{CommentID: commentID, UserID: userID}
	return s.db.WithContext(ctx).Create(&like).Error
}

func (s *gormLikeStore) DeleteLike(ctx context.Context, commentID, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&CommentLike{}).Error
}

type CommentService struct {
	db    *gorm.DB
	likes LikeStore
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, likes: &gormLikeStore{db: db}}
}

// NewCommentServiceWithLikeStore injects the like store (tests).
func NewCommentServiceWithLikeStore(db *gorm.DB, likes LikeStore) *CommentService {
	return &CommentService{db: db, likes: likes}
}

func (s *CommentService) Create(ctx context.Context, challengeID, userID uuid.UUID, text string) (*Comment, error) {
	if text == "" {
		return nil, errors.New("comment text is required")
	}

	comment := &Comment{
		ChallengeID: challengeID,
		UserID:      userID,
		Text:        text,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CommentView is the API form of a comment with its author and derived
// like state.
type CommentView struct {
	ID          uuid.UUID `json:"id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	Text        string    `json:"text"`
	CreatedAt   string    `json:"created_at"`
	Likes       int64     `json:"likes"`
	LikedByMe   bool      `json:"liked_by_me"`
	User        struct {
		ID        uuid.UUID `json:"id"`
		Email     string    `json:"email"`
		FullName  string    `json:"full_name"`
		AvatarURL string    `json:"avatar_url"`
	} `json:"user"`
}

// ByChallenge lists comments newest first. viewerID may be uuid.Nil for
// anonymous readers; liked_by_me is then always false. Like counts and
// the viewer's liked set come from two grouped queries rather than one
// pair per comment.
func (s *CommentService) ByChallenge(ctx context.Context, challengeID, viewerID uuid.UUID) ([]CommentView, error) {
	var rows []Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		view := CommentView{
			ID:          rows[i].ID,
			ChallengeID: rows[i].ChallengeID,
			Text:        rows[i].Text,
			CreatedAt:   rows[i].CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
		view.User.ID = rows[i].User.ID
		view.User.Email = rows[i].User.Email
		view.User.FullName = rows[i].User.FullName
		view.User.AvatarURL = rows[i].User.AvatarURL

		views[i] = view
		ids[i] = rows[i].ID
	}
	if len(ids) == 0 {
		return views, nil
	}

	counts, err := s.likeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.likedSet(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}
	applyLikeState(views, counts, liked)
	return views, nil
}

func (s *CommentService) likeCounts(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		CommentID uuid.UUID
		N         int64
	}
	err := s.db.WithContext(ctx).Model(&CommentLike{}).
		Select("comment_id, COUNT(*) AS n").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.CommentID] = row.N
	}
	return counts, nil
}

func (s *CommentService) likedSet(ctx context.Context, commentIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]bool, error) {
	if viewerID == uuid.Nil {
		return nil, nil
	}

	var likedIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&CommentLike{}).
		Where("comment_id IN ? AND user_id = ?", commentIDs, viewerID).
		Pluck("comment_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	liked := make(map[uuid.UUID]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}

func applyLikeState(views []CommentView, counts map[uuid.UUID]int64, liked map[uuid.UUID]bool) {
	for i := range views {
		views[i].Likes = counts[views[i].ID]
		views[i].LikedByMe = liked[views[i].ID]
	}
}

// ToggleLike flips the user's like on a comment and reports which way
// it went. Insert-first: the unique index converts a concurrent or
// repeated like into gorm.ErrDuplicatedKey, which flips the toggle to
// delete. Toggling twice always lands back where it started.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (string, error) {
	err := s.likes.CreateLike(ctx, commentID, userID)
	if err == nil {
		return ActionLiked, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if err := s.likes.DeleteLike(ctx, commentID, userID); err != nil {
			return "", err
		}
		return ActionUnliked, nil
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return "", ErrCommentNotFound
	}
	return "", err
}
