package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeLikeStore behaves like the unique index does: the second insert
// for the same (comment, user) pair reports a duplicate.
type fakeLikeStore struct {
	rows      map[string]bool
	createErr error
	deleteErr error
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{rows: make(map[string]bool)}
}

func (f *fakeLikeStore) key(commentID, userID uuid.UUID) string {
	return commentID.String() + "/" + userID.String()
}

func (f *fakeLikeStore) CreateLike(_ context.Context, commentID, userID uuid.UUID) error {
	if f.createErr != nil {
		return f.createErr
	}
	k := f.key(commentID, userID)
	if f.rows[k] {
		return gorm.ErrDuplicatedKey
	}
	f.rows[k] = true
	return nil
}

func (f *fakeLikeStore) DeleteLike(_ context.Context, commentID, userID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, f.key(commentID, userID))
	return nil
}

func TestToggleLikeFlipsBothWays(t *testing.T) {
	store := newFakeLikeStore()
	svc := NewCommentServiceWithLikeStore(nil, store)
	commentID, userID := uuid.New(), uuid.New()

	action, err := svc.ToggleLike(context.Background(), commentID, userID)
	require.NoError(t, err)
	assert.Equal(t, ActionLiked, action)

	action, err = svc.ToggleLike(context.Background(), commentID, userID)
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, action)

	// Toggling twice lands back where it started.
	assert.Empty(t, store.rows)
}

func TestToggleLikeIsPerUser(t *testing.T) {
	store := newFakeLikeStore()
	svc := NewCommentServiceWithLikeStore(nil, store)
	commentID := uuid.New()

	_, err := svc.ToggleLike(context.Background(), commentID, uuid.New())
	require.NoError(t, err)

	action, err := svc.ToggleLike(context.Background(), commentID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, ActionLiked, action)

	assert.Len(t, store.rows, 2)
}

func TestToggleLikeMissingCommentMapsToNotFound(t *testing.T) {
	store := newFakeLikeStore()
	store.createErr = gorm.ErrForeignKeyViolated
	svc := NewCommentServiceWithLikeStore(nil, store)

	_, err := svc.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestApplyLikeStateMergesCountsAndViewerLikes(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	views := []CommentView{{ID: a}, {ID: b}, {ID: c}}

	applyLikeState(views,
		map[uuid.UUID]int64{a: 3, b: 1},
		map[uuid.UUID]bool{b: true},
	)

	assert.Equal(t, int64(3), views[0].Likes)
	assert.False(t, views[0].LikedByMe)
	assert.Equal(t, int64(1), views[1].Likes)
	assert.True(t, views[1].LikedByMe)
	// No likes at all: zero count, not liked.
	assert.Equal(t, int64(0), views[2].Likes)
	assert.False(t, views[2].LikedByMe)
}

func TestApplyLikeStateAnonymousViewer(t *testing.T) {
	id := uuid.New()
	views := []CommentView{{ID: id}}

	// likedSet returns nil for anonymous viewers.
	applyLikeState(views, map[uuid.UUID]int64{id: 2}, nil)

	assert.Equal(t, int64(2), views[0].Likes)
	assert.False(t, views[0].LikedByMe)
}

func TestToggleLikeSurfacesDeleteFailure(t *testing.T) {
	store := newFakeLikeStore()
	svc := NewCommentServiceWithLikeStore(nil, store)
	commentID, userID := uuid.New(), uuid.New()

	_, err := svc.ToggleLike(context.Background(), commentID, userID)
	require.NoError(t, err)

	store.deleteErr = errors.New("connection reset")
	_, err = svc.ToggleLike(context.Background(), commentID, userID)
	assert.Error(t, err)
}
