package comments

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/middleware"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
)

type CommentsModule struct{}

func New() *CommentsModule {
	return &CommentsModule{}
}

func (m *CommentsModule) ID() string { return "comments" }

func (m *CommentsModule) Models() []interface{} {
	return []interface{}{
		&Comment{},
		&CommentLike{},
	}
}

func (m *CommentsModule) RegisterRoutes(public fiber.Router, protected fiber.Router, deps *modules.Deps) {
	svc := NewCommentService(deps.DB)
	h := NewCommentHandler(svc)

	// Listing is public, but liked_by_me needs the viewer when a token
	// is sent along.
	public.Get("/challenges/:id/comments", middleware.OptionalJWT(deps.Cfg), h.ByChallenge)

	protected.Post("/challenges/:id/comments", h.Create)
	protected.Post("/comments/:id/like", h.ToggleLike)
}
