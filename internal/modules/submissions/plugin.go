package submissions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
	"github.com/leetuiux/leetuiux-backend/internal/modules/challenges"
)

type SubmissionsModule struct{}

func New() *SubmissionsModule {
	return &SubmissionsModule{}
}

func (m *SubmissionsModule) ID() string { return "submissions" }

func (m *SubmissionsModule) Models() []interface{} {
	return []interface{}{
		&Submission{},
		&SubmissionRating{},
	}
}

func (m *SubmissionsModule) RegisterRoutes(public fiber.Router, protected fiber.Router, deps *modules.Deps) {
	svc := NewSubmissionService(deps.DB, deps.Resolver)
	workflow := NewUploadWorkflow(deps.Storage, svc, deps.Cfg.DefaultContainer, deps.Cfg.SignedURLUploadTTL)
	h := NewSubmissionHandler(svc, workflow)

	public.Get("/challenges/:id/submissions", h.ByChallenge)
	public.Get("/submissions/:id", h.ByID)

	protected.Post("/challenges/:id/submissions", h.Submit)
	protected.Post("/challenges/:id/submissions/draft", h.SaveDraft)
	protected.Get("/submissions/my/list", h.My)
	protected.Post("/submissions/:id/rating", h.Rate)
}

func (m *SubmissionsModule) RegisterAdminRoutes(admin fiber.Router, deps *modules.Deps) {
	admin.Post("/seed", func(c *fiber.Ctx) error {
		userID, err := auth.GetUserID(c)
		if err != nil {
			// Token-header admins have no JWT; require an explicit target.
			if parsed, parseErr := uuid.Parse(c.Query("user_id")); parseErr == nil {
				userID = parsed
			} else {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "user_id query parameter is required"})
			}
		}

		var challengeIDs []uuid.UUID
		if err := deps.DB.Model(&challenges.Challenge{}).Pluck("id", &challengeIDs).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
		}

		report, err := Seed(deps.DB, userID, challengeIDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
		}

		return c.JSON(fiber.Map{"success": true, "data": report})
	})
}
