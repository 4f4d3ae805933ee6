package challenges

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
)

type ChallengesModule struct{}

func New() *ChallengesModule {
	return &ChallengesModule{}
}

func (m *ChallengesModule) ID() string { return "challenges" }

func (m *ChallengesModule) Models() []interface{} {
	return []interface{}{&Challenge{}}
}

func (m *ChallengesModule) RegisterRoutes(public fiber.Router, protected fiber.Router, deps *modules.Deps) {
	svc := NewChallengeService(deps.DB)
	h := NewChallengeHandler(svc)

	public.Get("/challenges", h.GetAll)
	public.Get("/challenges/:id", h.GetByID)

	protected.Post("/challenges", h.Create)
}
