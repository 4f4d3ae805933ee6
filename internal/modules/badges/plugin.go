package badges

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
)

type BadgesModule struct{}

func New() *BadgesModule {
	return &BadgesModule{}
}

func (m *BadgesModule) ID() string { return "badges" }

func (m *BadgesModule) Models() []interface{} {
	return []interface{}{
		&Badge{},
		&UserBadge{},
	}
}

func (m *BadgesModule) RegisterRoutes(_ fiber.Router, protected fiber.Router, deps *modules.Deps) {
	svc := NewBadgeService(deps.DB)
	if err := svc.SeedCatalog(); err != nil {
		slog.Error("failed to seed badge catalog", "error", err)
	}
	h := NewBadgeHandler(svc)

	protected.Get("/badges", h.ForUser)
}
