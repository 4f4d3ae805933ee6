package notifications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
)

type NotificationsModule struct{}

func New() *NotificationsModule {
	return &NotificationsModule{}
}

func (m *NotificationsModule) ID() string { return "notifications" }

func (m *NotificationsModule) Models() []interface{} {
	return []interface{}{&Notification{}}
}

func (m *NotificationsModule) RegisterRoutes(_ fiber.Router, protected fiber.Router, deps *modules.Deps) {
	svc := NewNotificationService(deps.DB)
	h := NewNotificationHandler(svc)

	protected.Get("/notifications", h.List)
	protected.Post("/notifications/:id/read", h.MarkRead)
	protected.Post("/notifications/read-all", h.MarkAllRead)

	// Welcome message on account creation, driven by the session bus.
	deps.Sessions.Subscribe(func(event auth.SessionEvent, userID uuid.UUID) {
		if event == auth.EventSignedUp {
			Notify(deps.DB, userID, TypeWelcome,
				"Welcome to LeetUIUX! Pick a challenge and submit your first design.")
		}
	})
}
