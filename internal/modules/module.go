package modules

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/assets"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
	"github.com/leetuiux/leetuiux-backend/internal/config"
	"github.com/leetuiux/leetuiux-backend/internal/storage"
	"gorm.io/gorm"
)

// Deps carries the shared infrastructure handed to every module.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Storage  *storage.Service
	Resolver *assets.Resolver
	Sessions *auth.SessionBus
}

// Module is one domain feature (challenges, submissions, ...). Models
// are auto-migrated at startup; routes register on the public group
// and the JWT-protected group.
type Module interface {
	ID() string
	Models() []interface{}
	RegisterRoutes(public fiber.Router, protected fiber.Router, deps *Deps)
}

// AdminModule is implemented by modules that also expose admin routes.
type AdminModule interface {
	Module
	RegisterAdminRoutes(admin fiber.Router, deps *Deps)
}
