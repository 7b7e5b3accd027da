package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/api/http/handlers"
	"github.com/spec-kit/usecase-portal/internal/auth"
	"github.com/spec-kit/usecase-portal/internal/domain"
)

// Per-endpoint access policies: each use case is gated on one role and one
// license tier.
var (
	productSearchPolicy = auth.Policy{
		Roles:    []domain.Role{domain.RoleAdmin},
		Licenses: []domain.License{domain.LicenseBasic},
	}
	imageClassificationPolicy = auth.Policy{
		Roles:    []domain.Role{domain.RoleAdmin},
		Licenses: []domain.License{domain.LicenseTeams},
	}
	sentimentPolicy = auth.Policy{
		Roles:    []domain.Role{domain.RoleViewer},
		Licenses: []domain.License{domain.LicenseTeams},
	}
	translationPolicy = auth.Policy{
		Roles:    []domain.Role{domain.RoleEditor},
		Licenses: []domain.License{domain.LicenseEnterprise},
	}
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	ProductSearch  *handlers.ProductSearchHandler
	Image          *handlers.ImageHandler
	Sentiment      *handlers.SentimentHandler
	Translation    *handlers.TranslationHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/forgot-password", cfg.Auth.ForgotPassword)
	app.Post("/reset-password", cfg.Auth.ResetPassword)

	usecase := app.Group("/usecase", cfg.AuthMiddleware.Handle)
	usecase.Post("/agentic-product-search", auth.RequireAccess(productSearchPolicy), cfg.ProductSearch.Handle)
	usecase.Post("/image-classification", auth.RequireAccess(imageClassificationPolicy), cfg.Image.Handle)
	usecase.Post("/sentiment-analysis", auth.RequireAccess(sentimentPolicy), cfg.Sentiment.Handle)
	usecase.Post("/language-translation", auth.RequireAccess(translationPolicy), cfg.Translation.Handle)
}
