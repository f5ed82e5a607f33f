package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicely/invoicely-api/internal/config"
	domainRepo "github.com/invoicely/invoicely-api/internal/domain/repository"
	"github.com/invoicely/invoicely-api/internal/presentation/http/handler"
	"github.com/invoicely/invoicely-api/internal/presentation/http/middleware"
	"github.com/invoicely/invoicely-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Invoice      *handler.InvoiceHandler
	SavedView    *handler.SavedViewHandler
	Command      *handler.CommandHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	OrgRepo         domainRepo.OrganizationRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Authenticated routes without an organization scope
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.JWTManager))
		{
			authed.GET("/profile", h.Auth.Me)
			authed.GET("/organizations", h.Organization.List)
			authed.POST("/organizations", h.Organization.Create)
			authed.PUT("/organizations/:id/default", h.Organization.SetDefault)
			authed.GET("/commands", h.Command.Search)
		}

		// Organization-scoped routes; every request must resolve to an
		// organization the caller is a member of
		scoped := v1.Group("")
		scoped.Use(middleware.AuthMiddleware(deps.JWTManager))
		scoped.Use(middleware.OrganizationMiddleware(deps.OrgRepo))

		rlCfg := middleware.DefaultRateLimiterConfig()
		rlCfg.RequestsPerSecond = float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration)
		rlCfg.BurstSize = deps.Cfg.RateLimit.Requests
		rateLimiter := middleware.NewOrganizationRateLimiter(rlCfg)
		scoped.Use(rateLimiter.Middleware())
		scoped.Use(middleware.Idempotency(deps.IdempotencyRepo))

		registerScopedRoutes(scoped, h)
	}

	return router
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers) {
	scoped.GET("/organization", h.Organization.Current)
	scoped.GET("/organization/members", h.Organization.Members)

	invoices := scoped.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/usage", h.Invoice.Usage)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.POST("/:id/duplicate", h.Invoice.Duplicate)
		invoices.POST("/:id/send", h.Invoice.Send)
	}

	views := scoped.Group("/views")
	{
		views.GET("/:grid_id", h.SavedView.Get)
		views.PUT("/:grid_id", h.SavedView.Save)
		views.DELETE("/:grid_id", h.SavedView.Delete)
	}
}
