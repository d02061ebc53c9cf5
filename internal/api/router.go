package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/backoffice/admin-gateway/internal/api/handler"
	"github.com/backoffice/admin-gateway/internal/api/middleware"
	"github.com/backoffice/admin-gateway/internal/core/ports"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
)

// Deps carries everything the router needs wired up by main.
type Deps struct {
	Sessions ports.SessionService
	Audit    ports.AuditService
	Registry *table.Registry
	Factory  handler.TableFactory
	Upstream *upstream.Client

	UsersEndpoint   string
	CatalogEndpoint string
	LoginURL        string

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Health probes and telemetry (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.LoginURL)
	tableHandler := handler.NewTableHandler(deps.Registry, deps.Factory, deps.Audit)
	userHandler := handler.NewUserHandler(deps.Upstream, deps.UsersEndpoint, deps.Audit)
	catalogHandler := handler.NewCatalogHandler(deps.Upstream, deps.CatalogEndpoint, deps.Audit)
	auditHandler := handler.NewAuditHandler(deps.Audit)

	// --- Console API, gated behind an authorized session ---
	v1 := e.Group("/api/v1", middleware.SessionGate(deps.Sessions, deps.LoginURL))

	v1.GET("/session", sessionHandler.Current)
	v1.POST("/session/signout", sessionHandler.SignOut)

	v1.POST("/tables", tableHandler.Mount)
	v1.GET("/tables/:id", tableHandler.Snapshot)
	v1.DELETE("/tables/:id", tableHandler.Unmount)
	v1.POST("/tables/:id/search", tableHandler.Search)
	v1.POST("/tables/:id/sort", tableHandler.Sort)
	v1.POST("/tables/:id/page", tableHandler.Page)
	v1.POST("/tables/:id/page-size", tableHandler.PageSize)
	v1.POST("/tables/:id/filters", tableHandler.ApplyFilters)
	v1.DELETE("/tables/:id/filters/:field", tableHandler.ResetFilter)
	v1.DELETE("/tables/:id/filters", tableHandler.ResetFilters)
	v1.POST("/tables/:id/refresh", tableHandler.Refresh)
	v1.PUT("/tables/:id/selection/rows", tableHandler.ToggleRow)
	v1.PUT("/tables/:id/selection", tableHandler.ToggleAll)
	v1.POST("/tables/:id/rows:delete", tableHandler.DeleteSelected)

	v1.POST("/users", userHandler.Create)
	v1.PUT("/users/:id", userHandler.Update)
	v1.POST("/catalog", catalogHandler.Create)

	v1.GET("/audit", auditHandler.Recent)

	return e
}
