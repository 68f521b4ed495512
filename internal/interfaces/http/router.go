package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "srdashboard/docs"
	"srdashboard/internal/interfaces/http/middleware"
	"srdashboard/internal/interfaces/http/routes"
)

// Router registers the HTTP routes served by a Container.
type Router struct {
	c *Container
}

// NewRouter creates a router over a wired container.
func NewRouter(c *Container) *Router {
	return &Router{c: c}
}

// SetupRoutes configures middleware and all HTTP routes
func (r *Router) SetupRoutes() {
	engine := r.c.engine
	engine.Use(middleware.Recovery(r.c.log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(r.c.log))
	engine.Use(middleware.CORS(r.c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api")
	if r.c.rateLimiter != nil {
		api.Use(r.c.rateLimiter.Limit())
	}

	api.GET("/health", r.c.healthHandler.HealthCheck)

	routes.SetupServiceRequestRoutes(engine, api, &routes.ServiceRequestRouteConfig{
		Handler:              r.c.srHandler,
		AttachmentHandler:    r.c.attachmentHandler,
		AuthMiddleware:       r.c.authMiddleware,
		PermissionMiddleware: r.c.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.c.engine
}
