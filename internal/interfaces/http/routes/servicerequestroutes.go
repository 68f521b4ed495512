package routes

import (
	"github.com/gin-gonic/gin"

	"srdashboard/internal/domain/permission"
	srhandlers "srdashboard/internal/interfaces/http/handlers/servicerequest"
	"srdashboard/internal/interfaces/http/middleware"
)

type ServiceRequestRouteConfig struct {
	Handler              *srhandlers.Handler
	AttachmentHandler    *srhandlers.AttachmentHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupServiceRequestRoutes registers /requests under api and the attachment
// download under engine.
func SetupServiceRequestRoutes(engine *gin.Engine, api *gin.RouterGroup, config *ServiceRequestRouteConfig) {
	can := func(action permission.Action) gin.HandlerFunc {
		return config.PermissionMiddleware.RequirePermission(permission.ResourceServiceRequest, action)
	}

	requests := api.Group("/requests")
	requests.Use(config.AuthMiddleware.RequireAuth())
	{
		// Static paths before /:id
		requests.GET("",
			can(permission.ActionRead),
			config.Handler.ListServiceRequests)
		requests.POST("",
			can(permission.ActionCreate),
			config.Handler.CreateServiceRequest)
		requests.GET("/stats",
			can(permission.ActionRead),
			config.Handler.GetStats)
		requests.GET("/export",
			can(permission.ActionExport),
			config.Handler.ExportServiceRequests)
		requests.POST("/upload-rca",
			can(permission.ActionCreate),
			config.Handler.UploadRCAFile)

		requests.GET("/:id",
			can(permission.ActionRead),
			config.Handler.GetServiceRequest)
		requests.PUT("/:id",
			can(permission.ActionUpdate),
			config.Handler.UpdateServiceRequest)
		requests.DELETE("/:id",
			can(permission.ActionDelete),
			config.Handler.DeleteServiceRequest)
	}

	engine.GET("/uploads/*name",
		config.AuthMiddleware.RequireAuth(),
		can(permission.ActionRead),
		config.AttachmentHandler.Download)
}
