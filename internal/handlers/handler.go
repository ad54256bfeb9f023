package handlers

import (
	_ "intentguard/docs"
	"intentguard/internal/logger"
	"intentguard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live view stream, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorIdMiddleware)
	{
		h.registerViewRoutes(api)
		h.registerCommandRoutes(api)
		h.registerNotificationRoutes(api)
	}
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	api.GET("/views", h.listViews)
	views := api.Group("/views/:kind")
	{
		views.GET("", h.getView)
		views.GET("/history", h.getHistory)
		views.GET("/alerts", h.getAlerts)
		views.POST("/refresh", h.refreshView)
		// Body example: {"active":true}
		views.PUT("/drone", h.setDrone)
	}
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	api.POST("/analyze", h.analyze)
	api.POST("/trains/:id/halt", h.haltTrain)
	// Body example: {"location":"KM 12.4","alert_id":"ALT-001"}
	api.POST("/drones/dispatch", h.dispatchDrone)
	api.GET("/commands", h.listCommands)
}

func (h *Handler) registerNotificationRoutes(api *gin.RouterGroup) {
	n := api.Group("/notifications")
	{
		n.GET("", h.listNotifications)
		n.GET("/recent", h.recentNotifications)
	}
}
