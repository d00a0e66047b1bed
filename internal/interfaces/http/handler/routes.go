package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nestapp/backend/internal/interfaces/http/router"
)

// DealRoutes mounts the deal reads and journey actions
func DealRoutes(h *DealHandler) *router.DomainGroup {
	deals := router.NewDomainGroup("deals", "/deals")
	deals.POST("", h.Create)
	deals.GET("/:id", h.Get)
	deals.GET("/:id/journey", h.Journey)
	deals.GET("/:id/audit-logs", h.AuditLogs)
	deals.GET("/:id/documents/:doc_type/versions/:version_no/download", h.Download)

	actions := deals.Group("deal-actions", "/:id/actions")
	actions.POST("/generate-document", h.GenerateDocument)
	actions.POST("/request-invoice", h.RequestInvoice)
	actions.POST("/upload-invoice", h.UploadInvoice)
	actions.POST("/close", h.Close)
	actions.POST("/cancel", h.Cancel)
	actions.POST("/emergency-override", h.EmergencyOverride)
	actions.POST("/set-deal-price", h.SetDealPrice)
	actions.POST("/set-move-in-details", h.SetMoveInDetails)
	return deals
}

// DirectoryRoutes mounts tenants, units and settings
func DirectoryRoutes(h *DirectoryHandler) []*router.DomainGroup {
	tenants := router.NewDomainGroup("tenants", "/tenants")
	tenants.POST("", h.CreateTenant)
	tenants.GET("/:id", h.GetTenant)
	tenants.PUT("/:id", h.UpdateTenant)

	units := router.NewDomainGroup("units", "/units")
	units.POST("", h.CreateUnit)
	units.GET("/:id", h.GetUnit)
	units.PUT("/:id", h.UpdateUnit)

	settings := router.NewDomainGroup("settings", "/settings")
	settings.GET("", h.GetSettings)
	settings.PUT("", h.UpdateSettings)

	return []*router.DomainGroup{tenants, units, settings}
}

// WebhookRoutes mounts the bot webhook behind the given guards
func WebhookRoutes(h *WebhookHandler, guards ...gin.HandlerFunc) *router.DomainGroup {
	return router.NewDomainGroup("integrations", "/integrations/openclaw").
		Use(guards...).
		POST("/webhook", h.Handle)
}

// SystemRoutes mounts the system information endpoint
func SystemRoutes(h *HealthHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/info", h.SystemInfo)
}
