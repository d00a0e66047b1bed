package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/application/directory"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
)

// DirectoryService manages tenants, units and the company settings
type DirectoryService interface {
	CreateTenant(ctx context.Context, req directory.TenantRequest, identity shared.Identity) (*directory.TenantResponse, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*directory.TenantResponse, error)
	UpdateTenant(ctx context.Context, id uuid.UUID, req directory.TenantRequest, identity shared.Identity) (*directory.TenantResponse, error)

	CreateUnit(ctx context.Context, req directory.UnitRequest, identity shared.Identity) (*directory.UnitResponse, error)
	GetUnit(ctx context.Context, id uuid.UUID) (*directory.UnitResponse, error)
	UpdateUnit(ctx context.Context, id uuid.UUID, req directory.UnitRequest, identity shared.Identity) (*directory.UnitResponse, error)

	GetSettings(ctx context.Context) (*directory.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req directory.SettingsRequest, identity shared.Identity) (*directory.SettingsResponse, error)
}

// DirectoryHandler handles tenant, unit and settings endpoints
type DirectoryHandler struct {
	BaseHandler
	directory DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(svc DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: svc}
}

// CreateTenant godoc
// @ID           createTenant
// @Summary      Create a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request  body      directory.TenantRequest  true  "Tenant"
// @Success      201      {object}  APIResponse[directory.TenantResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *DirectoryHandler) CreateTenant(c *gin.Context) {
	var req directory.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	t, err := h.directory.CreateTenant(c.Request.Context(), req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// GetTenant godoc
// @ID           getTenant
// @Summary      Get a tenant
// @Tags         tenants
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  APIResponse[directory.TenantResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *DirectoryHandler) GetTenant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.directory.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateTenant godoc
// @ID           updateTenant
// @Summary      Update a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Tenant ID"
// @Param        request  body      directory.TenantRequest  true  "Tenant"
// @Success      200      {object}  APIResponse[directory.TenantResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [put]
func (h *DirectoryHandler) UpdateTenant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req directory.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	t, err := h.directory.UpdateTenant(c.Request.Context(), id, req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// CreateUnit godoc
// @ID           createUnit
// @Summary      Create a unit
// @Description  Registers a rentable unit with its per-term prices
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        request  body      directory.UnitRequest  true  "Unit"
// @Success      201      {object}  APIResponse[directory.UnitResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /units [post]
func (h *DirectoryHandler) CreateUnit(c *gin.Context) {
	var req directory.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	u, err := h.directory.CreateUnit(c.Request.Context(), req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, u)
}

// GetUnit godoc
// @ID           getUnit
// @Summary      Get a unit
// @Tags         units
// @Produce      json
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  APIResponse[directory.UnitResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [get]
func (h *DirectoryHandler) GetUnit(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.directory.GetUnit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, u)
}

// UpdateUnit godoc
// @ID           updateUnit
// @Summary      Update a unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Unit ID"
// @Param        request  body      directory.UnitRequest  true  "Unit"
// @Success      200      {object}  APIResponse[directory.UnitResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [put]
func (h *DirectoryHandler) UpdateUnit(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req directory.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	u, err := h.directory.UpdateUnit(c.Request.Context(), id, req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, u)
}

// GetSettings godoc
// @ID           getSettings
// @Summary      Get the company settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  APIResponse[directory.SettingsResponse]
// @Security     BearerAuth
// @Router       /settings [get]
func (h *DirectoryHandler) GetSettings(c *gin.Context) {
	s, err := h.directory.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// UpdateSettings godoc
// @ID           updateSettings
// @Summary      Update the company settings
// @Description  Sets the legal name, signatory and finance mailbox used by generated documents
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      directory.SettingsRequest  true  "Settings"
// @Success      200      {object}  APIResponse[directory.SettingsResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /settings [put]
func (h *DirectoryHandler) UpdateSettings(c *gin.Context) {
	var req directory.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	s, err := h.directory.UpdateSettings(c.Request.Context(), req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}
