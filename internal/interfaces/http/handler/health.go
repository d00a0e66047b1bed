package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nestapp/backend/internal/infrastructure/logger"
	"github.com/nestapp/backend/internal/infrastructure/persistence"
	"github.com/nestapp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DatabaseProbe reports reachability and pool usage of the database
type DatabaseProbe interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves liveness and build information
type HealthHandler struct {
	BaseHandler
	db        DatabaseProbe
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseProbe, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, startTime: time.Now()}
}

// HealthResponse is the body of GET /health
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
	Time     string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string      `json:"name" example:"NestApp API"`
	Version   string      `json:"version" example:"1.0.0"`
	GoVersion string      `json:"go_version" example:"go1.25.5"`
	Uptime    string      `json:"uptime" example:"1h30m45s"`
	DBPool    *DBPoolInfo `json:"db_pool,omitempty"`
}

// DBPoolInfo is a snapshot of the database connection pool
// @name HandlerDBPoolInfo
type DBPoolInfo struct {
	Open      int   `json:"open" example:"4"`
	InUse     int   `json:"in_use" example:"1"`
	Idle      int   `json:"idle" example:"3"`
	WaitCount int64 `json:"wait_count" example:"0"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Pings the database. Answers 503 when it is unreachable.
// @Tags         system
// @Produce      json
// @Success      200  {object}  APIResponse[HealthResponse]
// @Failure      503  {object}  ErrorResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		logger.L(c.Request.Context()).Error("Database ping failed", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeStorage, "Database is unreachable")
		return
	}
	h.Success(c, HealthResponse{
		Status:   "ok",
		Database: "ok",
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}

// SystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns the build version, uptime and database pool usage
// @Tags         system
// @Produce      json
// @Success      200  {object}  APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *HealthHandler) SystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "NestApp API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if stats, err := h.db.Stats(); err == nil {
		info.DBPool = &DBPoolInfo{
			Open:      stats.OpenConnections,
			InUse:     stats.InUse,
			Idle:      stats.Idle,
			WaitCount: stats.WaitCount,
		}
	} else {
		logger.L(c.Request.Context()).Warn("Database pool stats unavailable", zap.Error(err))
	}
	h.Success(c, info)
}
