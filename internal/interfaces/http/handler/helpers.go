package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
)

// parseID reads a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one was sent. Action endpoints
// accept an empty body.
func (h *BaseHandler) bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return false
	}
	return true
}

// commandOptions collects the retry-safety controls of a mutating request
func commandOptions(c *gin.Context, expectedStep string) appdeal.CommandOptions {
	return appdeal.CommandOptions{
		IdempotencyKey: strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader)),
		ExpectedStep:   expectedStep,
	}
}
