package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/infrastructure/logger"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Bot commands accepted by the webhook
const (
	CommandGenerateDocument = "generate_document"
	CommandRequestInvoice   = "request_invoice"
	CommandGetDealStatus    = "get_deal_status"
)

// WebhookRequest is a command relayed by the WhatsApp bot
type WebhookRequest struct {
	Command  string         `json:"command" binding:"required"`
	DealID   string         `json:"deal_id"`
	TenantID string         `json:"tenant_id"`
	UnitID   string         `json:"unit_id"`
	Params   map[string]any `json:"params"`
}

// WebhookResponse is the bot-facing result of a command
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WebhookHandler routes bot commands into the deal engine
type WebhookHandler struct {
	BaseHandler
	deals DealService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(deals DealService) *WebhookHandler {
	return &WebhookHandler{deals: deals}
}

// Handle godoc
// @ID           handleBotWebhook
// @Summary      Execute a bot command
// @Description  Runs generate_document, request_invoice or get_deal_status for the WhatsApp bot.
// @Description  Actions are executed on the WHATSAPP channel and audited as CLAWDBOT.
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string          false  "Retry key"
// @Param        request          body      WebhookRequest  true   "Bot command"
// @Success      200              {object}  WebhookResponse
// @Failure      400              {object}  ErrorResponse
// @Failure      401              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Failure      429              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/openclaw/webhook [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	command := strings.TrimSpace(req.Command)
	ctx := logger.WithFields(c.Request.Context(), zap.String("bot_command", command))
	c.Request = c.Request.WithContext(ctx)

	switch command {
	case CommandGenerateDocument, CommandRequestInvoice, CommandGetDealStatus:
	default:
		logger.L(ctx).Info("Unknown bot command")
		c.JSON(http.StatusOK, WebhookResponse{
			Success: false,
			Message: fmt.Sprintf("Unknown command: %s", req.Command),
		})
		return
	}

	if strings.TrimSpace(req.DealID) == "" {
		h.BadRequest(c, fmt.Sprintf("deal_id is required for %s", command))
		return
	}
	dealID, err := uuid.Parse(req.DealID)
	if err != nil {
		h.BadRequest(c, "Invalid deal_id: must be a UUID")
		return
	}

	identity := middleware.GetIdentity(c)
	opts := commandOptions(c, "")

	var data any
	var message string
	switch command {
	case CommandGenerateDocument:
		result, err := h.deals.GenerateDocument(ctx, dealID, identity, opts)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		data, message = result, result.Message
	case CommandRequestInvoice:
		result, err := h.deals.RequestInvoice(ctx, dealID, identity, opts)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		data, message = result, result.Message
	case CommandGetDealStatus:
		journey, err := h.deals.Journey(ctx, dealID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		data = journey
		message = fmt.Sprintf("Deal %s is at %s", journey.DealCode, journey.CurrentStep)
	}

	c.JSON(http.StatusOK, WebhookResponse{Success: true, Message: message, Data: data})
}
