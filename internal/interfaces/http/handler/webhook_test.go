package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/auth"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/nestapp/backend/internal/interfaces/http/dto"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
	"github.com/nestapp/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const botToken = "Bearer bot-service-token"

func webhookRouter(t *testing.T, svc DealService, rate string) *gin.Engine {
	t.Helper()
	tokens := auth.NewTokenService(config.AuthConfig{
		JWTSecret:    "test-secret-key-at-least-32-chars",
		ServiceToken: "bot-service-token",
	})
	limiter, err := middleware.NewMemoryLimiter(rate)
	require.NoError(t, err)

	engine := gin.New()
	router.NewRouter(engine, router.WithMiddleware(middleware.RequestID())).
		Register(WebhookRoutes(NewWebhookHandler(svc),
			middleware.RequireServiceToken(tokens, nil),
			middleware.RateLimit(limiter),
		)).Setup()
	return engine
}

func webhookResponse(t *testing.T, body []byte) WebhookResponse {
	t.Helper()
	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

const webhookPath = "/api/v1/integrations/openclaw/webhook"

func TestWebhook_RequiresServiceToken(t *testing.T) {
	engine := webhookRouter(t, new(mockDealService), "100-M")

	w := send(engine, http.MethodPost, webhookPath, map[string]any{"command": "get_deal_status"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(engine, http.MethodPost, webhookPath, map[string]any{"command": "get_deal_status"},
		middleware.AuthHeaderKey, "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhook_GenerateDocumentRunsOnWhatsApp(t *testing.T) {
	svc := new(mockDealService)
	engine := webhookRouter(t, svc, "100-M")
	id := uuid.New()
	bot := shared.NewIdentity("Rina", shared.ChannelWhatsApp)

	svc.On("GenerateDocument", mock.Anything, id, bot, appdeal.CommandOptions{IdempotencyKey: "wa-77"}).
		Return(sampleResult(id, deal.StepGenerateLOODraft, "Booking Confirmation v1 generated"), nil).Once()

	w := send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "generate_document", "deal_id": id.String()},
		middleware.AuthHeaderKey, botToken,
		middleware.ActorHeader, "Rina",
		middleware.IdempotencyKeyHeader, "wa-77",
	)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := webhookResponse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "Booking Confirmation v1 generated", resp.Message)
	assert.Equal(t, shared.ExecutorClawdbot, bot.Executor())
	svc.AssertExpectations(t)
}

func TestWebhook_RequestInvoiceAndStatus(t *testing.T) {
	svc := new(mockDealService)
	engine := webhookRouter(t, svc, "100-M")
	id := uuid.New()

	svc.On("RequestInvoice", mock.Anything, id, whatsapp, appdeal.CommandOptions{}).
		Return(sampleResult(id, deal.StepUploadInvoice, "Invoice requested"), nil).Once()
	svc.On("Journey", mock.Anything, id).
		Return(&appdeal.JourneyResponse{DealID: id, DealCode: "NEST-00001", CurrentStep: "UPLOAD_INVOICE"}, nil).Once()

	w := send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "request_invoice", "deal_id": id.String()},
		middleware.AuthHeaderKey, botToken)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Invoice requested", webhookResponse(t, w.Body.Bytes()).Message)

	w = send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "get_deal_status", "deal_id": id.String()},
		middleware.AuthHeaderKey, botToken)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := webhookResponse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "Deal NEST-00001 is at UPLOAD_INVOICE", resp.Message)
	svc.AssertExpectations(t)
}

func TestWebhook_UnknownCommand(t *testing.T) {
	svc := new(mockDealService)
	engine := webhookRouter(t, svc, "100-M")

	w := send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "get_catalog"},
		middleware.AuthHeaderKey, botToken)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := webhookResponse(t, w.Body.Bytes())
	assert.False(t, resp.Success)
	assert.Equal(t, "Unknown command: get_catalog", resp.Message)
	assert.Empty(t, svc.Calls)
}

func TestWebhook_DealIDRequired(t *testing.T) {
	engine := webhookRouter(t, new(mockDealService), "100-M")

	w := send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "generate_document"},
		middleware.AuthHeaderKey, botToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)

	w = send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "generate_document", "deal_id": "42"},
		middleware.AuthHeaderKey, botToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_EngineErrorUsesEnvelope(t *testing.T) {
	svc := new(mockDealService)
	engine := webhookRouter(t, svc, "100-M")
	id := uuid.New()
	svc.On("RequestInvoice", mock.Anything, id, whatsapp, appdeal.CommandOptions{}).
		Return(nil, shared.NewStateConflictError("Invoice can only be requested at REQUEST_INVOICE")).Once()

	w := send(engine, http.MethodPost, webhookPath,
		map[string]any{"command": "request_invoice", "deal_id": id.String()},
		middleware.AuthHeaderKey, botToken)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeStateConfl, decode(t, w).Error.Code)
}

func TestWebhook_RateLimited(t *testing.T) {
	engine := webhookRouter(t, new(mockDealService), "2-M")
	body := map[string]any{"command": "ping"}

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send(engine, http.MethodPost, webhookPath, body, middleware.AuthHeaderKey, botToken).Code)
	}
	w := send(engine, http.MethodPost, webhookPath, body, middleware.AuthHeaderKey, botToken)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, decode(t, w).Error.Code)
}
