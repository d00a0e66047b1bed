package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
)

// DealService is the deal journey engine as seen by the HTTP layer
type DealService interface {
	Create(ctx context.Context, req appdeal.CreateDealRequest, identity shared.Identity) (*appdeal.ActionResult, error)
	Get(ctx context.Context, dealID uuid.UUID) (*appdeal.DealResponse, error)
	Journey(ctx context.Context, dealID uuid.UUID) (*appdeal.JourneyResponse, error)
	AuditTrail(ctx context.Context, dealID uuid.UUID) ([]appdeal.AuditLogResponse, error)
	DownloadDocument(ctx context.Context, dealID uuid.UUID, docType deal.DocumentType, versionNo int) (*appdeal.DocumentDownload, error)

	GenerateDocument(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	RequestInvoice(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	UploadInvoice(ctx context.Context, dealID uuid.UUID, file appdeal.InvoiceUpload, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	Close(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	Cancel(ctx context.Context, dealID uuid.UUID, req appdeal.CancelDealRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	Override(ctx context.Context, dealID uuid.UUID, req appdeal.OverrideRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	SetDealPrice(ctx context.Context, dealID uuid.UUID, req appdeal.SetDealPriceRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
	SetMoveInDetails(ctx context.Context, dealID uuid.UUID, req appdeal.SetMoveInRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)
}

// DealHandler handles deal and journey action endpoints
type DealHandler struct {
	BaseHandler
	deals DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(deals DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// Create godoc
// @ID           createDeal
// @Summary      Create a deal
// @Description  Reserves an available unit for a tenant and opens its journey at the second step
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        X-Channel  header    string                     false  "WEB or WHATSAPP"
// @Param        request    body      appdeal.CreateDealRequest  true   "Deal creation request"
// @Success      201        {object}  APIResponse[appdeal.ActionResult]
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req appdeal.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.deals.Create(c.Request.Context(), req, middleware.GetIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get godoc
// @ID           getDeal
// @Summary      Get a deal
// @Description  Returns the deal with its derived step, documents and finance attachments
// @Tags         deals
// @Produce      json
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  APIResponse[appdeal.DealResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id} [get]
func (h *DealHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.deals.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Journey godoc
// @ID           getDealJourney
// @Summary      Get the journey of a deal
// @Description  Lists every step of the deal's journey as completed, current or upcoming
// @Tags         deals
// @Produce      json
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  APIResponse[appdeal.JourneyResponse]
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/journey [get]
func (h *DealHandler) Journey(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	j, err := h.deals.Journey(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, j)
}

// AuditLogs godoc
// @ID           listDealAuditLogs
// @Summary      List a deal's audit trail
// @Tags         deals
// @Produce      json
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  APIResponse[[]appdeal.AuditLogResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/audit-logs [get]
func (h *DealHandler) AuditLogs(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	logs, err := h.deals.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// Download godoc
// @ID           downloadDealDocument
// @Summary      Download a document version
// @Description  Streams the PDF of one generated document version
// @Tags         deals
// @Produce      application/pdf
// @Param        id          path  string  true  "Deal ID"
// @Param        doc_type    path  string  true  "Document type"
// @Param        version_no  path  int     true  "Version number"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/documents/{doc_type}/versions/{version_no}/download [get]
func (h *DealHandler) Download(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	docType, err := deal.ParseDocumentType(c.Param("doc_type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	versionNo, err := strconv.Atoi(c.Param("version_no"))
	if err != nil || versionNo < 1 {
		h.BadRequest(c, "Invalid version_no: must be a positive integer")
		return
	}

	file, err := h.deals.DownloadDocument(c.Request.Context(), id, docType, versionNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Body.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", file.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, file.FileName),
	})
}

type simpleAction func(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error)

func (h *DealHandler) runSimple(c *gin.Context, action simpleAction) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appdeal.ActionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	result, err := action(c.Request.Context(), id, middleware.GetIdentity(c), commandOptions(c, req.ExpectedStep))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateDocument godoc
// @ID           generateDealDocument
// @Summary      Generate the current step's document
// @Description  Produces the next version of the document the current step requires
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string         true   "Deal ID"
// @Param        Idempotency-Key  header    string         false  "Retry key"
// @Param        request          body      appdeal.ActionRequest  false  "Optional expected step"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      409              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/generate-document [post]
func (h *DealHandler) GenerateDocument(c *gin.Context) {
	h.runSimple(c, h.deals.GenerateDocument)
}

// RequestInvoice godoc
// @ID           requestDealInvoice
// @Summary      Request the invoice from finance
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string         true   "Deal ID"
// @Param        Idempotency-Key  header    string         false  "Retry key"
// @Param        request          body      appdeal.ActionRequest  false  "Optional expected step"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/request-invoice [post]
func (h *DealHandler) RequestInvoice(c *gin.Context) {
	h.runSimple(c, h.deals.RequestInvoice)
}

// UploadInvoice godoc
// @ID           uploadDealInvoice
// @Summary      Upload the finance invoice
// @Tags         deal-actions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id               path      string  true   "Deal ID"
// @Param        Idempotency-Key  header    string  false  "Retry key"
// @Param        file             formData  file    true   "Invoice file"
// @Param        expected_step    formData  string  false  "Expected current step"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/upload-invoice [post]
func (h *DealHandler) UploadInvoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file is required in the 'file' form field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer f.Close()

	upload := appdeal.InvoiceUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	result, err := h.deals.UploadInvoice(c.Request.Context(), id, upload, middleware.GetIdentity(c),
		commandOptions(c, c.PostForm("expected_step")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Close godoc
// @ID           closeDeal
// @Summary      Close a deal
// @Description  Completes the final step once every earlier step is satisfied
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string         true   "Deal ID"
// @Param        Idempotency-Key  header    string         false  "Retry key"
// @Param        request          body      appdeal.ActionRequest  false  "Optional expected step"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/close [post]
func (h *DealHandler) Close(c *gin.Context) {
	h.runSimple(c, h.deals.Close)
}

// Cancel godoc
// @ID           cancelDeal
// @Summary      Cancel a deal
// @Description  Cancels the deal and releases its unit
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string                     true   "Deal ID"
// @Param        Idempotency-Key  header    string                     false  "Retry key"
// @Param        request          body      appdeal.CancelDealRequest  true   "Cancellation reason"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/cancel [post]
func (h *DealHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appdeal.CancelDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.deals.Cancel(c.Request.Context(), id, req, middleware.GetIdentity(c), commandOptions(c, req.ExpectedStep))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// EmergencyOverride godoc
// @ID           overrideDealStep
// @Summary      Move a deal to another step
// @Description  Points the journey at target_step. Not available on the WHATSAPP channel.
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string                   true   "Deal ID"
// @Param        Idempotency-Key  header    string                   false  "Retry key"
// @Param        request          body      appdeal.OverrideRequest  true   "Override request"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/emergency-override [post]
func (h *DealHandler) EmergencyOverride(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appdeal.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.deals.Override(c.Request.Context(), id, req, middleware.GetIdentity(c), commandOptions(c, req.ExpectedStep))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetDealPrice godoc
// @ID           setDealPrice
// @Summary      Set the negotiated price
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string                       true   "Deal ID"
// @Param        Idempotency-Key  header    string                       false  "Retry key"
// @Param        request          body      appdeal.SetDealPriceRequest  true   "Negotiated price"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/set-deal-price [post]
func (h *DealHandler) SetDealPrice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appdeal.SetDealPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.deals.SetDealPrice(c.Request.Context(), id, req, middleware.GetIdentity(c), commandOptions(c, req.ExpectedStep))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetMoveInDetails godoc
// @ID           setDealMoveInDetails
// @Summary      Record the move-in date and notes
// @Tags         deal-actions
// @Accept       json
// @Produce      json
// @Param        id               path      string                    true   "Deal ID"
// @Param        Idempotency-Key  header    string                    false  "Retry key"
// @Param        request          body      appdeal.SetMoveInRequest  true   "Move-in details"
// @Success      200              {object}  APIResponse[appdeal.ActionResult]
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/actions/set-move-in-details [post]
func (h *DealHandler) SetMoveInDetails(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appdeal.SetMoveInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.deals.SetMoveInDetails(c.Request.Context(), id, req, middleware.GetIdentity(c), commandOptions(c, req.ExpectedStep))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
