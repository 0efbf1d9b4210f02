package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
)

// OrderExporter is the outbound pipeline as the HTTP layer sees it
type OrderExporter interface {
	ProcessPendingOrders(ctx context.Context, tenantKey string) ([]string, error)
	ProcessAllPendingOrders(ctx context.Context) map[string][]string
	ExportOrder(ctx context.Context, tenantKey string, order fulfillment.CommerceOrder) (string, error)
}

// ReportImporter is the inbound pipeline as the HTTP layer sees it
type ReportImporter interface {
	RetrieveAndProcessFiles(ctx context.Context) (int, error)
}

// SyncHandler handles the sync trigger endpoints
type SyncHandler struct {
	BaseHandler
	exporter OrderExporter
	importer ReportImporter
	logger   *zap.Logger
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(exporter OrderExporter, importer ReportImporter, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{
		exporter: exporter,
		importer: importer,
		logger:   logger,
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/process/webhook/:tenantId", h.ProcessWebhookOrder)
		orders.POST("/process/:tenantId", h.ProcessTenantOrders)
		orders.POST("/process-all", h.ProcessAllOrders)
		orders.POST("/shipping-reports", h.ProcessShippingReports)
	}
}

// ProcessWebhookOrder exports a single order pushed by the commerce
// platform's order-creation webhook
//
//	POST /api/v1/orders/process/webhook/:tenantId
func (h *SyncHandler) ProcessWebhookOrder(c *gin.Context) {
	tenantKey := c.Param("tenantId")
	ctx, log := h.requestContext(c, tenantKey)

	var req dto.WebhookOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filename, err := h.exporter.ExportOrder(ctx, tenantKey, req.ToCommerceOrder())
	if err != nil {
		log.Error("webhook order export failed",
			zap.String("order", req.Name),
			zap.Error(err))
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ExportResult{Tenant: tenantKey, Files: []string{filename}})
}

// ProcessTenantOrders exports one tenant's pending orders
//
//	POST /api/v1/orders/process/:tenantId
func (h *SyncHandler) ProcessTenantOrders(c *gin.Context) {
	tenantKey := c.Param("tenantId")
	ctx, log := h.requestContext(c, tenantKey)

	files, err := h.exporter.ProcessPendingOrders(ctx, tenantKey)
	if err != nil {
		log.Error("order export failed", zap.Error(err))
		h.HandleDomainError(c, err)
		return
	}
	if files == nil {
		files = []string{}
	}

	h.Success(c, dto.ExportResult{Tenant: tenantKey, Files: files})
}

// ProcessAllOrders exports every tenant's pending orders
//
//	POST /api/v1/orders/process-all
func (h *SyncHandler) ProcessAllOrders(c *gin.Context) {
	ctx, _ := h.requestContext(c, "")
	results := h.exporter.ProcessAllPendingOrders(ctx)
	h.Success(c, results)
}

// ProcessShippingReports retrieves the 3PL's preparation reports and applies
// them to the commerce platform
//
//	POST /api/v1/orders/shipping-reports
func (h *SyncHandler) ProcessShippingReports(c *gin.Context) {
	ctx, log := h.requestContext(c, "")

	downloaded, err := h.importer.RetrieveAndProcessFiles(ctx)
	if err != nil {
		log.Error("report import failed", zap.Error(err))
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ImportResult{Downloaded: downloaded})
}

// requestContext attaches the request ID and tenant to the request context so
// downstream adapters log with the same correlation fields
func (h *SyncHandler) requestContext(c *gin.Context, tenantKey string) (context.Context, *zap.Logger) {
	ctx, log := logger.WithRequestID(c.Request.Context(), h.logger, middleware.GetRequestID(c))
	if tenantKey != "" {
		ctx, log = logger.WithTenantKey(ctx, log, tenantKey)
	}
	return ctx, log
}
