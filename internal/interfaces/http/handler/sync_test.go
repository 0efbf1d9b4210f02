package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
)

type MockOrderExporter struct {
	mock.Mock
}

func (m *MockOrderExporter) ProcessPendingOrders(ctx context.Context, tenantKey string) ([]string, error) {
	args := m.Called(ctx, tenantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOrderExporter) ProcessAllPendingOrders(ctx context.Context) map[string][]string {
	args := m.Called(ctx)
	return args.Get(0).(map[string][]string)
}

func (m *MockOrderExporter) ExportOrder(ctx context.Context, tenantKey string, order fulfillment.CommerceOrder) (string, error) {
	args := m.Called(ctx, tenantKey, order.OrderNumber)
	return args.String(0), args.Error(1)
}

type MockReportImporter struct {
	mock.Mock
}

func (m *MockReportImporter) RetrieveAndProcessFiles(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newTestRouter(exporter OrderExporter, importer ReportImporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	NewSyncHandler(exporter, importer, nil).RegisterRoutes(api)
	return r
}

func webhookPayload(orderNumber int64) string {
	return fmt.Sprintf(`{
		"id": 42,
		"name": "#%d",
		"order_number": %d,
		"line_items": [
			{"sku": "SKU-1", "quantity": 1, "price": "10.00"}
		]
	}`, orderNumber, orderNumber)
}

func TestSyncHandler_ProcessWebhookOrder(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ExportOrder", mock.Anything, "finger", "1001").
		Return("CMDCLI20250115103045.xml", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/webhook/finger",
		bytes.NewBufferString(webhookPayload(1001)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CMDCLI20250115103045.xml")
	exporter.AssertExpectations(t)
}

func TestSyncHandler_ProcessWebhookOrder_ValidationError(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	// Missing name and line_items
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/webhook/finger",
		bytes.NewBufferString(`{"id": 42}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
	assert.Contains(t, w.Body.String(), "line_items")
	exporter.AssertNotCalled(t, "ExportOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncHandler_ProcessWebhookOrder_UnknownTenant(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ExportOrder", mock.Anything, "ghost", "1001").
		Return("", fmt.Errorf("lookup: %w", tenant.ErrNotFound))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/webhook/ghost",
		bytes.NewBufferString(webhookPayload(1001)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TENANT_UNKNOWN")
}

func TestSyncHandler_ProcessTenantOrders(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ProcessPendingOrders", mock.Anything, "finger").
		Return([]string{"CMDCLI20250115103045.xml"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/finger", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Tenant string   `json:"tenant"`
			Files  []string `json:"files"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "finger", resp.Data.Tenant)
	assert.Equal(t, []string{"CMDCLI20250115103045.xml"}, resp.Data.Files)
}

func TestSyncHandler_ProcessTenantOrders_NothingPending(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ProcessPendingOrders", mock.Anything, "finger").Return(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/finger", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"files":[]`)
}

func TestSyncHandler_ProcessTenantOrders_UpstreamDown(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ProcessPendingOrders", mock.Anything, "finger").
		Return(nil, fmt.Errorf("list: %w", fulfillment.ErrPlatformUnavailable))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process/finger", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UPSTREAM_UNAVAILABLE")
}

func TestSyncHandler_ProcessAllOrders(t *testing.T) {
	exporter := new(MockOrderExporter)
	r := newTestRouter(exporter, new(MockReportImporter))

	exporter.On("ProcessAllPendingOrders", mock.Anything).Return(map[string][]string{
		"finger":    {"CMDCLI20250115103045.xml"},
		"smallable": {},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/process-all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"finger"`)
	assert.Contains(t, w.Body.String(), `"smallable":[]`)
}

func TestSyncHandler_ProcessShippingReports(t *testing.T) {
	importer := new(MockReportImporter)
	r := newTestRouter(new(MockOrderExporter), importer)

	importer.On("RetrieveAndProcessFiles", mock.Anything).Return(3, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/shipping-reports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"downloaded":3`)
}

func TestSyncHandler_ProcessShippingReports_TransferDown(t *testing.T) {
	importer := new(MockReportImporter)
	r := newTestRouter(new(MockOrderExporter), importer)

	importer.On("RetrieveAndProcessFiles", mock.Anything).
		Return(0, fmt.Errorf("list remote: %w", fulfillment.ErrTransport))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/shipping-reports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UPSTREAM_UNAVAILABLE")
}
