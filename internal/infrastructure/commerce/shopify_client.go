// Package commerce adapts the Shopify Admin REST API to the fulfillment
// pipeline's commerce-platform port.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// maxResponseSize is the maximum allowed response size from the Shopify API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// pendingOrdersPageSize is the Admin API's maximum page size
const pendingOrdersPageSize = 250

// ShopifyAdapter implements the CommercePlatform port against the Shopify
// Admin REST API, one shop configuration per tenant.
type ShopifyAdapter struct {
	httpClient *http.Client

	tenantConfigs map[string]*ShopifyConfig
	mu            sync.RWMutex // Protects tenantConfigs map
}

// NewShopifyAdapter creates an adapter with no tenants configured
func NewShopifyAdapter() *ShopifyAdapter {
	return &ShopifyAdapter{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tenantConfigs: make(map[string]*ShopifyConfig),
	}
}

// NewShopifyAdapterFromRegistry creates an adapter with one shop
// configuration per registered tenant
func NewShopifyAdapterFromRegistry(reg *tenant.Registry) (*ShopifyAdapter, error) {
	adapter := NewShopifyAdapter()
	for _, t := range reg.All() {
		if err := adapter.SetTenantConfig(t.Key, ConfigFromTenant(t)); err != nil {
			return nil, fmt.Errorf("shopify: tenant %q: %w", t.Key, err)
		}
	}
	return adapter, nil
}

// SetTenantConfig sets the shop configuration for a tenant
func (a *ShopifyAdapter) SetTenantConfig(tenantKey string, config *ShopifyConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tenantConfigs[tenantKey] = config
	return nil
}

// getTenantConfig retrieves the shop configuration for a tenant
func (a *ShopifyAdapter) getTenantConfig(tenantKey string) (*ShopifyConfig, error) {
	a.mu.RLock()
	config, ok := a.tenantConfigs[tenantKey]
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", fulfillment.ErrTenantNotConfigured, tenantKey)
	}
	return config, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// ListPendingOrders returns paid, open orders awaiting fulfillment
func (a *ShopifyAdapter) ListPendingOrders(ctx context.Context, tenantKey string) ([]fulfillment.CommerceOrder, error) {
	config, err := a.getTenantConfig(tenantKey)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("financial_status", "paid")
	query.Set("status", "open")
	query.Set("limit", fmt.Sprintf("%d", pendingOrdersPageSize))

	respBody, err := a.doRequest(ctx, config, http.MethodGet, "orders.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp shopifyOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse orders response: %w", err)
	}

	orders := make([]fulfillment.CommerceOrder, 0, len(resp.Orders))
	for i := range resp.Orders {
		orders = append(orders, convertShopifyOrder(&resp.Orders[i]))
	}
	return orders, nil
}

// FindOrderByNumber looks an order up by its customer-visible order number
func (a *ShopifyAdapter) FindOrderByNumber(ctx context.Context, tenantKey, orderNumber string) (*fulfillment.CommerceOrder, error) {
	config, err := a.getTenantConfig(tenantKey)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("status", "any")
	query.Set("name", orderNumber)

	respBody, err := a.doRequest(ctx, config, http.MethodGet, "orders.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp shopifyOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse orders response: %w", err)
	}

	// The name filter is a substring match server-side; require an exact hit
	for i := range resp.Orders {
		if matchesOrderNumber(&resp.Orders[i], orderNumber) {
			order := convertShopifyOrder(&resp.Orders[i])
			return &order, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", fulfillment.ErrOrderNotFound, orderNumber)
}

// matchesOrderNumber accepts both "#1001" and "1001" forms
func matchesOrderNumber(order *ShopifyOrder, orderNumber string) bool {
	if order.Name == orderNumber {
		return true
	}
	return order.Name == "#"+orderNumber
}

// CreateFulfillment records a shipment with a tracking number
func (a *ShopifyAdapter) CreateFulfillment(ctx context.Context, tenantKey string, orderID int64, trackingNumber string, notifyCustomer bool) error {
	config, err := a.getTenantConfig(tenantKey)
	if err != nil {
		return err
	}

	body := shopifyFulfillmentRequest{
		Fulfillment: shopifyFulfillment{
			TrackingNumber: trackingNumber,
			NotifyCustomer: notifyCustomer,
		},
	}

	path := fmt.Sprintf("orders/%d/fulfillments.json", orderID)
	_, err = a.doRequest(ctx, config, http.MethodPost, path, body)
	return err
}

// AnnotateOrder sets a note and tags on the order
func (a *ShopifyAdapter) AnnotateOrder(ctx context.Context, tenantKey string, orderID int64, note, tags string) error {
	config, err := a.getTenantConfig(tenantKey)
	if err != nil {
		return err
	}

	body := shopifyOrderUpdateRequest{
		Order: shopifyOrderUpdate{
			ID:   orderID,
			Note: note,
			Tags: tags,
		},
	}

	path := fmt.Sprintf("orders/%d.json", orderID)
	_, err = a.doRequest(ctx, config, http.MethodPut, path, body)
	return err
}

// CancelOrder cancels the order on the platform
func (a *ShopifyAdapter) CancelOrder(ctx context.Context, tenantKey string, orderID int64) error {
	config, err := a.getTenantConfig(tenantKey)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("orders/%d/cancel.json", orderID)
	_, err = a.doRequest(ctx, config, http.MethodPost, path, nil)
	return err
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an authenticated HTTP request against the Admin API
func (a *ShopifyAdapter) doRequest(ctx context.Context, config *ShopifyConfig, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("shopify: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, config.Endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}

	req.SetBasicAuth(config.APIKey, config.APISecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	logger.L(ctx).Debug("shopify api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: HTTP 404", fulfillment.ErrOrderNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("shopify: HTTP %d: %s", resp.StatusCode, errorMessage(respBody))
	}

	return respBody, nil
}

// errorMessage extracts Shopify's error envelope when present
func errorMessage(body []byte) string {
	var resp shopifyErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Errors != nil {
		return fmt.Sprintf("%v", resp.Errors)
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}

// Ensure ShopifyAdapter implements the CommercePlatform port
var _ fulfillment.CommercePlatform = (*ShopifyAdapter)(nil)
