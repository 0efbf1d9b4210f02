package commerce

import (
	"errors"
	"fmt"

	"github.com/fulfillsync/backend/internal/domain/tenant"
)

// ShopifyConfig holds configuration for one shop's Shopify Admin API access
type ShopifyConfig struct {
	// ShopName is the myshopify.com shop handle
	ShopName string
	// APIKey is the private app API key
	APIKey string
	// APISecret is the private app password
	APISecret string
	// APIVersion is the Admin API version, e.g. "2025-01"
	APIVersion string
	// BaseURL overrides the computed shop URL, used in tests
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingShop    = errors.New("shopify: shop name is required")
	ErrShopifyConfigMissingKey     = errors.New("shopify: API key is required")
	ErrShopifyConfigMissingSecret  = errors.New("shopify: API secret is required")
	ErrShopifyConfigMissingVersion = errors.New("shopify: API version is required")
)

// NewShopifyConfig creates a new Shopify configuration with defaults
func NewShopifyConfig(shopName, apiKey, apiSecret, apiVersion string) *ShopifyConfig {
	return &ShopifyConfig{
		ShopName:       shopName,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		APIVersion:     apiVersion,
		TimeoutSeconds: 30,
	}
}

// ConfigFromTenant builds a Shopify configuration from a tenant entry
func ConfigFromTenant(t *tenant.Config) *ShopifyConfig {
	return NewShopifyConfig(t.ShopName, t.APIKey, t.APISecret, t.APIVersion)
}

// Validate validates the Shopify configuration
func (c *ShopifyConfig) Validate() error {
	if c.ShopName == "" {
		return ErrShopifyConfigMissingShop
	}
	if c.APIKey == "" {
		return ErrShopifyConfigMissingKey
	}
	if c.APISecret == "" {
		return ErrShopifyConfigMissingSecret
	}
	if c.APIVersion == "" {
		return ErrShopifyConfigMissingVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Endpoint returns the absolute URL for an Admin API path like "orders.json"
func (c *ShopifyConfig) Endpoint(path string) string {
	base := c.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.myshopify.com", c.ShopName)
	}
	return fmt.Sprintf("%s/admin/api/%s/%s", base, c.APIVersion, path)
}
