// Package tenant holds the static multi-tenant configuration: one entry per
// storefront integrated with the 3PL, keyed internally by a stable tenant key
// and externally by an uppercase schema prefix.
package tenant

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	ErrNotFound         = errors.New("tenant: not configured")
	ErrPrefixNotFound   = errors.New("tenant: no tenant matches prefix")
	ErrMissingKey       = errors.New("tenant: key is required")
	ErrMissingName      = errors.New("tenant: name is required")
	ErrInvalidPrefix    = errors.New("tenant: prefix must be an uppercase token")
	ErrMissingShopName  = errors.New("tenant: shop name is required")
	ErrDuplicateKey     = errors.New("tenant: duplicate key")
	ErrDuplicatePrefix  = errors.New("tenant: duplicate prefix")
	ErrMissingAPIKey    = errors.New("tenant: API key is required")
	ErrMissingAPISecret = errors.New("tenant: API secret is required")
)

var prefixPattern = regexp.MustCompile(`^[A-Z]+$`)

// Config is one tenant's static configuration. The prefix uniquely determines
// the tenant and vice versa: it is the only correlation key shared with the
// 3PL's inbound files.
type Config struct {
	// Key is the stable internal tenant identifier
	Key string
	// Name is the display name, used as the 3PL activity code
	Name string
	// Prefix is the uppercase token embedded in inbound report filenames
	Prefix string
	// ShopName is the commerce platform shop handle
	ShopName string
	// APIKey and APISecret are the commerce platform credentials
	APIKey    string
	APISecret string
	// APIVersion is the commerce platform API version, e.g. "2025-01"
	APIVersion string
	// WebhookURL is the optional notification endpoint registered on the shop
	WebhookURL string
}

// Validate checks the per-tenant invariants.
func (c *Config) Validate() error {
	if c.Key == "" {
		return ErrMissingKey
	}
	if c.Name == "" {
		return ErrMissingName
	}
	if !prefixPattern.MatchString(c.Prefix) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, c.Prefix)
	}
	if c.ShopName == "" {
		return ErrMissingShopName
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrMissingAPISecret
	}
	return nil
}

// Registry resolves tenants by key or prefix. It is built once at process
// start and read-only afterwards, so lookups need no locking.
type Registry struct {
	byKey    map[string]*Config
	byPrefix map[string]*Config
	keys     []string
}

// NewRegistry builds a registry from the configured tenants. Keys and
// prefixes must be unique across tenants.
func NewRegistry(configs []Config) (*Registry, error) {
	r := &Registry{
		byKey:    make(map[string]*Config, len(configs)),
		byPrefix: make(map[string]*Config, len(configs)),
		keys:     make([]string, 0, len(configs)),
	}

	for i := range configs {
		cfg := configs[i]
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byKey[cfg.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, cfg.Key)
		}
		if _, exists := r.byPrefix[cfg.Prefix]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrefix, cfg.Prefix)
		}
		r.byKey[cfg.Key] = &cfg
		r.byPrefix[cfg.Prefix] = &cfg
		r.keys = append(r.keys, cfg.Key)
	}

	sort.Strings(r.keys)
	return r, nil
}

// ByKey resolves a tenant by its internal key.
func (r *Registry) ByKey(key string) (*Config, error) {
	cfg, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return cfg, nil
}

// ByPrefix resolves a tenant by its schema filename prefix.
func (r *Registry) ByPrefix(prefix string) (*Config, error) {
	cfg, ok := r.byPrefix[prefix]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPrefixNotFound, prefix)
	}
	return cfg, nil
}

// Keys returns all tenant keys in stable (sorted) order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// All returns every configured tenant in key order.
func (r *Registry) All() []*Config {
	all := make([]*Config, 0, len(r.keys))
	for _, k := range r.keys {
		all = append(all, r.byKey[k])
	}
	return all
}
