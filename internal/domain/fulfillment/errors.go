package fulfillment

import "errors"

var (
	// Tenant resolution errors
	ErrTenantNotConfigured = errors.New("fulfillment: tenant not configured")
	ErrUnresolvedTenant    = errors.New("fulfillment: filename does not resolve to a configured tenant")

	// Codec errors
	ErrMalformedReport = errors.New("fulfillment: malformed report document")
	ErrEmptyOrderBatch = errors.New("fulfillment: order batch contains no orders")

	// Commerce platform errors
	ErrOrderNotFound       = errors.New("fulfillment: platform order not found")
	ErrPlatformUnavailable = errors.New("fulfillment: commerce platform request failed")

	// Transfer errors
	ErrTransport         = errors.New("fulfillment: transfer operation failed")
	ErrRemoteFileMissing = errors.New("fulfillment: remote file not found")

	// Pipeline errors
	ErrPartialFailure = errors.New("fulfillment: not all report records were processed successfully")
)
