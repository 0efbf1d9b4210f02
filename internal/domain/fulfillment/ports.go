package fulfillment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Commerce platform port
// ---------------------------------------------------------------------------

// CommerceOrder is the slice of a commerce-platform order the pipelines need:
// enough to build an outbound schema record and to apply status updates.
type CommerceOrder struct {
	// ID is the platform's internal order identifier
	ID int64
	// OrderNumber is the customer-visible order number, used as the
	// correlation key with the 3PL
	OrderNumber string
	// Email is the buyer's email address
	Email string
	// CreatedAt is when the order was placed
	CreatedAt time.Time
	// Note is the free-form order note
	Note string
	// Gateway is the payment gateway name
	Gateway string
	// TotalPrice is the order total including tax
	TotalPrice decimal.Decimal
	// SubtotalPrice is the order total excluding tax
	SubtotalPrice decimal.Decimal
	// ShippingAddress is the delivery address, nil when absent
	ShippingAddress *CommerceAddress
	// BillingAddress is the billing address, nil when absent
	BillingAddress *CommerceAddress
	// ShippingLines are the chosen shipping options, first one wins
	ShippingLines []CommerceShippingLine
	// LineItems are the ordered articles
	LineItems []CommerceLineItem
}

// CommerceAddress is a postal address attached to a commerce order.
type CommerceAddress struct {
	FirstName   string
	LastName    string
	Address1    string
	Address2    string
	Zip         string
	City        string
	CountryCode string
	Phone       string
}

// CommerceShippingLine is one shipping option on a commerce order.
type CommerceShippingLine struct {
	Title string
	Price decimal.Decimal
}

// CommerceLineItem is one article line on a commerce order.
type CommerceLineItem struct {
	SKU       string
	ProductID int64
	Title     string
	Quantity  int
	Price     decimal.Decimal
	// TaxRate is the first tax line's rate, zero when the platform reports none
	TaxRate decimal.Decimal
}

// CommercePlatform is the port to the commerce platform's order API. Adapters
// live in the infrastructure layer; every call is scoped to a configured
// tenant and may fail with an opaque remote-service error.
type CommercePlatform interface {
	// ListPendingOrders returns paid, open orders awaiting fulfillment
	ListPendingOrders(ctx context.Context, tenantKey string) ([]CommerceOrder, error)

	// FindOrderByNumber looks an order up by its visible order number;
	// returns ErrOrderNotFound when no order matches
	FindOrderByNumber(ctx context.Context, tenantKey, orderNumber string) (*CommerceOrder, error)

	// CreateFulfillment records a shipment with a tracking number and
	// optionally notifies the customer
	CreateFulfillment(ctx context.Context, tenantKey string, orderID int64, trackingNumber string, notifyCustomer bool) error

	// AnnotateOrder sets a note and tags on the order
	AnnotateOrder(ctx context.Context, tenantKey string, orderID int64, note, tags string) error

	// CancelOrder cancels the order on the platform
	CancelOrder(ctx context.Context, tenantKey string, orderID int64) error
}

// ---------------------------------------------------------------------------
// Transfer gateway port
// ---------------------------------------------------------------------------

// RemoteFile describes a file in the remote drop-box.
type RemoteFile struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// TransferGateway is the port to the 3PL's file drop-box. Remote paths are
// gateway-relative; the implementation owns session mechanics.
type TransferGateway interface {
	// Send uploads a local file into the 3PL's inbox
	Send(ctx context.Context, localPath string) error

	// List returns the files present in a remote directory
	List(ctx context.Context, remoteDir string) ([]RemoteFile, error)

	// Fetch downloads a remote file to a local path
	Fetch(ctx context.Context, remotePath, localPath string) error

	// Exists reports whether a remote path exists
	Exists(ctx context.Context, remotePath string) (bool, error)

	// EnsureDir creates a remote directory (and parents) when missing
	EnsureDir(ctx context.Context, remoteDir string) error

	// Move renames a remote file, used for archival
	Move(ctx context.Context, srcRemote, dstRemote string) error

	// Close tears down any held session state
	Close() error
}

// ---------------------------------------------------------------------------
// Completion ledger port
// ---------------------------------------------------------------------------

// CompletionLedger remembers per-record status updates that already succeeded
// so a retried report file does not re-apply them. The file-drop protocol is
// at-least-once with external re-invocation as the only retry mechanism; the
// ledger is an optional tightening, not a correctness requirement.
type CompletionLedger interface {
	// MarkProcessed records a key with a TTL; returns false when the key
	// was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key was recorded and has not expired
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases ledger resources
	Close() error
}

// RecordOutcome is the per-record result used to gate the file-level
// archive decision.
type RecordOutcome struct {
	OrderID string
	Success bool
}

// AllSucceeded returns the conjunction over every record outcome.
func AllSucceeded(outcomes []RecordOutcome) bool {
	for _, o := range outcomes {
		if !o.Success {
			return false
		}
	}
	return true
}
