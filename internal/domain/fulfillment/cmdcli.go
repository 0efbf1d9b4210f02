package fulfillment

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CMDCLI — outbound order schema (orders sent TO the 3PL)
// ---------------------------------------------------------------------------

// OrderBatch is the root container of a CMDCLI file. One batch corresponds to
// exactly one physical file delivered to the 3PL.
type OrderBatch struct {
	XMLName xml.Name `xml:"ORDERS"`
	Orders  []Order  `xml:"ORDER"`
}

// Order is a single commerce order translated for 3PL consumption.
// The 3PL contract is fixed-field: fields the mapping populates are always
// emitted, empty when the source value is absent.
type Order struct {
	ActivityCode   string          `xml:"CODACTI"`           // Activity code (tenant name)
	ActivityName   string          `xml:"LIBACTI,omitempty"` // Activity label
	OrderID        string          `xml:"IDORDER"`           // Commerce order number
	InternalID     string          `xml:"CLORDER,omitempty"` // 3PL internal order ID
	ProcessingType string          `xml:"TYPTRAI,omitempty"` // Processing type
	OrderState     string          `xml:"ETATCDE,omitempty"` // Order status
	OrderDate      string          `xml:"DATECDE"`           // Order date, YYYYMMDD
	PrepDate       string          `xml:"DATEPRP,omitempty"` // Requested preparation date
	SalesChannel   string          `xml:"IDCANAL,omitempty"` // Sales channel
	OrderType      string          `xml:"TYPECDE,omitempty"` // Order type
	Delivery       DeliveryInfo    `xml:"LIVRAISON"`
	Billing        BillingInfo     `xml:"FACTURE"`
	Transport      *TransportInfo  `xml:"TRANSPORT,omitempty"`
	Processing     *ProcessingInfo `xml:"TRAITEMENT,omitempty"`
	Lines          []LineItem      `xml:"LIGNE"`
}

// DeliveryInfo is the delivery-address block.
type DeliveryInfo struct {
	Title        string `xml:"LIVCIVI,omitempty"` // Title (Mr., Mrs.)
	LastName     string `xml:"LIVRNOM"`
	FirstName    string `xml:"LIVPNOM"`
	Company      string `xml:"LIVSCTE,omitempty"`
	AddressLine1 string `xml:"LIVADR1"`
	AddressLine2 string `xml:"LIVADR2"`
	AddressLine3 string `xml:"LIVADR3,omitempty"`
	PostalCode   string `xml:"LIVCPOS"`
	City         string `xml:"LIVVILL"`
	CountryCode  string `xml:"LIVPAYS"` // ISO 3166-1 alpha-2
	Phone        string `xml:"LIVRTEL"`
	Email        string `xml:"LIVMAIL"`
	StoreCode    string `xml:"LIVMAGA,omitempty"` // B2B store code
	Instructions string `xml:"LIVOPTN,omitempty"`
}

// BillingInfo is the billing/invoice block.
type BillingInfo struct {
	Title         string          `xml:"FACCIVI,omitempty"`
	LastName      string          `xml:"FACTNOM"`
	FirstName     string          `xml:"FACPNOM"`
	Company       string          `xml:"FACSCTE,omitempty"`
	AddressLine1  string          `xml:"FACADR1"`
	AddressLine2  string          `xml:"FACADR2"`
	AddressLine3  string          `xml:"FACADR3,omitempty"`
	PostalCode    string          `xml:"FACCPOS"`
	City          string          `xml:"FACVILL"`
	CountryCode   string          `xml:"FACPAYS"`
	Phone         string          `xml:"FACRTEL"`
	Email         string          `xml:"FACMAIL"`
	InvoiceNumber string          `xml:"IDFACTU,omitempty"`
	InvoiceDate   string          `xml:"DATEFAC,omitempty"`
	PaymentMethod string          `xml:"MODPAIE"`
	Currency      string          `xml:"DEVPAIE,omitempty"` // ISO 4217
	TotalExclTax  decimal.Decimal `xml:"TOTALHT"`
	TotalInclTax  decimal.Decimal `xml:"TOTALTC"`
	ShippingCost  decimal.Decimal `xml:"MTFPORT"`
}

// TransportInfo is the optional transport-instructions block.
type TransportInfo struct {
	CarrierCode      string           `xml:"TRPCONT"`
	ServiceCode      string           `xml:"TRPGEST,omitempty"`
	RelayPointID     string           `xml:"IDPOINT,omitempty"`
	RelayCountryCode string           `xml:"CPPOINT,omitempty"`
	Instructions     string           `xml:"TRPINST"`
	SaturdayDelivery string           `xml:"IMPELIV,omitempty"` // O/N
	CashOnDelivery   string           `xml:"TRPCRBT,omitempty"` // O/N
	CODAmount        *decimal.Decimal `xml:"MOTCRBT,omitempty"`
}

// ProcessingInfo carries warehouse handling options.
type ProcessingInfo struct {
	Priority        *int   `xml:"PRIORIT,omitempty"`
	ParcelCage      string `xml:"ASILECDE,omitempty"` // O/N
	GiftWrap        string `xml:"TYPEKDO,omitempty"`  // O/N
	PackingSlipNote string `xml:"MESGCDE,omitempty"`
	GiftMessage     string `xml:"MESGKDO,omitempty"`
}

// LineItem is one ordered article line.
type LineItem struct {
	LineID            string          `xml:"IDLIGNE"` // "<order id>-<index>"
	SKU               string          `xml:"CODARTI"`
	Quantity          int             `xml:"QTTECDE"`
	RemainingQuantity *int            `xml:"QTTREST,omitempty"`
	UnitPriceExclTax  decimal.Decimal `xml:"PRXUTHT"`
	UnitPriceInclTax  decimal.Decimal `xml:"PRXUTTC"`
	Description       string          `xml:"DESARTI"`
	Comment           string          `xml:"MESGART,omitempty"`
}
