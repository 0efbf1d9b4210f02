package fulfillment

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CRPCMD — inbound report schema (preparation reports received FROM the 3PL)
// ---------------------------------------------------------------------------

// PrepStatus is the 3PL preparation-status code carried in ETAPREP.
type PrepStatus string

const (
	// PrepStatusComplete indicates preparation is complete and the order shipped
	PrepStatusComplete PrepStatus = "10"
	// PrepStatusInProgress indicates preparation is still in progress
	PrepStatusInProgress PrepStatus = "15"
	// PrepStatusCanceled indicates preparation was canceled
	PrepStatusCanceled PrepStatus = "20"
)

// Known returns true if the status is part of the documented enumeration.
// Unknown codes are handled as a no-op, not an error.
func (s PrepStatus) Known() bool {
	switch s {
	case PrepStatusComplete, PrepStatusInProgress, PrepStatusCanceled:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the status code.
func (s PrepStatus) String() string {
	return string(s)
}

// ReportFile is the root container parsed from one physical CRPCMD file.
// All contained orders belong to the tenant identified by the filename prefix.
type ReportFile struct {
	XMLName xml.Name      `xml:"CRORDERS"`
	Orders  []ReportOrder `xml:"CRORDER"`
}

// ReportOrder is the 3PL's report on a single order's preparation state.
type ReportOrder struct {
	ActivityCode    string           `xml:"CODACTI"`
	SubActivityCode string           `xml:"CODSACT,omitempty"`
	OrderID         string           `xml:"IDORDER"` // matches the outbound IDORDER
	InternalID      string           `xml:"CLORDER,omitempty"`
	Status          PrepStatus       `xml:"ETAPREP"`
	PrepDate        string           `xml:"DATETRT,omitempty"` // first package preparation date
	ShipDate        string           `xml:"DATEEXP,omitempty"` // last package shipment date
	SalesChannel    string           `xml:"IDCANAL,omitempty"`
	OrderType       string           `xml:"TYPECDE,omitempty"`
	ShippingUnits   *int             `xml:"QUANTUM,omitempty"`
	ShippingType    string           `xml:"TYPEEXP,omitempty"` // PAL, COL
	PackageCount    *int             `xml:"NBCOLIS,omitempty"`
	PalletCount     *int             `xml:"NBPALET,omitempty"`
	TotalWeight     *decimal.Decimal `xml:"POIDTOT,omitempty"`
	TotalVolume     *decimal.Decimal `xml:"VOLUTOT,omitempty"`
	Lines           []ReportLine     `xml:"LIGNE"`
	Packages        []Package        `xml:"COLIS"`
}

// TrackingNumber returns the tracking number of the first package, or an
// empty string when the report carries no packages. When several packages
// exist only the first one's number is used.
func (o *ReportOrder) TrackingNumber() string {
	if len(o.Packages) == 0 {
		return ""
	}
	return o.Packages[0].TrackingNumber
}

// ReportLine reports prepared quantities for one outbound order line.
type ReportLine struct {
	LineID         string `xml:"IDLIGNE"` // matches the outbound IDLIGNE
	InternalLineID string `xml:"IDLNGL4,omitempty"`
	Ordered        int    `xml:"QTTECDE"`
	Prepared       int    `xml:"QTTEPRP"`
}

// Package describes one shipping unit produced for the order.
type Package struct {
	PackageID         string           `xml:"IDCOLIS"`
	PalletID          string           `xml:"IDPALET,omitempty"`
	TrackingNumber    string           `xml:"TRACKEX,omitempty"`
	ShipmentReference string           `xml:"REFEXPE,omitempty"`
	PalletSSCC        string           `xml:"SSCCPAL,omitempty"`
	PackageSSCC       string           `xml:"SSCCCOL,omitempty"`
	PrepDate          string           `xml:"DATECON,omitempty"`
	ShipDate          string           `xml:"DATECHG,omitempty"`
	Weight            *decimal.Decimal `xml:"POIDCOL,omitempty"`
	Volume            *decimal.Decimal `xml:"VOLUCOL,omitempty"`
	PackagingType     string           `xml:"EMBLCOL,omitempty"`
	Lines             []PackageLine    `xml:"LIGNECOLIS"`
}

// PackageLine is one article line inside a package.
type PackageLine struct {
	SKU      string          `xml:"CODARTI"`
	Shipped  int             `xml:"QTTEEXP"`
	Products []ProductDetail `xml:"PRODUIT"`
}

// ProductDetail carries unit-level traceability data.
type ProductDetail struct {
	SerialNumber string `xml:"NOSERIE,omitempty"`
	ExpiryDate   string `xml:"DLVARTI,omitempty"`
	BatchNumber  string `xml:"NOSLOTS,omitempty"`
}
