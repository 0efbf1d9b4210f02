package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// WebhookOrderRequest is the order payload delivered by the commerce
// platform's order-creation webhook
type WebhookOrderRequest struct {
	ID              int64                 `json:"id" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	OrderNumber     int64                 `json:"order_number" binding:"required"`
	Email           string                `json:"email" binding:"omitempty,email"`
	CreatedAt       time.Time             `json:"created_at"`
	Note            string                `json:"note"`
	Gateway         string                `json:"gateway"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	SubtotalPrice   decimal.Decimal       `json:"subtotal_price"`
	ShippingAddress *WebhookAddress       `json:"shipping_address"`
	BillingAddress  *WebhookAddress       `json:"billing_address"`
	ShippingLines   []WebhookShippingLine `json:"shipping_lines"`
	LineItems       []WebhookLineItem     `json:"line_items" binding:"required,min=1,dive"`
}

// WebhookAddress is a shipping or billing address in the webhook payload
type WebhookAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// WebhookShippingLine is a shipping method line in the webhook payload
type WebhookShippingLine struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// WebhookLineItem is an order line in the webhook payload
type WebhookLineItem struct {
	SKU       string           `json:"sku" binding:"required"`
	ProductID int64            `json:"product_id"`
	Title     string           `json:"title"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal  `json:"price"`
	TaxLines  []WebhookTaxLine `json:"tax_lines"`
}

// WebhookTaxLine is a tax rate attached to an order line
type WebhookTaxLine struct {
	Rate decimal.Decimal `json:"rate"`
}

// ToCommerceOrder converts the webhook payload into a domain order
func (r *WebhookOrderRequest) ToCommerceOrder() fulfillment.CommerceOrder {
	order := fulfillment.CommerceOrder{
		ID:              r.ID,
		OrderNumber:     strconv.FormatInt(r.OrderNumber, 10),
		Email:           r.Email,
		CreatedAt:       r.CreatedAt,
		Note:            r.Note,
		Gateway:         r.Gateway,
		TotalPrice:      r.TotalPrice,
		SubtotalPrice:   r.SubtotalPrice,
		ShippingAddress: r.ShippingAddress.toDomain(),
		BillingAddress:  r.BillingAddress.toDomain(),
	}

	for _, sl := range r.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, fulfillment.CommerceShippingLine{
			Title: sl.Title,
			Price: sl.Price,
		})
	}

	for _, li := range r.LineItems {
		item := fulfillment.CommerceLineItem{
			SKU:       li.SKU,
			ProductID: li.ProductID,
			Title:     li.Title,
			Quantity:  li.Quantity,
			Price:     li.Price,
		}
		if len(li.TaxLines) > 0 {
			item.TaxRate = li.TaxLines[0].Rate
		}
		order.LineItems = append(order.LineItems, item)
	}

	return order
}

func (a *WebhookAddress) toDomain() *fulfillment.CommerceAddress {
	if a == nil {
		return nil
	}
	return &fulfillment.CommerceAddress{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Address1:    a.Address1,
		Address2:    a.Address2,
		Zip:         a.Zip,
		City:        a.City,
		CountryCode: a.CountryCode,
		Phone:       a.Phone,
	}
}

// ExportResult reports the files generated by an export run
type ExportResult struct {
	Tenant string   `json:"tenant"`
	Files  []string `json:"files"`
}

// ImportResult reports a report-import run
type ImportResult struct {
	Downloaded int `json:"downloaded"`
}
