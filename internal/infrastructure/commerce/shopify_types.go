package commerce

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// Shopify Admin REST wire types. Money fields arrive as quoted decimal
// strings; decimal.Decimal unmarshals both quoted and bare numbers.

// ShopifyOrder is an order as returned by GET /orders.json
type ShopifyOrder struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	OrderNumber     int64                 `json:"order_number"`
	Email           string                `json:"email"`
	CreatedAt       time.Time             `json:"created_at"`
	Note            string                `json:"note"`
	Tags            string                `json:"tags"`
	Gateway         string                `json:"gateway"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	SubtotalPrice   decimal.Decimal       `json:"subtotal_price"`
	ShippingAddress *ShopifyAddress       `json:"shipping_address"`
	BillingAddress  *ShopifyAddress       `json:"billing_address"`
	ShippingLines   []ShopifyShippingLine `json:"shipping_lines"`
	LineItems       []ShopifyLineItem     `json:"line_items"`
}

// ShopifyAddress is a postal address block on an order
type ShopifyAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// ShopifyShippingLine is one shipping option on an order
type ShopifyShippingLine struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// ShopifyLineItem is one article line on an order
type ShopifyLineItem struct {
	ID        int64            `json:"id"`
	SKU       string           `json:"sku"`
	ProductID int64            `json:"product_id"`
	Title     string           `json:"title"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	TaxLines  []ShopifyTaxLine `json:"tax_lines"`
}

// ShopifyTaxLine is one tax entry on a line item
type ShopifyTaxLine struct {
	Title string          `json:"title"`
	Rate  decimal.Decimal `json:"rate"`
	Price decimal.Decimal `json:"price"`
}

// shopifyOrdersResponse is the envelope of GET /orders.json
type shopifyOrdersResponse struct {
	Orders []ShopifyOrder `json:"orders"`
}

// shopifyErrorResponse is Shopify's error envelope; Errors is free-form JSON
// (string, array, or object depending on the endpoint)
type shopifyErrorResponse struct {
	Errors interface{} `json:"errors"`
}

// shopifyFulfillmentRequest is the body of POST /orders/{id}/fulfillments.json
type shopifyFulfillmentRequest struct {
	Fulfillment shopifyFulfillment `json:"fulfillment"`
}

type shopifyFulfillment struct {
	TrackingNumber string `json:"tracking_number"`
	NotifyCustomer bool   `json:"notify_customer"`
}

// shopifyOrderUpdateRequest is the body of PUT /orders/{id}.json
type shopifyOrderUpdateRequest struct {
	Order shopifyOrderUpdate `json:"order"`
}

type shopifyOrderUpdate struct {
	ID   int64  `json:"id"`
	Note string `json:"note,omitempty"`
	Tags string `json:"tags,omitempty"`
}

// convertShopifyOrder maps a wire order onto the pipeline's order shape
func convertShopifyOrder(src *ShopifyOrder) fulfillment.CommerceOrder {
	// The 3PL sees the bare order number, not the display name ("#1001")
	order := fulfillment.CommerceOrder{
		ID:            src.ID,
		OrderNumber:   strconv.FormatInt(src.OrderNumber, 10),
		Email:         src.Email,
		CreatedAt:     src.CreatedAt,
		Note:          src.Note,
		Gateway:       src.Gateway,
		TotalPrice:    src.TotalPrice,
		SubtotalPrice: src.SubtotalPrice,
	}

	if src.ShippingAddress != nil {
		order.ShippingAddress = convertShopifyAddress(src.ShippingAddress)
	}
	if src.BillingAddress != nil {
		order.BillingAddress = convertShopifyAddress(src.BillingAddress)
	}

	for _, line := range src.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, fulfillment.CommerceShippingLine{
			Title: line.Title,
			Price: line.Price,
		})
	}

	for _, item := range src.LineItems {
		converted := fulfillment.CommerceLineItem{
			SKU:       item.SKU,
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if len(item.TaxLines) > 0 {
			converted.TaxRate = item.TaxLines[0].Rate
		}
		order.LineItems = append(order.LineItems, converted)
	}

	return order
}

func convertShopifyAddress(src *ShopifyAddress) *fulfillment.CommerceAddress {
	return &fulfillment.CommerceAddress{
		FirstName:   src.FirstName,
		LastName:    src.LastName,
		Address1:    src.Address1,
		Address2:    src.Address2,
		Zip:         src.Zip,
		City:        src.City,
		CountryCode: src.CountryCode,
		Phone:       src.Phone,
	}
}
