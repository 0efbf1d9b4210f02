package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookOrderRequest_ToCommerceOrder(t *testing.T) {
	payload := `{
		"id": 450789469,
		"name": "#1001",
		"order_number": 1001,
		"email": "buyer@example.com",
		"created_at": "2025-01-15T10:00:00Z",
		"gateway": "visa",
		"total_price": "48.00",
		"subtotal_price": "40.00",
		"shipping_address": {
			"first_name": "Jane",
			"last_name": "Doe",
			"address1": "1 Main St",
			"zip": "75001",
			"city": "Paris",
			"country_code": "FR"
		},
		"shipping_lines": [
			{"title": "Standard", "price": "5.00"}
		],
		"line_items": [
			{
				"sku": "SKU-1",
				"product_id": 7,
				"title": "Widget",
				"quantity": 2,
				"price": "20.00",
				"tax_lines": [{"rate": 0.2}]
			}
		]
	}`

	var req WebhookOrderRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	order := req.ToCommerceOrder()

	assert.Equal(t, int64(450789469), order.ID)
	assert.Equal(t, "1001", order.OrderNumber)
	assert.Equal(t, "buyer@example.com", order.Email)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), order.CreatedAt)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("48.00")))

	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "Paris", order.ShippingAddress.City)
	assert.Nil(t, order.BillingAddress)

	require.Len(t, order.ShippingLines, 1)
	assert.Equal(t, "Standard", order.ShippingLines[0].Title)

	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "SKU-1", order.LineItems[0].SKU)
	assert.Equal(t, 2, order.LineItems[0].Quantity)
	assert.True(t, order.LineItems[0].TaxRate.Equal(decimal.RequireFromString("0.2")))
}

func TestWebhookOrderRequest_ToCommerceOrder_NoTaxLines(t *testing.T) {
	req := WebhookOrderRequest{
		ID:   1,
		Name: "#1",
		LineItems: []WebhookLineItem{
			{SKU: "SKU-1", Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	}

	order := req.ToCommerceOrder()
	require.Len(t, order.LineItems, 1)
	assert.True(t, order.LineItems[0].TaxRate.IsZero())
}
