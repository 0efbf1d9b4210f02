package fulfillment

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const orderDateLayout = "20060102"

// BuildOrder maps a commerce order onto the outbound schema. activityCode is
// the tenant's display name, which doubles as the 3PL activity code.
func BuildOrder(activityCode string, src *CommerceOrder) Order {
	order := Order{
		ActivityCode: activityCode,
		OrderID:      src.OrderNumber,
		OrderDate:    src.CreatedAt.Format(orderDateLayout),
		Delivery:     buildDelivery(src),
		Billing:      buildBilling(src),
		Lines:        buildLines(src),
	}

	if len(src.ShippingLines) > 0 {
		order.Transport = &TransportInfo{
			CarrierCode:  src.ShippingLines[0].Title,
			Instructions: src.Note,
		}
	}

	return order
}

func buildDelivery(src *CommerceOrder) DeliveryInfo {
	addr := src.ShippingAddress
	if addr == nil {
		addr = &CommerceAddress{}
	}
	return DeliveryInfo{
		LastName:     addr.LastName,
		FirstName:    addr.FirstName,
		AddressLine1: addr.Address1,
		AddressLine2: addr.Address2,
		PostalCode:   addr.Zip,
		City:         addr.City,
		CountryCode:  addr.CountryCode,
		Phone:        addr.Phone,
		Email:        src.Email,
	}
}

func buildBilling(src *CommerceOrder) BillingInfo {
	addr := src.BillingAddress
	if addr == nil {
		addr = &CommerceAddress{}
	}
	shippingCost := decimal.Zero
	if len(src.ShippingLines) > 0 {
		shippingCost = src.ShippingLines[0].Price
	}
	return BillingInfo{
		LastName:      addr.LastName,
		FirstName:     addr.FirstName,
		AddressLine1:  addr.Address1,
		AddressLine2:  addr.Address2,
		PostalCode:    addr.Zip,
		City:          addr.City,
		CountryCode:   addr.CountryCode,
		Phone:         addr.Phone,
		Email:         src.Email,
		PaymentMethod: src.Gateway,
		TotalExclTax:  src.SubtotalPrice,
		TotalInclTax:  src.TotalPrice,
		ShippingCost:  shippingCost,
	}
}

func buildLines(src *CommerceOrder) []LineItem {
	lines := make([]LineItem, 0, len(src.LineItems))
	for i, item := range src.LineItems {
		sku := item.SKU
		if sku == "" {
			sku = strconv.FormatInt(item.ProductID, 10)
		}
		// Unit price incl. tax is derived: excl. tax × (1 + tax rate),
		// with a zero rate when the platform reports none.
		inclTax := item.Price.Mul(decimal.NewFromInt(1).Add(item.TaxRate))
		lines = append(lines, LineItem{
			LineID:           fmt.Sprintf("%d-%d", src.ID, i),
			SKU:              sku,
			Quantity:         item.Quantity,
			UnitPriceExclTax: item.Price,
			UnitPriceInclTax: inclTax,
			Description:      item.Title,
		})
	}
	return lines
}
