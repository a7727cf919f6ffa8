package service

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Shipping methods offered at checkout.
const (
	ShippingColissimo    = "colissimo"
	ShippingMondialRelay = "mondialrelay"
	ShippingRetrait      = "retrait"
)

var ErrUnknownShippingMethod = errors.New("unknown shipping method")

var (
	standardShippingRate = decimal.RequireFromString("4.99")
	// free Mondial Relay delivery from this subtotal; the Colissimo carrier
	// rate is charged regardless of basket size
	freeShippingThreshold = decimal.RequireFromString("25.00")
)

// ShippingQuote returns the delivery cost for a cart subtotal. "retrait"
// (in-store pickup) is always free.
func ShippingQuote(method string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch method {
	case ShippingRetrait:
		return decimal.Zero, nil
	case ShippingColissimo:
		return standardShippingRate, nil
	case ShippingMondialRelay:
		if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
			return decimal.Zero, nil
		}
		return standardShippingRate, nil
	default:
		return decimal.Zero, ErrUnknownShippingMethod
	}
}
