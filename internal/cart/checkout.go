package cart

import (
	"fmt"
	"time"
)

const _isoMillis = "2006-01-02T15:04:05.000Z07:00"

type Checkout struct {
	Product       *LineItem `json:"product"`
	TotalAmount   float64   `json:"totalAmount"`
	VATPercentage float64   `json:"vatPercentage"`
	FinalTotal    float64   `json:"finalTotal"`
	Timestamp     string    `json:"timestamp"`
}

// NewCheckout builds the checkout payload for the item. An invalid VAT
// percentage fails the checkout rather than charging the bare subtotal.
func NewCheckout(item *LineItem, vatPercent float64, now time.Time) (*Checkout, error) {
	if item == nil {
		return nil, ErrEmptyCart
	}

	total, err := ApplyVAT(item.Subtotal, vatPercent)
	if err != nil {
		return nil, fmt.Errorf("cart.NewCheckout: %w", err)
	}

	return &Checkout{
		Product:       item,
		TotalAmount:   item.Subtotal,
		VATPercentage: vatPercent,
		FinalTotal:    total,
		Timestamp:     now.UTC().Format(_isoMillis),
	}, nil
}
