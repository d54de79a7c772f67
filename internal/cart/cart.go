// Package cart holds the single-item shopping cart: the line item, VAT and
// checkout arithmetic, and the local key/value storage the item lives in.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// StorageKey is the local storage key the cart item is kept under.
const StorageKey = "marxiaCartProduct"

const _moneyPlaces = 2

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidItem = errors.New("fill in all required product details and ensure price is positive")
	ErrInvalidVAT  = errors.New("VAT percentage must be a non-negative number")
)

type LineItem struct {
	Name        string  `json:"name"`
	AssetID     string  `json:"assetId"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Subtotal    float64 `json:"subtotal"`
}

// NewLineItem builds an item with subtotal = price × quantity.
func NewLineItem(name, assetID string, price float64, quantity int, description string) (*LineItem, error) {
	const op = "cart.NewLineItem"

	switch {
	case strings.TrimSpace(name) == "",
		strings.TrimSpace(assetID) == "",
		math.IsNaN(price) || price <= 0:
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidItem)
	case quantity < 1:
		return nil, fmt.Errorf("%s: quantity must be at least 1: %w", op, ErrInvalidItem)
	}

	return &LineItem{
		Name:        name,
		AssetID:     assetID,
		Price:       price,
		Quantity:    quantity,
		Description: description,
		Subtotal:    subtotal(price, quantity),
	}, nil
}

func subtotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

// ApplyVAT returns subtotal × (1 + percent/100) rounded to cents. A negative
// or NaN percent is rejected and the subtotal itself is returned as the total.
func ApplyVAT(subtotal, percent float64) (float64, error) {
	base := decimal.NewFromFloat(subtotal)

	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 {
		return base.Round(_moneyPlaces).InexactFloat64(), fmt.Errorf("cart.ApplyVAT: %v: %w", percent, ErrInvalidVAT)
	}

	vat := base.Mul(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))
	return base.Add(vat).Round(_moneyPlaces).InexactFloat64(), nil
}

// Cart keeps at most one line item in a Store.
type Cart struct {
	store Store
}

func New(store Store) *Cart {
	return &Cart{store: store}
}

// Add stores item, replacing whatever was in the cart.
func (c *Cart) Add(item *LineItem) error {
	const op = "cart.Add"

	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%s: marshal item: %w", op, err)
	}
	if err = c.store.SetItem(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Cart) Item() (*LineItem, error) {
	const op = "cart.Item"

	raw, ok, err := c.store.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrEmptyCart
	}

	var item LineItem
	if err = json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("%s: decode stored item: %w", op, err)
	}
	return &item, nil
}

func (c *Cart) Clear() error {
	if err := c.store.RemoveItem(StorageKey); err != nil {
		return fmt.Errorf("cart.Clear: %w", err)
	}
	return nil
}
