package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const _moneyPlaces = 2

type Product struct {
	ID                string    `json:"id"                 bson:"_id"                  yaml:"id"`
	AssetID           string    `json:"assetId"            bson:"asset_id"             yaml:"assetId"`
	ProductName       string    `json:"productName"        bson:"product_name"         yaml:"productName"`
	Description       string    `json:"description"        bson:"description"          yaml:"description"`
	Price             float64   `json:"price"              bson:"price"                yaml:"price"`
	QuantityAvailable int       `json:"quantityAvailable"  bson:"quantity_available"   yaml:"quantityAvailable"`
	TaxName           *string   `json:"taxName,omitempty"  bson:"tax_name,omitempty"   yaml:"taxName,omitempty"`
	TaxRate           *float64  `json:"taxRate,omitempty"  bson:"tax_rate,omitempty"   yaml:"taxRate,omitempty"`
	PhotoURL          *string   `json:"photoUrl,omitempty" bson:"photo_url,omitempty"  yaml:"photoUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"          bson:"created_at"           yaml:"createdAt"`
}

// ProductInput is the body of a product create request. Pointers separate
// absent fields from zero values; field order is the order rules are checked in.
// Price and quantity bounds are those of NUMERIC(12,2) and INTEGER, so every
// backend stores what the rules accept.
type ProductInput struct {
	ProductName       *string  `json:"productName"       validate:"required,notblank,max=255"`
	Price             *float64 `json:"price"             validate:"required,gt=0,lte=9999999999.99"`
	QuantityAvailable *float64 `json:"quantityAvailable" validate:"required,gte=0,lte=2147483647,wholenumber"`
	Description       *string  `json:"description"`
	TaxName           *string  `json:"taxName"           validate:"omitempty,max=100"`
	TaxRate           *float64 `json:"taxRate"           validate:"omitempty,gte=0,lte=100"`
	PhotoURL          *string  `json:"photoUrl"          validate:"omitempty,max=2048,url"`
}

// Normalize drops empty optional strings so they are neither validated nor stored.
func (in *ProductInput) Normalize() {
	if in.TaxName != nil && *in.TaxName == "" {
		in.TaxName = nil
	}
	if in.PhotoURL != nil && *in.PhotoURL == "" {
		in.PhotoURL = nil
	}
}

func (in *ProductInput) FieldMessage(field, _ string) string {
	switch field {
	case "productName":
		return "Product name is required and must be a string up to 255 characters."
	case "price":
		return "Price is required and must be a positive number."
	case "quantityAvailable":
		return "Quantity available is required and must be a non-negative integer."
	case "description":
		return "Description must be a string."
	case "taxName":
		return "Tax name must be a string up to 100 characters."
	case "taxRate":
		return "Tax rate must be a number between 0 and 100."
	case "photoUrl":
		return "Photo URL must be a valid URL up to 2048 characters."
	default:
		return fmt.Sprintf("Field %s is invalid.", field)
	}
}

// NewProduct builds the stored record from a validated input.
func NewProduct(id, assetID string, in *ProductInput, createdAt time.Time) *Product {
	p := &Product{
		ID:                id,
		AssetID:           assetID,
		ProductName:       strings.TrimSpace(*in.ProductName),
		Price:             RoundMoney(*in.Price),
		QuantityAvailable: int(*in.QuantityAvailable),
		TaxName:           in.TaxName,
		PhotoURL:          in.PhotoURL,
		CreatedAt:         createdAt,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.TaxRate != nil {
		rate := RoundMoney(*in.TaxRate)
		p.TaxRate = &rate
	}
	return p
}

func FormatAssetID(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// RoundMoney rounds half away from zero to two fractional digits.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(_moneyPlaces).InexactFloat64()
}
