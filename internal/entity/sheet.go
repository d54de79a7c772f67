package entity

import (
	"time"
)

const _isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ProductLogEntry is the message handed to the product log side channel.
type ProductLogEntry struct {
	AssetID           string    `json:"asset_id"`
	ProductName       string    `json:"product_name"`
	Price             float64   `json:"price"`
	QuantityAvailable int       `json:"quantity_available"`
	CreatedAt         time.Time `json:"created_at"`
	Description       string    `json:"description"`
	TaxName           *string   `json:"tax_name,omitempty"`
	TaxRate           *float64  `json:"tax_rate,omitempty"`
	PhotoURL          *string   `json:"photo_url,omitempty"`
}

func NewProductLogEntry(p *Product) *ProductLogEntry {
	return &ProductLogEntry{
		AssetID:           p.AssetID,
		ProductName:       p.ProductName,
		Price:             p.Price,
		QuantityAvailable: p.QuantityAvailable,
		CreatedAt:         p.CreatedAt,
		Description:       p.Description,
		TaxName:           p.TaxName,
		TaxRate:           p.TaxRate,
		PhotoURL:          p.PhotoURL,
	}
}

// Row returns the spreadsheet columns: asset id, name, price, quantity,
// timestamp, description, tax name, tax rate, photo url.
func (e *ProductLogEntry) Row() []any {
	row := []any{
		e.AssetID,
		e.ProductName,
		e.Price,
		e.QuantityAvailable,
		e.CreatedAt.UTC().Format(_isoMillis),
		e.Description,
		"",
		"",
		"",
	}
	if e.TaxName != nil {
		row[6] = *e.TaxName
	}
	if e.TaxRate != nil {
		row[7] = *e.TaxRate
	}
	if e.PhotoURL != nil {
		row[8] = *e.PhotoURL
	}
	return row
}
