package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 9.995, want: 10.00},
		{in: 1.005, want: 1.01},
		{in: 2.344, want: 2.34},
		{in: 0.125, want: 0.13},
		{in: 49.5, want: 49.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, entity.RoundMoney(tt.in), 1e-9, "RoundMoney(%v)", tt.in)
	}
}

func TestFormatAssetID(t *testing.T) {
	assert.Equal(t, "MARXIA-0003", entity.FormatAssetID("MARXIA", 3))
	assert.Equal(t, "MARXIA-12345", entity.FormatAssetID("MARXIA", 12345))
}

func TestNewProduct(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	in := &entity.ProductInput{
		ProductName:       ptr("Widget"),
		Price:             ptr(4.999),
		QuantityAvailable: ptr(2.0),
		TaxName:           ptr(""),
		TaxRate:           ptr(0.0),
		PhotoURL:          ptr(""),
	}
	in.Normalize()

	p := entity.NewProduct("id-1", "MARXIA-0003", in, createdAt)

	assert.Equal(t, "Widget", p.ProductName)
	assert.Equal(t, "", p.Description)
	assert.InDelta(t, 5.0, p.Price, 1e-9)
	assert.Equal(t, 2, p.QuantityAvailable)
	assert.Nil(t, p.TaxName)
	assert.Nil(t, p.PhotoURL)
	require.NotNil(t, p.TaxRate)
	assert.Zero(t, *p.TaxRate)
	assert.Equal(t, createdAt, p.CreatedAt)
}

func TestProductLogEntry_Row(t *testing.T) {
	p := &entity.Product{
		AssetID:           "MARXIA-0003",
		ProductName:       "Widget",
		Price:             5,
		QuantityAvailable: 2,
		TaxRate:           ptr(20.0),
		CreatedAt:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
	}

	row := entity.NewProductLogEntry(p).Row()

	assert.Equal(t, []any{
		"MARXIA-0003", "Widget", 5.0, 2, "2024-05-01T10:00:00.000Z", "", "", 20.0, "",
	}, row)
}

func TestBusinessProfile_Merge(t *testing.T) {
	current := entity.BusinessProfile{
		ID:           "profile-1",
		OwnerUserID:  "owner-1",
		BusinessName: "Old Name",
		City:         "Leeds",
		SocialMediaLinks: map[string]string{
			"facebook": "https://facebook.com/old",
		},
	}

	t.Run("absent fields are kept", func(t *testing.T) {
		merged := current.Merge(&entity.ProfileInput{
			ID:           ptr("ignored"),
			BusinessName: ptr("New Name"),
		})

		assert.Equal(t, "profile-1", merged.ID)
		assert.Equal(t, "owner-1", merged.OwnerUserID)
		assert.Equal(t, "New Name", merged.BusinessName)
		assert.Equal(t, "Leeds", merged.City)
		assert.Equal(t, current.SocialMediaLinks, merged.SocialMediaLinks)

		merged.SocialMediaLinks["facebook"] = "changed"
		assert.Equal(t, "https://facebook.com/old", current.SocialMediaLinks["facebook"])
	})

	t.Run("links are replaced and nulls dropped", func(t *testing.T) {
		merged := current.Merge(&entity.ProfileInput{
			BusinessName: ptr("Old Name"),
			SocialMediaLinks: map[string]*string{
				"instagram": ptr("https://instagram.com/new"),
				"facebook":  nil,
			},
		})

		assert.Equal(t, map[string]string{"instagram": "https://instagram.com/new"}, merged.SocialMediaLinks)
	})

	t.Run("empty string clears a field", func(t *testing.T) {
		merged := current.Merge(&entity.ProfileInput{
			BusinessName: ptr("Old Name"),
			City:         ptr(""),
		})

		assert.Empty(t, merged.City)
	})
}

func TestValidationError(t *testing.T) {
	err := &entity.ValidationError{Fields: []entity.FieldError{
		{Field: "productName", Message: "first"},
		{Field: "price", Message: "second"},
	}}

	assert.Equal(t, "first", err.Error())
	assert.True(t, errors.Is(err, entity.ErrInvalidData))
	assert.Equal(t, entity.ErrInvalidData.Error(), (&entity.ValidationError{}).Error())
}
