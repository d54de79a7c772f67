// nolint: revive,staticcheck
// swagger:meta
package httpt

import "github.com/Sn1ff3hr/chabella/internal/entity"

// swagger:model ErrorResponse
type ErrorResponse struct {
	Message string `json:"message"`
}

// swagger:model Product
type Product entity.Product

// swagger:model ProductInput
type ProductInput entity.ProductInput

// swagger:model BusinessProfile
type BusinessProfile entity.BusinessProfile

// swagger:model ProfileInput
type ProfileInput entity.ProfileInput
