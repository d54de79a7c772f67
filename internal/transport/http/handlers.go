package httpt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/validation"

	"github.com/gin-gonic/gin"
)

// @Summary List products
// @Description Returns every product in asset order
// @Tags Products
// @Produce json
// @Success 200 {array} httpt.Product
// @Failure 500 {object} httpt.ErrorResponse "Internal error"
// @Router /products [get]
func (h *OwnerHandler) listProductsHandler(c *gin.Context) {
	const op = "transport.listProductsHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	if products == nil {
		products = []*entity.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// @Summary Create product
// @Description Validates the product, assigns an asset id and queues a product log row
// @Tags Products
// @Accept json
// @Produce json
// @Param product body httpt.ProductInput true "Product to create"
// @Success 201 {object} httpt.Product
// @Failure 400 {object} httpt.ErrorResponse "First rejected field or malformed JSON"
// @Failure 500 {object} httpt.ErrorResponse "Internal error"
// @Router /products [post]
func (h *OwnerHandler) createProductHandler(c *gin.Context) {
	const op = "transport.createProductHandler"

	var input entity.ProductInput
	if err := h.bind(c, &input); err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	product, err := h.products.CreateProduct(ctx, &input)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// @Summary Get product
// @Description Returns a product by its asset id
// @Tags Products
// @Produce json
// @Param asset_id path string true "Asset id, e.g. MARXIA-0001"
// @Success 200 {object} httpt.Product
// @Failure 404 {object} httpt.ErrorResponse "Product not found"
// @Failure 500 {object} httpt.ErrorResponse "Internal error"
// @Router /products/{asset_id} [get]
func (h *OwnerHandler) getProductHandler(c *gin.Context) {
	const op = "transport.getProductHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	product, err := h.products.GetProduct(ctx, c.Param("asset_id"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Get business profile
// @Tags Profile
// @Produce json
// @Success 200 {object} httpt.BusinessProfile
// @Failure 500 {object} httpt.ErrorResponse "Internal error"
// @Router /profile [get]
func (h *OwnerHandler) getProfileHandler(c *gin.Context) {
	const op = "transport.getProfileHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	profile, err := h.profiles.GetProfile(ctx)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Update business profile
// @Description Merges the submitted fields over the stored profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body httpt.ProfileInput true "Fields to change"
// @Success 200 {object} httpt.BusinessProfile
// @Failure 400 {object} httpt.ErrorResponse "First rejected field or malformed JSON"
// @Failure 500 {object} httpt.ErrorResponse "Internal error"
// @Router /profile [post]
func (h *OwnerHandler) upsertProfileHandler(c *gin.Context) {
	const op = "transport.upsertProfileHandler"

	var input entity.ProfileInput
	if err := h.bind(c, &input); err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	profile, err := h.profiles.UpsertProfile(ctx, &input)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *OwnerHandler) methodNotAllowed(allow string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
			Message: fmt.Sprintf("Method %s Not Allowed", c.Request.Method),
		})
	}
}

// bind decodes the JSON body into input. An empty body decodes as an empty
// object; type mismatches are reported through the validator together with
// the rule violations of the remaining fields.
func (h *OwnerHandler) bind(c *gin.Context, input validation.Input) error {
	err := c.ShouldBindJSON(input)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return h.validator.Check(input, err)
}
