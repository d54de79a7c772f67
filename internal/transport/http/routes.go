package httpt

import (
	"net/http"
	"slices"
	"strings"

	_ "github.com/Sn1ff3hr/chabella/docs" // for swagger

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	_readWrite = []string{http.MethodGet, http.MethodPost}
	_readOnly  = []string{http.MethodGet}

	_allMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodHead,
		http.MethodOptions,
		http.MethodConnect,
		http.MethodTrace,
	}
)

// @title           Storefront Owner API
// @version         1.0
// @description     Product catalogue and business profile management for a shop owner.
// @contact.name    API Support
// @contact.email   support@example.com
// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html
// @host            localhost:8080
// @BasePath        /api/owner
// @schemes         http https
func (h *OwnerHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	owner := h.router.Group("/api/owner")
	{
		owner.GET("/products", h.listProductsHandler)
		owner.POST("/products", h.createProductHandler)
		h.rejectOtherMethods(owner, "/products", _readWrite)

		owner.GET("/products/:asset_id", h.getProductHandler)
		h.rejectOtherMethods(owner, "/products/:asset_id", _readOnly)

		owner.GET("/profile", h.getProfileHandler)
		owner.POST("/profile", h.upsertProfileHandler)
		h.rejectOtherMethods(owner, "/profile", _readWrite)
	}

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// rejectOtherMethods answers every method missing from allowed with 405.
func (h *OwnerHandler) rejectOtherMethods(group *gin.RouterGroup, path string, allowed []string) {
	handler := h.methodNotAllowed(strings.Join(allowed, ", "))

	for _, method := range _allMethods {
		if slices.Contains(allowed, method) {
			continue
		}
		group.Handle(method, path, handler)
	}
}
