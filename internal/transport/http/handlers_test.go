package httpt_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/repository/memory"
	"github.com/Sn1ff3hr/chabella/internal/seed"
	"github.com/Sn1ff3hr/chabella/internal/service"
	mock_service "github.com/Sn1ff3hr/chabella/internal/service/mock"
	httpt "github.com/Sn1ff3hr/chabella/internal/transport/http"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/cache"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandler(t *testing.T, products service.ProductRepository) http.Handler {
	t.Helper()
	return newHandlerWithLogger(t, products, logger.NewNop())
}

func newHandlerWithLogger(t *testing.T, products service.ProductRepository, log logger.Logger) http.Handler {
	t.Helper()

	data := seed.MustLoad()
	if products == nil {
		products = memory.NewProductRepository(data)
	}

	metrics := metric.NewFactory()
	validator := validation.New()

	productCache, err := cache.NewLRUCache[string, *entity.Product]("products", 16, log, metrics.Cache())
	require.NoError(t, err)

	h := httpt.NewOwnerHandler(
		service.NewProductService(products, validator, productCache, log),
		service.NewProfileService(memory.NewProfileRepository(data), validator, log),
		validator,
		config.HTTP{RequestTimeout: time.Second},
		log,
		metrics.HTTP(),
	)
	return h.Engine()
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp httpt.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestCreateProduct(t *testing.T) {
	h := newHandler(t, nil)

	rec := serve(h, http.MethodPost, "/api/owner/products",
		`{"productName":"Widget","price":9.995,"quantityAvailable":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "MARXIA-0003", product.AssetID)
	assert.Equal(t, "Widget", product.ProductName)
	assert.Equal(t, "", product.Description)
	assert.InDelta(t, 10.00, product.Price, 1e-9)
	assert.Equal(t, 3, product.QuantityAvailable)
	assert.Nil(t, product.TaxName)
	assert.NotEmpty(t, product.ID)

	rec = serve(h, http.MethodGet, "/api/owner/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 3)
	assert.Equal(t, "MARXIA-0001", products[0].AssetID)
	assert.Equal(t, "MARXIA-0003", products[2].AssetID)
}

func TestCreateProduct_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "empty name",
			body:    `{"productName":"","price":5,"quantityAvailable":1}`,
			message: "Product name is required and must be a string up to 255 characters.",
		},
		{
			name:    "empty body",
			body:    "",
			message: "Product name is required and must be a string up to 255 characters.",
		},
		{
			name:    "price as string",
			body:    `{"productName":"Lamp","price":"9","quantityAvailable":1}`,
			message: "Price is required and must be a positive number.",
		},
		{
			name:    "fractional quantity",
			body:    `{"productName":"Lamp","price":9,"quantityAvailable":1.5}`,
			message: "Quantity available is required and must be a non-negative integer.",
		},
		{
			name:    "quantity above storable range",
			body:    `{"productName":"Lamp","price":9,"quantityAvailable":1e20}`,
			message: "Quantity available is required and must be a non-negative integer.",
		},
		{
			name:    "price above storable range",
			body:    `{"productName":"Lamp","price":1e10,"quantityAvailable":1}`,
			message: "Price is required and must be a positive number.",
		},
		{
			name:    "tax rate above range",
			body:    `{"productName":"Lamp","price":9,"quantityAvailable":1,"taxRate":101}`,
			message: "Tax rate must be a number between 0 and 100.",
		},
		{
			name:    "malformed json",
			body:    `{"productName":`,
			message: "Request body must be valid JSON.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, nil)

			rec := serve(h, http.MethodPost, "/api/owner/products", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))

			rec = serve(h, http.MethodGet, "/api/owner/products", "")
			var products []entity.Product
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
			assert.Len(t, products, 2)
		})
	}
}

// recordingLogger keeps the messages of every log call.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m == msg {
			n++
		}
	}
	return n
}

func (l *recordingLogger) Debugw(msg string, _ ...any) {
	l.record(msg)
}

func (l *recordingLogger) Infow(msg string, _ ...any) {
	l.record(msg)
}

func (l *recordingLogger) Warnw(msg string, _ ...any) {
	l.record(msg)
}

func (l *recordingLogger) Errorw(msg string, _ ...any) {
	l.record(msg)
}

func (l *recordingLogger) Ctx(context.Context) logger.Logger {
	return l
}

func (l *recordingLogger) With(...any) logger.Logger {
	return l
}

func (l *recordingLogger) GenerateRequestID() string {
	return "req-1"
}

func (l *recordingLogger) GetRequestID(context.Context) string {
	return ""
}

func (l *recordingLogger) WithRequestID(ctx context.Context, _ string) context.Context {
	return ctx
}

func (l *recordingLogger) LogAttrs(_ context.Context, _ logger.Level, msg string, _ ...logger.Attr) {
	l.record(msg)
}

func TestCreateProduct_LoggedOnce(t *testing.T) {
	log := &recordingLogger{}
	h := newHandlerWithLogger(t, nil, log)

	rec := serve(h, http.MethodPost, "/api/owner/products",
		`{"productName":"Widget","price":1,"quantityAvailable":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, log.count("product created"))
}

func TestCreateProduct_EmptyOptionalStrings(t *testing.T) {
	h := newHandler(t, nil)

	rec := serve(h, http.MethodPost, "/api/owner/products",
		`{"productName":"Widget","price":1,"quantityAvailable":1,"taxName":"","photoUrl":""}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MARXIA-0003", body["assetId"])
	assert.NotContains(t, body, "photoUrl")
	assert.NotContains(t, body, "taxName")
}

func TestCreateProduct_StoreRejectsData(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockProductRepository(ctrl)
	repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(3), nil)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: products_price_check", entity.ErrInvalidData))

	h := newHandler(t, repo)

	rec := serve(h, http.MethodPost, "/api/owner/products",
		`{"productName":"Widget","price":9.99,"quantityAvailable":3}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request data is invalid.", decodeMessage(t, rec))
}

func TestCreateProduct_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockProductRepository(ctrl)
	repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(0), errors.New("connection reset"))

	h := newHandler(t, repo)

	rec := serve(h, http.MethodPost, "/api/owner/products",
		`{"productName":"Widget","price":9.99,"quantityAvailable":3}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error.", decodeMessage(t, rec))
}

func TestGetProduct(t *testing.T) {
	h := newHandler(t, nil)

	rec := serve(h, http.MethodGet, "/api/owner/products/MARXIA-0002", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Another Pre-existing Item", product.ProductName)

	rec = serve(h, http.MethodGet, "/api/owner/products/MARXIA-0099", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	h := newHandler(t, nil)

	rec := serve(h, http.MethodGet, "/api/owner/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var current entity.BusinessProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Equal(t, "DB Stored Business Name", current.BusinessName)

	rec = serve(h, http.MethodPost, "/api/owner/profile",
		`{"businessName":"Corner Shop","city":"Leeds","socialMediaLinks":{"instagram":"https://instagram.com/corner","facebook":null}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated entity.BusinessProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, current.ID, updated.ID)
	assert.Equal(t, current.OwnerUserID, updated.OwnerUserID)
	assert.Equal(t, "Corner Shop", updated.BusinessName)
	assert.Equal(t, "Leeds", updated.City)
	assert.Equal(t, current.TaxID, updated.TaxID)
	assert.Equal(t, map[string]string{"instagram": "https://instagram.com/corner"}, updated.SocialMediaLinks)

	rec = serve(h, http.MethodPost, "/api/owner/profile", `{"city":"York"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Business name is required and must be a string up to 255 characters.", decodeMessage(t, rec))

	rec = serve(h, http.MethodPost, "/api/owner/profile", `{"businessName":"X","socialMediaLinks":"none"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Social media links must be an object.", decodeMessage(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	h := newHandler(t, nil)

	for _, path := range []string{"/api/owner/products", "/api/owner/profile"} {
		for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
			rec := serve(h, method, path, "")
			require.Equal(t, http.StatusMethodNotAllowed, rec.Code, method+" "+path)
			assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
			assert.Equal(t, "Method "+method+" Not Allowed", decodeMessage(t, rec))
		}
	}

	rec := serve(h, http.MethodPost, "/api/owner/products/MARXIA-0001", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestRequestTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockProductRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*entity.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	h := newHandler(t, repo)

	rec := serve(h, http.MethodGet, "/api/owner/products", "")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
