package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/repository/memory"
	"github.com/Sn1ff3hr/chabella/internal/seed"
	"github.com/Sn1ff3hr/chabella/internal/service"
	mock_service "github.com/Sn1ff3hr/chabella/internal/service/mock"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/cache"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func newProductCache(t *testing.T) *cache.LRUCache[string, *entity.Product] {
	t.Helper()

	c, err := cache.NewLRUCache[string, *entity.Product]("products", 16, logger.NewNop(), metric.NewFactory().Cache())
	require.NoError(t, err)
	return c
}

func fakeProductInput() *entity.ProductInput {
	return &entity.ProductInput{
		ProductName:       ptr(gofakeit.ProductName()),
		Price:             ptr(gofakeit.Price(1, 500)),
		QuantityAvailable: ptr(float64(gofakeit.Number(0, 100))),
		Description:       ptr(gofakeit.ProductDescription()),
	}
}

func returnStored(_ context.Context, p *entity.Product) (*entity.Product, error) {
	return p, nil
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		desc     string
		input    *entity.ProductInput
		mocks    func(repo *mock_service.MockProductRepository, pub *mock_service.MockLogPublisher)
		check    func(t *testing.T, p *entity.Product)
		firstErr string
	}{
		{
			desc: "WidgetGetsNextAssetID",
			input: &entity.ProductInput{
				ProductName:       ptr("Widget"),
				Price:             ptr(5.0),
				QuantityAvailable: ptr(2.0),
			},
			mocks: func(repo *mock_service.MockProductRepository, pub *mock_service.MockLogPublisher) {
				repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(3), nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(returnStored)
				pub.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *entity.ProductLogEntry) error {
						assert.Equal(t, "MARXIA-0003", e.AssetID)
						assert.Equal(t, _fixedNow, e.CreatedAt)
						return nil
					})
			},
			check: func(t *testing.T, p *entity.Product) {
				assert.Equal(t, "MARXIA-0003", p.AssetID)
				assert.Equal(t, "Widget", p.ProductName)
				assert.Equal(t, 5.0, p.Price)
				assert.Equal(t, 2, p.QuantityAvailable)
				assert.Equal(t, "", p.Description)
				assert.Nil(t, p.TaxName)
				assert.Nil(t, p.TaxRate)
				assert.Nil(t, p.PhotoURL)
				assert.NotEmpty(t, p.ID)
				assert.Equal(t, _fixedNow, p.CreatedAt)
			},
		},
		{
			desc: "PriceAndTaxRateRoundedZeroRateKept",
			input: &entity.ProductInput{
				ProductName:       ptr("  Lamp  "),
				Price:             ptr(19.999),
				QuantityAvailable: ptr(1.0),
				TaxName:           ptr(""),
				TaxRate:           ptr(0.0),
				PhotoURL:          ptr(""),
			},
			mocks: func(repo *mock_service.MockProductRepository, pub *mock_service.MockLogPublisher) {
				repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(12), nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(returnStored)
				pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *entity.Product) {
				assert.Equal(t, "MARXIA-0012", p.AssetID)
				assert.Equal(t, "Lamp", p.ProductName)
				assert.Equal(t, 20.0, p.Price)
				require.NotNil(t, p.TaxRate)
				assert.Equal(t, 0.0, *p.TaxRate)
				assert.Nil(t, p.TaxName)
				assert.Nil(t, p.PhotoURL)
			},
		},
		{
			desc: "PublisherFailureDoesNotFailCreate",
			input: fakeProductInput(),
			mocks: func(repo *mock_service.MockProductRepository, pub *mock_service.MockLogPublisher) {
				repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(4), nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(returnStored)
				pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("queue full"))
			},
			check: func(t *testing.T, p *entity.Product) {
				assert.Equal(t, "MARXIA-0004", p.AssetID)
			},
		},
		{
			desc:     "EmptyNameRejectedWithoutMutation",
			input:    &entity.ProductInput{ProductName: ptr(""), Price: ptr(5.0), QuantityAvailable: ptr(2.0)},
			mocks:    func(*mock_service.MockProductRepository, *mock_service.MockLogPublisher) {},
			firstErr: "Product name is required and must be a string up to 255 characters.",
		},
		{
			desc:     "FirstFailingRuleReported",
			input:    &entity.ProductInput{ProductName: ptr("Widget"), Price: ptr(-1.0), QuantityAvailable: ptr(1.5)},
			mocks:    func(*mock_service.MockProductRepository, *mock_service.MockLogPublisher) {},
			firstErr: "Price is required and must be a positive number.",
		},
		{
			desc:     "FractionalQuantityRejected",
			input:    &entity.ProductInput{ProductName: ptr("Widget"), Price: ptr(1.0), QuantityAvailable: ptr(1.5)},
			mocks:    func(*mock_service.MockProductRepository, *mock_service.MockLogPublisher) {},
			firstErr: "Quantity available is required and must be a non-negative integer.",
		},
		{
			desc: "TaxRateOutOfRange",
			input: &entity.ProductInput{
				ProductName: ptr("Widget"), Price: ptr(1.0), QuantityAvailable: ptr(1.0), TaxRate: ptr(101.0),
			},
			mocks:    func(*mock_service.MockProductRepository, *mock_service.MockLogPublisher) {},
			firstErr: "Tax rate must be a number between 0 and 100.",
		},
		{
			desc: "InvalidPhotoURL",
			input: &entity.ProductInput{
				ProductName: ptr("Widget"), Price: ptr(1.0), QuantityAvailable: ptr(1.0), PhotoURL: ptr("not a url"),
			},
			mocks:    func(*mock_service.MockProductRepository, *mock_service.MockLogPublisher) {},
			firstErr: "Photo URL must be a valid URL up to 2048 characters.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_service.NewMockProductRepository(ctrl)
			pub := mock_service.NewMockLogPublisher(ctrl)
			tc.mocks(repo, pub)

			svc := service.NewProductService(repo, validation.New(), newProductCache(t), logger.NewNop(),
				service.WithLogPublisher(pub),
				service.WithClock(func() time.Time { return _fixedNow }),
			)

			got, err := svc.CreateProduct(ctx, tc.input)

			if tc.firstErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, entity.ErrInvalidData)

				var vErr *entity.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.firstErr, vErr.Error())
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

func TestProductService_CreateProductStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockProductRepository(ctrl)
	errDB := errors.New("connection reset")

	repo.EXPECT().NextAssetSequence(gomock.Any()).Return(int64(3), nil)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, errDB)

	svc := service.NewProductService(repo, validation.New(), newProductCache(t), logger.NewNop())

	_, err := svc.CreateProduct(context.Background(), fakeProductInput())
	assert.ErrorIs(t, err, errDB)
}

func TestProductService_WithoutPublisherStillCreates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(seed.MustLoad())

	svc := service.NewProductService(repo, validation.New(), newProductCache(t), logger.NewNop(),
		service.WithAssetPrefix("SHOP"),
	)

	created, err := svc.CreateProduct(ctx, fakeProductInput())
	require.NoError(t, err)
	assert.Equal(t, "SHOP-0003", created.AssetID)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, created, products[2])
}

func TestProductService_RejectedInputLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(seed.MustLoad())
	svc := service.NewProductService(repo, validation.New(), newProductCache(t), logger.NewNop())

	before, err := svc.ListProducts(ctx)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &entity.ProductInput{ProductName: ptr("  "), Price: ptr(5.0), QuantityAvailable: ptr(2.0)})
	require.Error(t, err)

	after, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	created, err := svc.CreateProduct(ctx, fakeProductInput())
	require.NoError(t, err)
	assert.Equal(t, "MARXIA-0003", created.AssetID)
}

func TestProductService_GetProductIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockProductRepository(ctrl)

	product := &entity.Product{AssetID: "MARXIA-0001", ProductName: "Pre-existing Gadget"}
	repo.EXPECT().Get(gomock.Any(), "MARXIA-0001").Return(product, nil).Times(1)
	repo.EXPECT().Get(gomock.Any(), "MARXIA-0404").Return(nil, entity.ErrDataNotFound).Times(2)

	svc := service.NewProductService(repo, validation.New(), newProductCache(t), logger.NewNop())

	for range 3 {
		got, err := svc.GetProduct(context.Background(), "MARXIA-0001")
		require.NoError(t, err)
		assert.Equal(t, product, got)
	}

	for range 2 {
		_, err := svc.GetProduct(context.Background(), "MARXIA-0404")
		assert.ErrorIs(t, err, entity.ErrDataNotFound)
	}
}
