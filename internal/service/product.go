package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/cache"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/google/uuid"
)

const (
	_defaultAssetPrefix = "MARXIA"
	_defaultCacheTTL    = 5 * time.Minute
)

type ProductOption func(*ProductService)

// WithLogPublisher enables the sheet log. Without it created products are
// only logged locally.
func WithLogPublisher(publisher LogPublisher) ProductOption {
	return func(s *ProductService) {
		s.publisher = publisher
	}
}

func WithAssetPrefix(prefix string) ProductOption {
	return func(s *ProductService) {
		s.assetPrefix = prefix
	}
}

func WithCacheTTL(ttl time.Duration) ProductOption {
	return func(s *ProductService) {
		s.cacheTTL = ttl
	}
}

func WithClock(now func() time.Time) ProductOption {
	return func(s *ProductService) {
		s.now = now
	}
}

type ProductService struct {
	products    ProductRepository
	validator   *validation.Validator
	cache       cache.Cache[string, *entity.Product]
	publisher   LogPublisher
	logger      logger.Logger
	assetPrefix string
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewProductService(
	products ProductRepository,
	validator *validation.Validator,
	productCache cache.Cache[string, *entity.Product],
	log logger.Logger,
	opts ...ProductOption,
) *ProductService {
	s := &ProductService{
		products:    products,
		validator:   validator,
		cache:       productCache,
		logger:      log,
		assetPrefix: _defaultAssetPrefix,
		cacheTTL:    _defaultCacheTTL,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateProduct validates the input, assigns the next asset id and stores
// the record. A rejected input leaves the store and the sequence untouched.
// The sheet log is fed after the record is stored and never delays or fails
// the create.
func (s *ProductService) CreateProduct(ctx context.Context, in *entity.ProductInput) (*entity.Product, error) {
	const op = "service.CreateProduct"
	log := s.logger.Ctx(ctx)

	startTime := time.Now()
	defer s.warnIfSlow(ctx, op, startTime)

	if err := s.validator.Check(in, nil); err != nil {
		log.LogAttrs(ctx, logger.InfoLevel, "product rejected",
			logger.String("op", op),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seq, err := s.products.NextAssetSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: next asset sequence: %w", op, err)
	}

	product := entity.NewProduct(
		uuid.NewString(),
		entity.FormatAssetID(s.assetPrefix, seq),
		in,
		s.now().UTC(),
	)

	stored, err := s.products.Upsert(ctx, product)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "product store failed",
			logger.String("op", op),
			logger.String("asset_id", product.AssetID),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: upsert: %w", op, err)
	}

	s.cache.Put(stored.AssetID, stored, s.cacheTTL)
	s.publish(ctx, stored)

	log.LogAttrs(ctx, logger.InfoLevel, "product created",
		logger.String("op", op),
		logger.String("asset_id", stored.AssetID),
		logger.String("product_name", stored.ProductName),
		logger.Duration("duration", time.Since(startTime)),
	)

	return stored, nil
}

// ListProducts returns every product in insertion order.
func (s *ProductService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	const op = "service.ListProducts"

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, assetID string) (*entity.Product, error) {
	const op = "service.GetProduct"

	product, err := s.cache.GetOrLoad(ctx, assetID, s.cacheTTL, s.products.Get)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, product *entity.Product) {
	log := s.logger.Ctx(ctx)

	if s.publisher == nil {
		log.Infow("sheet logging not configured", "asset_id", product.AssetID)
		return
	}

	if err := s.publisher.Publish(context.WithoutCancel(ctx), entity.NewProductLogEntry(product)); err != nil {
		log.Warnw("product not handed to sheet log",
			"asset_id", product.AssetID,
			"error", err,
		)
	}
}

func (s *ProductService) warnIfSlow(ctx context.Context, op string, start time.Time) {
	if duration := time.Since(start); duration > _slowOperation {
		s.logger.LogAttrs(ctx, logger.WarnLevel, "slow service operation",
			logger.String("op", op),
			logger.Duration("duration", duration),
		)
	}
}
