package service

import (
	"context"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock_service

const _slowOperation = 200 * time.Millisecond

type (
	ProductRepository interface {
		NextAssetSequence(ctx context.Context) (int64, error)
		Upsert(ctx context.Context, product *entity.Product) (*entity.Product, error)
		Get(ctx context.Context, assetID string) (*entity.Product, error)
		List(ctx context.Context) ([]*entity.Product, error)
	}

	ProfileRepository interface {
		Get(ctx context.Context) (*entity.BusinessProfile, error)
		Upsert(ctx context.Context, profile *entity.BusinessProfile) (*entity.BusinessProfile, error)
	}

	// LogPublisher hands a created product to the sheet log side channel.
	// Implementations must not block on the spreadsheet call.
	LogPublisher interface {
		Publish(ctx context.Context, entry *entity.ProductLogEntry) error
	}
)
