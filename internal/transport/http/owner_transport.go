package httpt

import (
	"context"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/gin-gonic/gin"
)

const _defaultRequestTimeout = 2 * time.Second

type (
	ProductService interface {
		CreateProduct(ctx context.Context, in *entity.ProductInput) (*entity.Product, error)
		ListProducts(ctx context.Context) ([]*entity.Product, error)
		GetProduct(ctx context.Context, assetID string) (*entity.Product, error)
	}

	ProfileService interface {
		GetProfile(ctx context.Context) (*entity.BusinessProfile, error)
		UpsertProfile(ctx context.Context, in *entity.ProfileInput) (*entity.BusinessProfile, error)
	}
)

type OwnerHandler struct {
	products       ProductService
	profiles       ProfileService
	validator      *validation.Validator
	log            logger.Logger
	metrics        metric.HTTP
	router         *gin.Engine
	requestTimeout time.Duration
}

func NewOwnerHandler(
	products ProductService,
	profiles ProfileService,
	validator *validation.Validator,
	cfg config.HTTP,
	log logger.Logger,
	metrics metric.HTTP,
) *OwnerHandler {
	h := &OwnerHandler{
		products:       products,
		profiles:       profiles,
		validator:      validator,
		log:            log,
		metrics:        metrics,
		requestTimeout: cfg.RequestTimeout,
	}
	if h.requestTimeout <= 0 {
		h.requestTimeout = _defaultRequestTimeout
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(h.recoveryMiddleware())

	h.router = router
	h.setupRoutes()

	return h
}

func (h *OwnerHandler) Engine() *gin.Engine {
	return h.router
}
