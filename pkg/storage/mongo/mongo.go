package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongo connects and pings the primary, retrying with jittered
// exponential backoff for cfg.ConnAttempts attempts.
func NewMongo(ctx context.Context, cfg config.Mongo, log logger.Logger) (*Mongo, error) {
	const op = "storage.mongo.NewMongo"

	if cfg.ConnAttempts <= 0 {
		return nil, fmt.Errorf("%s: invalid connAttempts: must be > 0", op)
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	var client *mongo.Client
	attempt := 0
	connect := func() error {
		attempt++
		c, err := mongo.Connect(ctx, clientOpts)
		if err != nil {
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err = c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.WithoutCancel(ctx))
			return err
		}

		client = c
		return nil
	}

	notify := func(err error, retryAfter time.Duration) {
		log.Infow("MongoDB connection attempt failed",
			"operation", op,
			"attempt", attempt,
			"retry_after", retryAfter.String(),
			"error", err,
		)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BaseRetryDelay
	b.MaxInterval = cfg.MaxRetryDelay
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.ConnAttempts-1)), ctx)
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("%s: connect after %d attempts: %w", op, attempt, err)
	}

	log.Infow("connected to MongoDB", "database", cfg.Database)

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.Database),
	}, nil
}

func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

func (m *Mongo) Close(ctx context.Context) error {
	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("storage.mongo.Close: %w", err)
	}
	return nil
}
