package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/seed"
	storage "github.com/Sn1ff3hr/chabella/pkg/storage/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	_productsCollection = "products"
	_countersCollection = "counters"
	_assetCounterID     = "product_asset"
)

type counter struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

type ProductRepository struct {
	products *mongo.Collection
	counters *mongo.Collection
}

func NewProductRepository(db *storage.Mongo) *ProductRepository {
	return &ProductRepository{
		products: db.Collection(_productsCollection),
		counters: db.Collection(_countersCollection),
	}
}

// EnsureIndexes creates the unique asset id index lookups and upserts rely on.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "asset_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "asset_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("repository.mongo.product.EnsureIndexes: %w", err)
	}
	return nil
}

func (r *ProductRepository) NextAssetSequence(ctx context.Context) (int64, error) {
	const op = "repository.mongo.product.NextAssetSequence"

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": _assetCounterID},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("%s: increment counter: %w", op, err)
	}

	return c.Value, nil
}

func (r *ProductRepository) Upsert(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	const op = "repository.mongo.product.Upsert"

	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored entity.Product
	err := r.products.FindOneAndReplace(ctx, bson.M{"asset_id": product.AssetID}, product, opts).Decode(&stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrConflictingData)
		}
		return nil, fmt.Errorf("%s: replace: %w", op, err)
	}

	stored.CreatedAt = stored.CreatedAt.UTC()
	return &stored, nil
}

func (r *ProductRepository) Get(ctx context.Context, assetID string) (*entity.Product, error) {
	const op = "repository.mongo.product.Get"

	var product entity.Product
	err := r.products.FindOne(ctx, bson.M{"asset_id": assetID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	product.CreatedAt = product.CreatedAt.UTC()
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	const op = "repository.mongo.product.List"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "asset_id", Value: 1}})

	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cursor.Close(ctx)

	products := make([]*entity.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	for _, p := range products {
		p.CreatedAt = p.CreatedAt.UTC()
	}
	return products, nil
}

// Seed inserts the missing seed products and raises the asset counter to at
// least the seeded sequence.
func (r *ProductRepository) Seed(ctx context.Context, data *seed.Data) error {
	const op = "repository.mongo.product.Seed"

	for _, p := range data.Products {
		_, err := r.products.UpdateOne(ctx,
			bson.M{"asset_id": p.AssetID},
			bson.M{"$setOnInsert": p},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, p.AssetID, err)
		}
	}

	_, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": _assetCounterID},
		bson.M{"$max": bson.M{"value": data.LastSequence()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: advance counter: %w", op, err)
	}

	return nil
}
