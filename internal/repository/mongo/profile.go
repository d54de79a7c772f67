package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	storage "github.com/Sn1ff3hr/chabella/pkg/storage/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const _profilesCollection = "business_profiles"

type ProfileRepository struct {
	profiles *mongo.Collection
}

func NewProfileRepository(db *storage.Mongo) *ProfileRepository {
	return &ProfileRepository{
		profiles: db.Collection(_profilesCollection),
	}
}

func (r *ProfileRepository) Get(ctx context.Context) (*entity.BusinessProfile, error) {
	const op = "repository.mongo.profile.Get"

	var profile entity.BusinessProfile
	if err := r.profiles.FindOne(ctx, bson.M{}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	return &profile, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *entity.BusinessProfile) (*entity.BusinessProfile, error) {
	const op = "repository.mongo.profile.Upsert"

	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored entity.BusinessProfile
	err := r.profiles.FindOneAndReplace(ctx, bson.M{"_id": profile.ID}, profile, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("%s: replace: %w", op, err)
	}

	return &stored, nil
}

// Seed stores profile only when the collection is empty.
func (r *ProfileRepository) Seed(ctx context.Context, profile *entity.BusinessProfile) error {
	const op = "repository.mongo.profile.Seed"

	if profile == nil {
		return nil
	}

	count, err := r.profiles.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("%s: count: %w", op, err)
	}
	if count > 0 {
		return nil
	}

	if _, err = r.profiles.InsertOne(ctx, profile); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: insert: %w", op, err)
	}
	return nil
}
