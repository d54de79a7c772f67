package memory

import (
	"context"
	"sync"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/seed"
)

type ProfileRepository struct {
	mu      sync.RWMutex
	profile *entity.BusinessProfile
}

func NewProfileRepository(data *seed.Data) *ProfileRepository {
	r := &ProfileRepository{}
	if data.Profile != nil {
		r.profile = data.Profile.Clone()
	}
	return r
}

func (r *ProfileRepository) Get(_ context.Context) (*entity.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.profile == nil {
		return nil, entity.ErrDataNotFound
	}
	return r.profile.Clone(), nil
}

func (r *ProfileRepository) Upsert(_ context.Context, profile *entity.BusinessProfile) (*entity.BusinessProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile = profile.Clone()
	return r.profile.Clone(), nil
}
