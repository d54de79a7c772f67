package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/google/uuid"
)

type ProfileService struct {
	profiles  ProfileRepository
	validator *validation.Validator
	logger    logger.Logger
}

func NewProfileService(
	profiles ProfileRepository,
	validator *validation.Validator,
	log logger.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		validator: validator,
		logger:    log,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context) (*entity.BusinessProfile, error) {
	const op = "service.GetProfile"

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// UpsertProfile merges the fields present in the input over the stored
// profile. The stored id and owner are kept; they are generated only when no
// profile exists yet. Submitting the returned record again changes nothing.
func (s *ProfileService) UpsertProfile(ctx context.Context, in *entity.ProfileInput) (*entity.BusinessProfile, error) {
	const op = "service.UpsertProfile"
	log := s.logger.Ctx(ctx)

	if err := s.validator.Check(in, nil); err != nil {
		log.LogAttrs(ctx, logger.InfoLevel, "profile rejected",
			logger.String("op", op),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.profiles.Get(ctx)
	switch {
	case errors.Is(err, entity.ErrDataNotFound):
		current = &entity.BusinessProfile{}
	case err != nil:
		return nil, fmt.Errorf("%s: load current: %w", op, err)
	}

	merged := current.Merge(in)
	if merged.ID == "" {
		merged.ID = uuid.NewString()
	}
	if merged.OwnerUserID == "" {
		merged.OwnerUserID = uuid.NewString()
	}

	stored, err := s.profiles.Upsert(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("%s: upsert: %w", op, err)
	}

	log.LogAttrs(ctx, logger.InfoLevel, "profile updated",
		logger.String("op", op),
		logger.String("profile_id", stored.ID),
	)

	return stored, nil
}
