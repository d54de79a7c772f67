package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres/transaction"

	"github.com/jackc/pgx/v5"
)

const _profilesTable = "business_profiles"

var _profileColumns = []string{
	"id",
	"owner_user_id",
	"business_name",
	"tax_id",
	"registration_number",
	"address_line1",
	"address_line2",
	"city",
	"zip_code",
	"phone_number",
	"social_media_links",
}

// ProfileRepository stores the single business profile. The newest row wins
// if more than one is ever present.
type ProfileRepository struct {
	db        *postgres.Postgres
	txManager transaction.Manager
}

func NewProfileRepository(db *postgres.Postgres, txManager transaction.Manager) *ProfileRepository {
	return &ProfileRepository{
		db:        db,
		txManager: txManager,
	}
}

func (r *ProfileRepository) Get(ctx context.Context) (*entity.BusinessProfile, error) {
	const op = "repository.postgres.profile.Get"

	query := r.db.Builder.Select(_profileColumns...).
		From(_profilesTable).
		OrderBy("updated_at DESC").
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	profile, err := scanProfile(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return profile, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *entity.BusinessProfile) (*entity.BusinessProfile, error) {
	const op = "repository.postgres.profile.Upsert"

	sql, args, err := r.upsertQuery(profile, `ON CONFLICT (id) DO UPDATE SET
			owner_user_id = EXCLUDED.owner_user_id,
			business_name = EXCLUDED.business_name,
			tax_id = EXCLUDED.tax_id,
			registration_number = EXCLUDED.registration_number,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			zip_code = EXCLUDED.zip_code,
			phone_number = EXCLUDED.phone_number,
			social_media_links = EXCLUDED.social_media_links,
			updated_at = now()
		RETURNING id, owner_user_id, business_name, tax_id, registration_number,
			address_line1, address_line2, city, zip_code, phone_number, social_media_links`)
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var result *entity.BusinessProfile
	err = r.txManager.ExecuteInTransaction(ctx, "UpsertProfile", func(tx postgres.QueryExecuter) error {
		var scanErr error
		result, scanErr = scanProfile(tx.QueryRow(ctx, sql, args...))
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}

// Seed stores profile only when no profile exists yet.
func (r *ProfileRepository) Seed(ctx context.Context, profile *entity.BusinessProfile) error {
	const op = "repository.postgres.profile.Seed"

	if profile == nil {
		return nil
	}

	sql, args, err := r.upsertQuery(profile, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	err = r.txManager.ExecuteInTransaction(ctx, "SeedProfile", func(tx postgres.QueryExecuter) error {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+_profilesTable+")").Scan(&exists); err != nil {
			return fmt.Errorf("check existing profile: %w", err)
		}
		if exists {
			return nil
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ProfileRepository) upsertQuery(profile *entity.BusinessProfile, suffix string) (string, []any, error) {
	links := profile.SocialMediaLinks
	if links == nil {
		links = map[string]string{}
	}

	return r.db.Builder.Insert(_profilesTable).
		Columns(_profileColumns...).
		Values(
			profile.ID,
			profile.OwnerUserID,
			profile.BusinessName,
			profile.TaxID,
			profile.RegistrationNumber,
			profile.AddressLine1,
			profile.AddressLine2,
			profile.City,
			profile.ZipCode,
			profile.PhoneNumber,
			links,
		).
		Suffix(suffix).
		ToSql()
}

func scanProfile(row pgx.Row) (*entity.BusinessProfile, error) {
	p := &entity.BusinessProfile{}
	err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.BusinessName,
		&p.TaxID,
		&p.RegistrationNumber,
		&p.AddressLine1,
		&p.AddressLine2,
		&p.City,
		&p.ZipCode,
		&p.PhoneNumber,
		&p.SocialMediaLinks,
	)
	if err != nil {
		return nil, err
	}
	if len(p.SocialMediaLinks) == 0 {
		p.SocialMediaLinks = nil
	}
	return p, nil
}
