package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/seed"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres/transaction"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	_productsTable   = "products"
	_assetSequence   = "product_asset_seq"
	_uniqueViolation = "23505"
	_checkViolation  = "23514"
)

var _productColumns = []string{
	"id",
	"asset_id",
	"product_name",
	"description",
	"price",
	"quantity_available",
	"tax_name",
	"tax_rate",
	"photo_url",
	"created_at",
}

type ProductRepository struct {
	db        *postgres.Postgres
	txManager transaction.Manager
}

func NewProductRepository(db *postgres.Postgres, txManager transaction.Manager) *ProductRepository {
	return &ProductRepository{
		db:        db,
		txManager: txManager,
	}
}

func (r *ProductRepository) NextAssetSequence(ctx context.Context) (int64, error) {
	const op = "repository.postgres.product.NextAssetSequence"

	var seq int64
	if err := r.db.Pool.QueryRow(ctx, "SELECT nextval('"+_assetSequence+"')").Scan(&seq); err != nil {
		return 0, fmt.Errorf("%s: nextval: %w", op, err)
	}
	return seq, nil
}

func (r *ProductRepository) Upsert(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	const op = "repository.postgres.product.Upsert"

	query := r.db.Builder.Insert(_productsTable).
		Columns(_productColumns...).
		Values(
			product.ID,
			product.AssetID,
			product.ProductName,
			product.Description,
			product.Price,
			product.QuantityAvailable,
			product.TaxName,
			product.TaxRate,
			product.PhotoURL,
			product.CreatedAt,
		).
		Suffix(`ON CONFLICT (asset_id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			quantity_available = EXCLUDED.quantity_available,
			tax_name = EXCLUDED.tax_name,
			tax_rate = EXCLUDED.tax_rate,
			photo_url = EXCLUDED.photo_url
		RETURNING ` + strings.Join(_productColumns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var result *entity.Product
	err = r.txManager.ExecuteInTransaction(ctx, "UpsertProduct", func(tx postgres.QueryExecuter) error {
		var scanErr error
		result, scanErr = scanProduct(tx.QueryRow(ctx, sql, args...))
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}

func (r *ProductRepository) Get(ctx context.Context, assetID string) (*entity.Product, error) {
	const op = "repository.postgres.product.Get"

	query := r.db.Builder.Select(_productColumns...).
		From(_productsTable).
		Where(squirrel.Eq{"asset_id": assetID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	product, err := scanProduct(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	const op = "repository.postgres.product.List"

	query := r.db.Builder.Select(_productColumns...).
		From(_productsTable).
		OrderBy("created_at", "asset_id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, err)
	}

	return products, nil
}

// Seed inserts the seed products that are missing and moves the asset
// sequence past them. Existing rows are left untouched.
func (r *ProductRepository) Seed(ctx context.Context, data *seed.Data) error {
	const op = "repository.postgres.product.Seed"

	if len(data.Products) == 0 {
		return nil
	}

	query := r.db.Builder.Insert(_productsTable).Columns(_productColumns...)
	for _, p := range data.Products {
		query = query.Values(
			p.ID,
			p.AssetID,
			p.ProductName,
			p.Description,
			p.Price,
			p.QuantityAvailable,
			p.TaxName,
			p.TaxRate,
			p.PhotoURL,
			p.CreatedAt,
		)
	}
	query = query.Suffix("ON CONFLICT DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	err = r.txManager.ExecuteInTransaction(ctx, "SeedProducts", func(tx postgres.QueryExecuter) error {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}

		_, err := tx.Exec(ctx,
			"SELECT setval('"+_assetSequence+"', GREATEST((SELECT last_value FROM "+_assetSequence+"), $1))",
			data.LastSequence(),
		)
		if err != nil {
			return fmt.Errorf("advance sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	err := row.Scan(
		&p.ID,
		&p.AssetID,
		&p.ProductName,
		&p.Description,
		&p.Price,
		&p.QuantityAvailable,
		&p.TaxName,
		&p.TaxRate,
		&p.PhotoURL,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case _uniqueViolation:
			return fmt.Errorf("%w: %s", entity.ErrConflictingData, pgErr.ConstraintName)
		case _checkViolation:
			return fmt.Errorf("%w: %s", entity.ErrInvalidData, pgErr.ConstraintName)
		}
	}
	return err
}
