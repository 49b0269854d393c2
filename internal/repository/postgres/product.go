package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, owner_id, name, description, category_slug, daily_rate, weekly_rate, monthly_rate, fixed_deposit, delivery_fee, status, created_on, updated_on`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CategorySlug,
		&p.DailyRate, &p.WeeklyRate, &p.MonthlyRate, &p.FixedDeposit, &p.DeliveryFee,
		&p.Status, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (owner_id, name, description, category_slug, daily_rate, weekly_rate, monthly_rate, fixed_deposit, delivery_fee, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, p.OwnerID, p.Name, p.Description, p.CategorySlug,
		p.DailyRate, p.WeeklyRate, p.MonthlyRate, p.FixedDeposit, p.DeliveryFee, p.Status, now, now).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_on IS NULL`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=$1, description=$2, category_slug=$3, daily_rate=$4, weekly_rate=$5, monthly_rate=$6, fixed_deposit=$7, delivery_fee=$8, status=$9, updated_on=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.CategorySlug,
		p.DailyRate, p.WeeklyRate, p.MonthlyRate, p.FixedDeposit, p.DeliveryFee, p.Status, time.Now(), p.ID)
	return err
}

func (r *productRepository) UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error {
	query := `UPDATE products SET status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *productRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	return r.list(ctx, `deleted_on IS NULL`, nil, page, pageSize)
}

func (r *productRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	return r.list(ctx, `owner_id = $1 AND deleted_on IS NULL`, []any{ownerID}, page, pageSize)
}

func (r *productRepository) list(ctx context.Context, where string, args []any, page, pageSize int32) ([]domain.Product, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM products WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where +
		` ORDER BY created_on DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, count, rows.Err()
}
