package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/domain/repository"
)

// masterItemRepo implements repository.MasterItemRepository
type masterItemRepo struct {
	pool *pgxpool.Pool
}

// NewMasterItemRepository creates a new master item repository
func NewMasterItemRepository(pool *pgxpool.Pool) repository.MasterItemRepository {
	return &masterItemRepo{pool: pool}
}

const masterItemColumns = `id, kind, sku_code, name, description, category, base_qty, item_rate, sq_inch_rate, rate_formula, is_active, created_at, updated_at`

func (r *masterItemRepo) Create(ctx context.Context, item *entity.MasterItem) error {
	query := `
		INSERT INTO master_items (` + masterItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Kind, item.SKUCode, item.Name, item.Description, item.Category,
		item.BaseQty, item.ItemRate, item.SqInchRate, item.RateFormula, item.IsActive,
		item.CreatedAt, item.UpdatedAt)
	return err
}

// CreateBatch uses PostgreSQL COPY protocol for high-performance bulk inserts
func (r *masterItemRepo) CreateBatch(ctx context.Context, items []*entity.MasterItem) (int64, error) {
	columns := []string{"id", "kind", "sku_code", "name", "description", "category", "base_qty", "item_rate", "sq_inch_rate", "rate_formula", "is_active", "created_at", "updated_at"}

	rows := make([][]interface{}, len(items))
	for i, item := range items {
		rows[i] = []interface{}{
			item.ID, item.Kind, item.SKUCode, item.Name, item.Description, item.Category,
			item.BaseQty, item.ItemRate, item.SqInchRate, item.RateFormula, item.IsActive,
			item.CreatedAt, item.UpdatedAt,
		}
	}

	copyCount, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"master_items"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy master items: %w", err)
	}

	return copyCount, nil
}

func (r *masterItemRepo) scanItem(row pgx.Row) (*entity.MasterItem, error) {
	var item entity.MasterItem
	err := row.Scan(
		&item.ID, &item.Kind, &item.SKUCode, &item.Name, &item.Description, &item.Category,
		&item.BaseQty, &item.ItemRate, &item.SqInchRate, &item.RateFormula, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *masterItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MasterItem, error) {
	query := `SELECT ` + masterItemColumns + ` FROM master_items WHERE id = $1`
	return r.scanItem(r.pool.QueryRow(ctx, query, id))
}

func (r *masterItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.MasterItem, error) {
	query := `SELECT ` + masterItemColumns + ` FROM master_items WHERE sku_code = $1`
	return r.scanItem(r.pool.QueryRow(ctx, query, sku))
}

func (r *masterItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.MasterItem, error) {
	query := `
		SELECT ` + masterItemColumns + `
		FROM master_items
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.MasterItem
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *masterItemRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM master_items").Scan(&count)
	return count, err
}

func (r *masterItemRepo) Update(ctx context.Context, item *entity.MasterItem) error {
	query := `
		UPDATE master_items SET kind = $2, sku_code = $3, name = $4, description = $5, category = $6,
			base_qty = $7, item_rate = $8, sq_inch_rate = $9, rate_formula = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Kind, item.SKUCode, item.Name, item.Description, item.Category,
		item.BaseQty, item.ItemRate, item.SqInchRate, item.RateFormula, item.IsActive)
	return err
}

func (r *masterItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM master_items WHERE id = $1", id)
	return err
}
