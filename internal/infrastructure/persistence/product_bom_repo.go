package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/domain/repository"
)

// productBOMRepo implements repository.ProductBOMRepository
type productBOMRepo struct {
	pool *pgxpool.Pool
}

// NewProductBOMRepository creates a new costing document repository
func NewProductBOMRepository(pool *pgxpool.Pool) repository.ProductBOMRepository {
	return &productBOMRepo{pool: pool}
}

const bomColumns = `id, kind, party_name, product_name, header, components, consumption, sheet, is_active, created_at, updated_at`

func marshalBOM(bom *entity.ProductBOM) (header, components, consumption, sheet []byte, err error) {
	if header, err = json.Marshal(bom.Header); err != nil {
		return
	}
	if components, err = bom.ComponentsJSON(); err != nil {
		return
	}
	if consumption, err = bom.ConsumptionJSON(); err != nil {
		return
	}
	sheet, err = json.Marshal(bom.Sheet)
	return
}

func (r *productBOMRepo) Create(ctx context.Context, bom *entity.ProductBOM) error {
	header, components, consumption, sheet, err := marshalBOM(bom)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	query := `
		INSERT INTO product_boms (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		bom.ID, bom.Kind, bom.PartyName, bom.ProductName,
		header, components, consumption, sheet,
		bom.IsActive, bom.CreatedAt, bom.UpdatedAt)
	return err
}

func (r *productBOMRepo) scanBOM(row pgx.Row) (*entity.ProductBOM, error) {
	var bom entity.ProductBOM
	var header, components, consumption, sheet []byte
	err := row.Scan(
		&bom.ID, &bom.Kind, &bom.PartyName, &bom.ProductName,
		&header, &components, &consumption, &sheet,
		&bom.IsActive, &bom.CreatedAt, &bom.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(header, &bom.Header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	if err := json.Unmarshal(components, &bom.Components); err != nil {
		return nil, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	if err := json.Unmarshal(consumption, &bom.Consumption); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consumption: %w", err)
	}
	if err := json.Unmarshal(sheet, &bom.Sheet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sheet: %w", err)
	}
	return &bom, nil
}

func (r *productBOMRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductBOM, error) {
	query := `SELECT ` + bomColumns + ` FROM product_boms WHERE id = $1`
	return r.scanBOM(r.pool.QueryRow(ctx, query, id))
}

func (r *productBOMRepo) List(ctx context.Context, kind entity.BOMKind, limit, offset int) ([]*entity.ProductBOM, error) {
	query := `
		SELECT ` + bomColumns + `
		FROM product_boms
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, string(kind), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boms []*entity.ProductBOM
	for rows.Next() {
		bom, err := r.scanBOM(rows)
		if err != nil {
			return nil, err
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

func (r *productBOMRepo) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	query := `SELECT id FROM product_boms ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *productBOMRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM product_boms").Scan(&count)
	return count, err
}

func (r *productBOMRepo) CountByKind(ctx context.Context, kind entity.BOMKind) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM product_boms WHERE kind = $1", kind).Scan(&count)
	return count, err
}

func (r *productBOMRepo) Update(ctx context.Context, bom *entity.ProductBOM) error {
	header, components, consumption, sheet, err := marshalBOM(bom)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	query := `
		UPDATE product_boms SET kind = $2, party_name = $3, product_name = $4,
			header = $5, components = $6, consumption = $7, sheet = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
	`
	_, err = r.pool.Exec(ctx, query,
		bom.ID, bom.Kind, bom.PartyName, bom.ProductName,
		header, components, consumption, sheet, bom.IsActive)
	return err
}

// UpdateCostingBatch rewrites the computed parts of many documents at once.
// Rows are COPYed into a temp table and joined back, the same approach the
// recost worker needs to keep batch writes off the row-by-row path.
func (r *productBOMRepo) UpdateCostingBatch(ctx context.Context, boms []*entity.ProductBOM) (int64, error) {
	if len(boms) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tempTable := fmt.Sprintf("temp_recost_%d", time.Now().UnixNano())
	_, err = tx.Exec(ctx, fmt.Sprintf(`
		CREATE TEMP TABLE %s (
			id UUID,
			components JSONB,
			consumption JSONB,
			sheet JSONB,
			updated_at TIMESTAMPTZ
		) ON COMMIT DROP
	`, tempTable))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp table: %w", err)
	}

	columns := []string{"id", "components", "consumption", "sheet", "updated_at"}
	rows := make([][]interface{}, len(boms))
	for i, bom := range boms {
		_, components, consumption, sheet, err := marshalBOM(bom)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal document %s: %w", bom.ID, err)
		}
		rows[i] = []interface{}{bom.ID, components, consumption, sheet, bom.UpdatedAt}
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{tempTable}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy to temp table: %w", err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE product_boms b SET
			components = t.components,
			consumption = t.consumption,
			sheet = t.sheet,
			updated_at = t.updated_at
		FROM %s t WHERE b.id = t.id
	`, tempTable))
	if err != nil {
		return 0, fmt.Errorf("failed to update from temp table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return copyCount, nil
}

func (r *productBOMRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM product_boms WHERE id = $1", id)
	return err
}
