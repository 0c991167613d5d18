package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

// MasterItemRepository defines the interface for RM/SFG master data operations
type MasterItemRepository interface {
	// Create creates a new master item
	Create(ctx context.Context, item *entity.MasterItem) error
	// CreateBatch creates multiple master items using COPY protocol
	CreateBatch(ctx context.Context, items []*entity.MasterItem) (int64, error)
	// GetByID retrieves a master item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MasterItem, error)
	// GetBySKU retrieves a master item by SKU code
	GetBySKU(ctx context.Context, sku string) (*entity.MasterItem, error)
	// List retrieves master items with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.MasterItem, error)
	// Count returns the total count of master items
	Count(ctx context.Context) (int64, error)
	// Update updates a master item
	Update(ctx context.Context, item *entity.MasterItem) error
	// Delete deletes a master item
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductBOMRepository defines the interface for costing document operations
type ProductBOMRepository interface {
	// Create creates a new costing document
	Create(ctx context.Context, bom *entity.ProductBOM) error
	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductBOM, error)
	// List retrieves documents of one kind with pagination; an empty kind
	// lists all kinds
	List(ctx context.Context, kind entity.BOMKind, limit, offset int) ([]*entity.ProductBOM, error)
	// ListIDs retrieves document IDs with pagination (for batch recosting)
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	// Count returns the total count of documents
	Count(ctx context.Context) (int64, error)
	// CountByKind returns the count of documents of one kind
	CountByKind(ctx context.Context, kind entity.BOMKind) (int64, error)
	// Update updates a document in full
	Update(ctx context.Context, bom *entity.ProductBOM) error
	// UpdateCostingBatch rewrites components, sheet, and consumption for
	// multiple documents using a temp-table COPY upsert
	UpdateCostingBatch(ctx context.Context, boms []*entity.ProductBOM) (int64, error)
	// Delete deletes a document
	Delete(ctx context.Context, id uuid.UUID) error
}

// BatchJobRepository defines the interface for batch job operations
type BatchJobRepository interface {
	// Create creates a new batch job
	Create(ctx context.Context, job *entity.BatchJob) error
	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BatchJob, error)
	// Start marks a job as running and records the total record count
	Start(ctx context.Context, id uuid.UUID, total int64) error
	// UpdateStatus updates a job's status and progress
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, processed, failed int64) error
	// UpdateProgress updates a job's progress atomically
	UpdateProgress(ctx context.Context, id uuid.UUID, processed, failed int64) error
	// Complete marks a job as completed
	Complete(ctx context.Context, id uuid.UUID) error
	// Fail marks a job as failed
	Fail(ctx context.Context, id uuid.UUID, errorMsg string) error
	// ListRecent retrieves recent jobs
	ListRecent(ctx context.Context, limit int) ([]*entity.BatchJob, error)
}
