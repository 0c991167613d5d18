package costing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/domain/repository"
)

// WorkerPool re-prices stored costing documents against current master-item
// rates with a fixed set of concurrent workers and batched writes.
type WorkerPool struct {
	engine      *Engine
	bomRepo     repository.ProductBOMRepository
	itemRepo    repository.MasterItemRepository
	jobRepo     repository.BatchJobRepository
	workerCount int
	batchSize   int
}

// NewWorkerPool creates a new recost worker pool
func NewWorkerPool(
	engine *Engine,
	bomRepo repository.ProductBOMRepository,
	itemRepo repository.MasterItemRepository,
	jobRepo repository.BatchJobRepository,
	workerCount, batchSize int,
) *WorkerPool {
	return &WorkerPool{
		engine:      engine,
		bomRepo:     bomRepo,
		itemRepo:    itemRepo,
		jobRepo:     jobRepo,
		workerCount: workerCount,
		batchSize:   batchSize,
	}
}

// RecostOne reloads one document, refreshes its lines from master data, and
// recomputes its sheet and consumption report.
func (wp *WorkerPool) RecostOne(ctx context.Context, bomID uuid.UUID) (*entity.ProductBOM, error) {
	doc, err := wp.bomRepo.GetByID(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	for i := range doc.Components {
		line := &doc.Components[i]
		if line.ItemID == uuid.Nil {
			continue
		}
		item, err := wp.itemRepo.GetByID(ctx, line.ItemID)
		if err != nil {
			// Stale item reference: keep the line's stored master fields.
			continue
		}
		RefreshFromMaster(line, item)
	}

	wp.engine.Cost(doc)
	return doc, nil
}

// RecostAll recomputes every stored costing document under the given job.
func (wp *WorkerPool) RecostAll(ctx context.Context, jobID uuid.UUID) error {
	totalCount, err := wp.bomRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	wp.jobRepo.Start(ctx, jobID, totalCount)

	idChan := make(chan uuid.UUID, wp.batchSize*2)
	resultChan := make(chan *entity.ProductBOM, wp.batchSize*2)
	errChan := make(chan error, 1)

	var processedCount int64
	var failedCount int64

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < wp.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for bomID := range idChan {
				doc, err := wp.RecostOne(ctx, bomID)
				if err != nil {
					log.Printf("Worker %d: failed to recost document %s: %v", workerID, bomID, err)
					atomic.AddInt64(&failedCount, 1)
					wp.jobRepo.UpdateProgress(ctx, jobID, 0, 1)
					continue
				}
				doc.UpdatedAt = time.Now()
				resultChan <- doc
			}
		}(i)
	}

	// Result collector writes batches back via the temp-table upsert
	var resultWg sync.WaitGroup
	resultWg.Add(1)
	go func() {
		defer resultWg.Done()
		buffer := make([]*entity.ProductBOM, 0, wp.batchSize)

		flush := func() {
			if len(buffer) == 0 {
				return
			}
			if _, err := wp.bomRepo.UpdateCostingBatch(ctx, buffer); err != nil {
				log.Printf("Failed to write recost batch: %v", err)
			}
			atomic.AddInt64(&processedCount, int64(len(buffer)))
			wp.jobRepo.UpdateProgress(ctx, jobID, int64(len(buffer)), 0)
			buffer = buffer[:0]
		}

		for doc := range resultChan {
			buffer = append(buffer, doc)
			if len(buffer) >= wp.batchSize {
				flush()
			}
		}
		flush()
	}()

	// Dispatcher pages document IDs to the workers
	go func() {
		defer close(idChan)
		offset := 0
		for {
			ids, err := wp.bomRepo.ListIDs(ctx, wp.batchSize, offset)
			if err != nil {
				errChan <- fmt.Errorf("failed to list document IDs: %w", err)
				return
			}
			if len(ids) == 0 {
				break
			}
			for _, id := range ids {
				select {
				case <-ctx.Done():
					return
				case idChan <- id:
				}
			}
			offset += len(ids)
		}
	}()

	wg.Wait()
	close(resultChan)
	resultWg.Wait()

	select {
	case err := <-errChan:
		wp.jobRepo.Fail(ctx, jobID, err.Error())
		return err
	default:
	}

	if err := wp.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	log.Printf("Recost complete: processed=%d, failed=%d, total=%d", processedCount, failedCount, totalCount)
	return nil
}
