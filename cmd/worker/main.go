package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stitchworks/bomcost/config"
	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/infrastructure/persistence"
	"github.com/stitchworks/bomcost/internal/modules/costing"
	"github.com/stitchworks/bomcost/pkg/database"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("Starting recost worker with %d workers and batch size %d",
		cfg.Worker.Count, cfg.Worker.BatchSize)

	taxonomy := costing.DefaultTaxonomy()
	if cfg.App.TaxonomyPath != "" {
		var err error
		taxonomy, err = costing.LoadTaxonomy(cfg.App.TaxonomyPath)
		if err != nil {
			log.Fatalf("Failed to load taxonomy from %s: %v", cfg.App.TaxonomyPath, err)
		}
	}

	// Database connection
	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize repositories
	itemRepo := persistence.NewMasterItemRepository(pool)
	bomRepo := persistence.NewProductBOMRepository(pool)
	jobRepo := persistence.NewBatchJobRepository(pool)

	// Initialize costing engine and worker pool
	engine := costing.NewEngine(taxonomy)
	workerPool := costing.NewWorkerPool(engine, bomRepo, itemRepo, jobRepo, cfg.Worker.Count, cfg.Worker.BatchSize)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Recost worker ready. Waiting for jobs...")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			log.Println("Shutting down recost worker...")
			cancel()
			return

		case <-ticker.C:
			jobs, err := jobRepo.ListRecent(ctx, 10)
			if err != nil {
				log.Printf("Failed to list jobs: %v", err)
				continue
			}

			for _, job := range jobs {
				if job.Status != entity.JobStatusPending {
					continue
				}
				log.Printf("Found pending job: %s (%s)", job.ID, job.JobType)
				if err := workerPool.RecostAll(ctx, job.ID); err != nil {
					log.Printf("Job %s failed: %v", job.ID, err)
					jobRepo.Fail(ctx, job.ID, err.Error())
				}
			}
		}
	}
}
