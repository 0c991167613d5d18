package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/stitchworks/bomcost/config"
	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/domain/repository"
	"github.com/stitchworks/bomcost/internal/infrastructure/persistence"
	"github.com/stitchworks/bomcost/internal/modules/costing"
	"github.com/stitchworks/bomcost/pkg/database"
)

// costingRequest is the shared payload for cost previews and document
// create/update calls.
type costingRequest struct {
	Kind        entity.BOMKind         `json:"kind"`
	PartyName   string                 `json:"party_name"`
	ProductName string                 `json:"product_name"`
	Header      entity.CostHeader      `json:"header"`
	Components  []entity.ComponentLine `json:"components"`
}

func main() {
	godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	taxonomy := costing.DefaultTaxonomy()
	if cfg.App.TaxonomyPath != "" {
		var err error
		taxonomy, err = costing.LoadTaxonomy(cfg.App.TaxonomyPath)
		if err != nil {
			log.Fatalf("Failed to load taxonomy from %s: %v", cfg.App.TaxonomyPath, err)
		}
		log.Printf("Loaded taxonomy override from %s", cfg.App.TaxonomyPath)
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

	// Initialize costing engine and recost worker pool
	engine := costing.NewEngine(taxonomy)
	workerPool := costing.NewWorkerPool(engine, bomRepo, itemRepo, jobRepo, cfg.Worker.Count, cfg.Worker.BatchSize)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BOM Costing API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API v1 routes
	api := app.Group("/api/v1")

	// Category taxonomy
	api.Get("/taxonomy", func(c *fiber.Ctx) error {
		return c.JSON(engine.Taxonomy().Categories())
	})

	// Master item endpoints
	api.Get("/master-items", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		items, err := itemRepo.List(ctx, limit, offset)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		count, _ := itemRepo.Count(ctx)
		return c.JSON(fiber.Map{
			"data":   items,
			"total":  count,
			"limit":  limit,
			"offset": offset,
		})
	})

	api.Get("/master-items/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		item, err := itemRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(item)
	})

	api.Post("/master-items", func(c *fiber.Ctx) error {
		var item entity.MasterItem
		if err := c.BodyParser(&item); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if item.SKUCode == "" || item.Name == "" {
			return c.Status(422).JSON(fiber.Map{"error": "sku_code and name are required"})
		}
		now := time.Now()
		item.ID = uuid.New()
		item.IsActive = true
		item.CreatedAt = now
		item.UpdatedAt = now
		if err := itemRepo.Create(ctx, &item); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(item)
	})

	api.Put("/master-items/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		var item entity.MasterItem
		if err := c.BodyParser(&item); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		item.ID = id
		if err := itemRepo.Update(ctx, &item); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(item)
	})

	api.Delete("/master-items/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		if err := itemRepo.Delete(ctx, id); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// Interactive recompute: price lines, roll up, and aggregate without
	// persisting anything. Called by the editing screens on field changes.
	api.Post("/cost/preview", func(c *fiber.Ctx) error {
		var req costingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		doc := documentFromRequest(&req)
		hydrateLines(ctx, itemRepo, doc.Components)
		engine.Cost(doc)
		return c.JSON(fiber.Map{
			"components":  doc.Components,
			"sheet":       doc.Sheet.Rounded(),
			"consumption": doc.Consumption,
		})
	})

	// Costing document endpoints (BOM / SFG / quotation)
	api.Post("/boms", func(c *fiber.Ctx) error {
		var req costingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if msg := validateRequest(&req); msg != "" {
			return c.Status(422).JSON(fiber.Map{"error": msg})
		}
		doc := documentFromRequest(&req)
		hydrateLines(ctx, itemRepo, doc.Components)
		engine.Cost(doc)

		now := time.Now()
		doc.ID = uuid.New()
		doc.IsActive = true
		doc.CreatedAt = now
		doc.UpdatedAt = now
		if err := bomRepo.Create(ctx, doc); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(doc)
	})

	api.Get("/boms", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		kind := entity.BOMKind(c.Query("kind"))
		boms, err := bomRepo.List(ctx, kind, limit, offset)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		count, _ := bomRepo.Count(ctx)
		return c.JSON(fiber.Map{
			"data":   boms,
			"total":  count,
			"limit":  limit,
			"offset": offset,
		})
	})

	api.Get("/boms/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		doc, err := bomRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(doc)
	})

	api.Put("/boms/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		existing, err := bomRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		var req costingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if msg := validateRequest(&req); msg != "" {
			return c.Status(422).JSON(fiber.Map{"error": msg})
		}
		doc := documentFromRequest(&req)
		hydrateLines(ctx, itemRepo, doc.Components)
		engine.Cost(doc)

		doc.ID = existing.ID
		doc.IsActive = existing.IsActive
		doc.CreatedAt = existing.CreatedAt
		doc.UpdatedAt = time.Now()
		if err := bomRepo.Update(ctx, doc); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(doc)
	})

	api.Delete("/boms/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		if err := bomRepo.Delete(ctx, id); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	api.Get("/boms/:id/consumption", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		doc, err := bomRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(fiber.Map{"data": doc.Consumption})
	})

	// Recost endpoints
	api.Post("/recost/all", func(c *fiber.Ctx) error {
		job := &entity.BatchJob{
			ID:        uuid.New(),
			JobType:   entity.JobTypeRecostAll,
			Status:    entity.JobStatusPending,
			CreatedAt: time.Now(),
		}
		if err := jobRepo.Create(ctx, job); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		go func() {
			if err := workerPool.RecostAll(context.Background(), job.ID); err != nil {
				log.Printf("Recost failed: %v", err)
			}
		}()

		return c.Status(202).JSON(fiber.Map{
			"job_id":  job.ID,
			"message": "Recost started",
			"status":  job.Status,
		})
	})

	// Job status endpoints
	api.Get("/jobs", func(c *fiber.Ctx) error {
		jobs, err := jobRepo.ListRecent(ctx, 20)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"data": jobs})
	})

	api.Get("/jobs/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		job, err := jobRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(fiber.Map{
			"job":      job,
			"progress": job.Progress(),
		})
	})

	// Stats endpoint
	api.Get("/stats", func(c *fiber.Ctx) error {
		itemCount, _ := itemRepo.Count(ctx)
		bomCount, _ := bomRepo.CountByKind(ctx, entity.BOMKindBOM)
		sfgCount, _ := bomRepo.CountByKind(ctx, entity.BOMKindSFG)
		quoteCount, _ := bomRepo.CountByKind(ctx, entity.BOMKindQuotation)
		return c.JSON(fiber.Map{
			"master_items": itemCount,
			"boms":         bomCount,
			"sfgs":         sfgCount,
			"quotations":   quoteCount,
			"timestamp":    time.Now().Format(time.RFC3339),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		app.Shutdown()
	}()

	// Start server
	log.Printf("Starting API server on :%s", cfg.App.Port)
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func documentFromRequest(req *costingRequest) *entity.ProductBOM {
	kind := req.Kind
	if kind == "" {
		kind = entity.BOMKindBOM
	}
	return &entity.ProductBOM{
		Kind:        kind,
		PartyName:   req.PartyName,
		ProductName: req.ProductName,
		Header:      req.Header,
		Components:  req.Components,
	}
}

// validateRequest enforces the submit-time header rules. Missing physical
// inputs on component lines are not errors: the engine degrades them to
// unresolved rates instead.
func validateRequest(req *costingRequest) string {
	if req.ProductName == "" {
		return "product_name is required"
	}
	switch req.Kind {
	case entity.BOMKindSFG:
		// SFGs have no customer party and no order quantity requirement.
	default:
		if req.PartyName == "" {
			return "party_name is required"
		}
		if !req.Header.OrderQty.IsPositive() {
			return "order_qty must be positive"
		}
	}
	return ""
}

// hydrateLines fills each line's priceable fields from master data when the
// line references a master item. Lines without a reference, or whose item is
// gone, keep the fields they came with.
func hydrateLines(ctx context.Context, itemRepo repository.MasterItemRepository, lines []entity.ComponentLine) {
	for i := range lines {
		if lines[i].ItemID == uuid.Nil {
			continue
		}
		item, err := itemRepo.GetByID(ctx, lines[i].ItemID)
		if err != nil {
			continue
		}
		costing.RefreshFromMaster(&lines[i], item)
	}
}
