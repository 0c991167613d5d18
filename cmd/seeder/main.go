package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/stitchworks/bomcost/config"
	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/internal/domain/repository"
	"github.com/stitchworks/bomcost/internal/infrastructure/persistence"
	"github.com/stitchworks/bomcost/internal/modules/costing"
	"github.com/stitchworks/bomcost/pkg/database"
)

var (
	bomCount = flag.Int("boms", 25, "Number of sample BOM documents to generate")
	orderQty = flag.Int("order-qty", 100, "Order quantity for sample BOM documents")
)

// seedItem describes one master item to create.
type seedItem struct {
	kind       entity.ItemKind
	sku        string
	name       string
	category   string
	baseQty    float64
	itemRate   float64
	sqInchRate float64
}

var masterItems = []seedItem{
	// fabric family: priced per square inch
	{entity.ItemKindRawMaterial, "FAB-CVS-001", "Canvas 12oz Natural", "canvas", 0, 0, 0.018},
	{entity.ItemKindRawMaterial, "FAB-CTN-002", "Cotton Drill Navy", "cotton", 0, 0, 0.012},
	{entity.ItemKindRawMaterial, "FAB-FOM-003", "EVA Foam 5mm", "foam", 0, 0, 0.009},
	{entity.ItemKindRawMaterial, "FAB-PLN-004", "Polyester 600D Black", "fabric", 0, 0, 0.015},
	// accessory family: priced per pack of baseQty pieces
	{entity.ItemKindRawMaterial, "ACC-RNR-001", "Runner #8 Antique", "runner", 100, 450, 0},
	{entity.ItemKindRawMaterial, "ACC-SLD-002", "Slider #8 Black", "slider", 100, 380, 0},
	{entity.ItemKindRawMaterial, "ACC-ADJ-003", "Adjuster 25mm", "adjuster", 50, 175, 0},
	{entity.ItemKindRawMaterial, "ACC-BKL-004", "Buckel 38mm Side Release", "buckel", 50, 290, 0},
	// bulk family: priced per baseQty kilograms
	{entity.ItemKindRawMaterial, "BLK-PLS-001", "Plastic Sheet Granule", "plastic", 25, 2200, 0},
	{entity.ItemKindRawMaterial, "BLK-NWV-002", "Non Woven 80gsm Roll", "non woven", 20, 1600, 0},
	{entity.ItemKindRawMaterial, "BLK-LDC-003", "LD Cord 3mm", "ld cord", 10, 950, 0},
	// linear family: priced per baseQty meters
	{entity.ItemKindRawMaterial, "LIN-ZIP-001", "Zipper Coil #8", "zipper", 200, 3400, 0},
	{entity.ItemKindRawMaterial, "LIN-WEB-002", "Webbing 38mm PP", "webbing", 100, 1250, 0},
	{entity.ItemKindRawMaterial, "LIN-DOR-003", "Inner Dori 2mm", "inner dori", 500, 1750, 0},
	// SFG: a stitched sub-assembly consumed by finished goods
	{entity.ItemKindSFG, "SFG-PKT-001", "Front Pocket Panel", "fabric", 0, 0, 0.02},
}

func main() {
	flag.Parse()
	godotenv.Load()

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║            BOM COSTING ENGINE - DATA SEEDER                   ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	itemRepo := persistence.NewMasterItemRepository(pool)
	bomRepo := persistence.NewProductBOMRepository(pool)
	engine := costing.NewEngine(costing.DefaultTaxonomy())

	start := time.Now()

	items, err := seedMasterItems(ctx, itemRepo)
	if err != nil {
		log.Fatalf("Failed to seed master items: %v", err)
	}
	log.Printf("Created %d master items", len(items))

	created, err := seedDocuments(ctx, bomRepo, engine, items, *bomCount, *orderQty)
	if err != nil {
		log.Fatalf("Failed to seed costing documents: %v", err)
	}
	log.Printf("Created %d costing documents", created)

	log.Printf("Seeding complete in %v", time.Since(start).Round(time.Millisecond))
}

func seedMasterItems(ctx context.Context, repo repository.MasterItemRepository) (map[string]*entity.MasterItem, error) {
	log.Println("Seeding master items across all four families...")

	now := time.Now()
	bySKU := make(map[string]*entity.MasterItem, len(masterItems))
	batch := make([]*entity.MasterItem, 0, len(masterItems))
	for _, s := range masterItems {
		item := &entity.MasterItem{
			ID:         uuid.New(),
			Kind:       s.kind,
			SKUCode:    s.sku,
			Name:       s.name,
			Category:   s.category,
			BaseQty:    decimal.NewFromFloat(s.baseQty),
			ItemRate:   decimal.NewFromFloat(s.itemRate),
			SqInchRate: decimal.NewFromFloat(s.sqInchRate),
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		batch = append(batch, item)
		bySKU[s.sku] = item
	}

	if _, err := repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to copy master items: %w", err)
	}
	return bySKU, nil
}

// seedDocuments creates n duffel-bag style BOMs using the seeded items, each
// fully costed through the engine before insert.
func seedDocuments(ctx context.Context, repo repository.ProductBOMRepository, engine *costing.Engine, items map[string]*entity.MasterItem, n, qty int) (int, error) {
	log.Printf("Seeding %d sample BOM documents (order qty %d)...", n, qty)

	created := 0
	for i := 0; i < n; i++ {
		doc := &entity.ProductBOM{
			ID:          uuid.New(),
			Kind:        entity.BOMKindBOM,
			PartyName:   fmt.Sprintf("Sample Party %02d", i%10+1),
			ProductName: fmt.Sprintf("Duffel Bag 45L #%03d", i+1),
			Header: entity.CostHeader{
				Rejection:          decimal.NewFromInt(2),
				QC:                 decimal.NewFromInt(1),
				MachineMaintenance: decimal.NewFromInt(1),
				MaterialHandling:   decimal.NewFromInt(2),
				Packaging:          decimal.NewFromInt(2),
				Shipping:           decimal.NewFromInt(2),
				CompanyOverhead:    decimal.NewFromInt(3),
				IndirectExpense:    decimal.NewFromInt(2),
				B2B:                decimal.NewFromInt(5),
				D2C:                decimal.NewFromInt(12),
				Stitching:          decimal.NewFromFloat(18.5),
				Printing:           decimal.NewFromFloat(6),
				OrderQty:           decimal.NewFromInt(int64(qty)),
			},
			Components: sampleComponents(items),
			IsActive:   true,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		engine.Cost(doc)
		if err := repo.Create(ctx, doc); err != nil {
			return created, fmt.Errorf("failed to create document %s: %w", doc.ProductName, err)
		}
		created++
	}
	return created, nil
}

func sampleComponents(items map[string]*entity.MasterItem) []entity.ComponentLine {
	line := func(sku, part string, height, width, unitQty, unitGrams, panno float64) entity.ComponentLine {
		l := entity.ComponentLine{
			PartName:  part,
			Height:    decimal.NewFromFloat(height),
			Width:     decimal.NewFromFloat(width),
			Panno:     decimal.NewFromFloat(panno),
			UnitQty:   decimal.NewFromFloat(unitQty),
			UnitGrams: decimal.NewFromFloat(unitGrams),
		}
		if item, ok := items[sku]; ok {
			l.ItemID = item.ID
			l.Type = item.Kind
			costing.RefreshFromMaster(&l, item)
		}
		return l
	}

	return []entity.ComponentLine{
		line("FAB-CVS-001", "body panel", 22, 14, 2, 0, 58),
		line("FAB-CVS-001", "side gusset", 14, 9, 2, 0, 58),
		line("FAB-FOM-003", "base padding", 20, 12, 1, 0, 60),
		line("LIN-ZIP-001", "main zip", 0, 24, 1, 0, 0),
		line("ACC-RNR-001", "main zip runner", 0, 0, 2, 0, 0),
		line("ACC-SLD-002", "main zip slider", 0, 0, 2, 0, 0),
		line("LIN-WEB-002", "carry handles", 0, 40, 2, 0, 0),
		line("ACC-BKL-004", "strap buckle", 0, 0, 2, 0, 0),
		line("BLK-NWV-002", "lining", 0, 0, 1, 180, 0),
		line("BLK-LDC-003", "drawcord", 0, 0, 1, 25, 0),
	}
}
