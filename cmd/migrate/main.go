package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/stitchworks/bomcost/config"
	"github.com/stitchworks/bomcost/pkg/database"
)

// migrator applies plain-SQL migration files from the migrations directory,
// tracking applied versions in schema_migrations.
type migrator struct {
	pool *pgxpool.Pool
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands: up, down, status")
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	m := &migrator{pool: pool}
	if err := m.ensureTable(ctx); err != nil {
		log.Fatalf("Failed to create migrations table: %v", err)
	}

	switch os.Args[1] {
	case "up":
		err = m.up(ctx)
	case "down":
		err = m.down(ctx)
	case "status":
		err = m.status(ctx)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (m *migrator) up(ctx context.Context) error {
	files, err := filepath.Glob("migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		version := versionOf(file)
		if m.applied(ctx, version) {
			log.Printf("Skipping %s (already applied)", version)
			continue
		}
		if err := m.apply(ctx, file, version); err != nil {
			return err
		}
	}
	return nil
}

func (m *migrator) apply(ctx context.Context, file, version string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	log.Printf("Applying %s...", version)
	if _, err := m.pool.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to apply %s: %w", file, err)
	}
	if _, err := m.pool.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	log.Printf("Applied %s successfully", version)
	return nil
}

// down rolls back only the latest applied migration.
func (m *migrator) down(ctx context.Context) error {
	files, err := filepath.Glob("migrations/*.down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if len(files) == 0 {
		log.Println("No migrations to rollback")
		return nil
	}

	file := files[0]
	version := versionOf(file)
	if !m.applied(ctx, version) {
		log.Printf("Migration %s is not applied", version)
		return nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	log.Printf("Rolling back %s...", version)
	if _, err := m.pool.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to rollback %s: %w", file, err)
	}
	if _, err := m.pool.Exec(ctx, "DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", version, err)
	}
	log.Printf("Rolled back %s successfully", version)
	return nil
}

func (m *migrator) status(ctx context.Context) error {
	files, err := filepath.Glob("migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	fmt.Println("Migration Status:")
	fmt.Println("=================")
	for _, file := range files {
		version := versionOf(file)
		status := "PENDING"
		if m.applied(ctx, version) {
			status = "APPLIED"
		}
		fmt.Printf("[%s] %s\n", status, version)
	}
	return nil
}

func (m *migrator) applied(ctx context.Context, version string) bool {
	var count int
	err := m.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version).Scan(&count)
	return err == nil && count > 0
}

func versionOf(filename string) string {
	base := filepath.Base(filename)
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}
