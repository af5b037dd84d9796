package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"arbor/internal/authz"
	"arbor/internal/config"
	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/repository/postgres"
	"arbor/internal/service/foldertree"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Fixed IDs so repeated seed runs stay idempotent for the demo tenant.
var (
	demoTenantID = "4f1c2a58-0000-4000-8000-000000000001"
	demoAdminID  = "4f1c2a58-0000-4000-8000-000000000002"
	demoMemberID = "4f1c2a58-0000-4000-8000-000000000003"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearData := flag.Bool("clear-data", false, "Clear all folders, templates and placements (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Clear existing demo data so the seed is repeatable
	log.Println("Clearing existing demo tenant data...")
	if err := clearTenantData(ctx, pool, tables, demoTenantID); err != nil {
		if *clearData {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("Warning: Could not clear data: %v", err)
	}

	// Exit early if clear-data mode
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	placementRepo := postgres.NewPlacementRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	registry, err := authz.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	authorizer := foldertree.NewTreeAuthorizer(registry)
	paths := foldertree.NewPathMaterializer(folderRepo)
	cycles := foldertree.NewCycleGuard(folderRepo)
	folderService := foldertree.NewFolderService(folderRepo, paths, cycles, txManager, authorizer, logger)

	admin := models.Actor{UserID: demoAdminID, TenantID: demoTenantID, Role: "admin"}

	// Seed the folder structure through the service layer so slugs and
	// paths get materialized exactly like production traffic
	log.Println("Seeding folder tree...")
	folderIDs := make(map[string]string)
	for _, f := range seedFolders() {
		var parentID *string
		if f.parent != "" {
			id, ok := folderIDs[f.parent]
			if !ok {
				log.Printf("Skipping folder '%s': parent '%s' was not created", f.name, f.parent)
				continue
			}
			parentID = &id
		}

		folder, err := folderService.Create(ctx, admin, &services.CreateFolderRequest{
			Name:     f.name,
			ParentID: parentID,
			Color:    f.color,
			Icon:     f.icon,
		})
		if err != nil {
			log.Printf("Failed to create folder '%s': %v", f.name, err)
			continue
		}

		folderIDs[f.name] = folder.ID
		log.Printf("Created folder %s (path: %s)", folder.Name, folder.Path)
	}

	// Seed templates directly; there is no template authoring surface here
	log.Println("Seeding templates...")
	templateIDs := make(map[string]string)
	for _, t := range seedTemplates() {
		var folderID *string
		if t.folder != "" {
			id, ok := folderIDs[t.folder]
			if !ok {
				log.Printf("Skipping template '%s': folder '%s' was not created", t.name, t.folder)
				continue
			}
			folderID = &id
		}

		id := uuid.NewString()
		query := `
			INSERT INTO ` + tables.Templates + ` (id, tenant_id, folder_id, owner_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`
		if _, err := pool.Exec(ctx, query, id, demoTenantID, folderID, t.owner, t.name, time.Now()); err != nil {
			log.Printf("Failed to create template '%s': %v", t.name, err)
			continue
		}

		templateIDs[t.name] = id
		log.Printf("Created template %s", t.name)
	}

	// A sample personal placement: the member files a shared template
	// under a different folder in their own view
	if tplID, ok := templateIDs["Incident Report"]; ok {
		if folderID, ok := folderIDs["Operations"]; ok {
			now := time.Now()
			placement := &models.PersonalPlacement{
				UserID:           demoMemberID,
				TenantID:         demoTenantID,
				ItemKind:         models.ItemKindTemplate,
				ItemID:           tplID,
				PersonalFolderID: &folderID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := placementRepo.Upsert(ctx, placement); err != nil {
				log.Printf("Failed to create demo placement: %v", err)
			} else {
				log.Println("Created demo personal placement")
			}
		}
	}

	log.Println("Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create folders table. tenant_id is NULL for shared system folders.
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			tenant_id UUID,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			path TEXT NOT NULL,
			color TEXT,
			icon TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	// Create templates table
	createTemplates := `
		CREATE TABLE IF NOT EXISTS ` + tables.Templates + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			tenant_id UUID NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTemplates); err != nil {
		return err
	}

	// Create personal placements table
	createPlacements := `
		CREATE TABLE IF NOT EXISTS ` + tables.Placements + ` (
			user_id UUID NOT NULL,
			tenant_id UUID NOT NULL,
			item_kind TEXT NOT NULL,
			item_id UUID NOT NULL,
			personal_folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, tenant_id, item_kind, item_id)
		)
	`
	if _, err := pool.Exec(ctx, createPlacements); err != nil {
		return err
	}

	// Sibling slug uniqueness needs four partial indexes because both
	// tenant_id and parent_id are nullable
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_slug_unique ON ` + tables.Folders + `(tenant_id, parent_id, slug) WHERE tenant_id IS NOT NULL AND parent_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_slug_root_unique ON ` + tables.Folders + `(tenant_id, slug) WHERE tenant_id IS NOT NULL AND parent_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_slug_shared_unique ON ` + tables.Folders + `(parent_id, slug) WHERE tenant_id IS NULL AND parent_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_slug_shared_root_unique ON ` + tables.Folders + `(slug) WHERE tenant_id IS NULL AND parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_tenant_parent ON ` + tables.Folders + `(tenant_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `templates_tenant_folder ON ` + tables.Templates + `(tenant_id, folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `placements_item ON ` + tables.Placements + `(tenant_id, item_kind, item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `placements_target ON ` + tables.Placements + `(personal_folder_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Placements,
		tables.Templates,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  Dropped %s", table)
	}

	return nil
}

// clearTenantData clears all rows belonging to a tenant
func clearTenantData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tenantID string) error {
	statements := []string{
		"DELETE FROM " + tables.Placements + " WHERE tenant_id = $1",
		"DELETE FROM " + tables.Templates + " WHERE tenant_id = $1",
		"DELETE FROM " + tables.Folders + " WHERE tenant_id = $1",
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt, tenantID); err != nil {
			return err
		}
	}

	return nil
}

type seedFolder struct {
	name   string
	parent string
	color  *string
	icon   *string
}

type seedTemplate struct {
	name   string
	folder string
	owner  string
}

func seedFolders() []seedFolder {
	blue := "#2563eb"
	amber := "#d97706"
	folderIcon := "folder"

	return []seedFolder{
		{name: "Engineering", color: &blue, icon: &folderIcon},
		{name: "Electrical", parent: "Engineering"},
		{name: "Mechanical", parent: "Engineering"},
		{name: "Operations", color: &amber, icon: &folderIcon},
		{name: "Safety & Quality", parent: "Operations"},
		{name: "Archive"},
	}
}

func seedTemplates() []seedTemplate {
	return []seedTemplate{
		{name: "Wiring Checklist", folder: "Electrical", owner: demoAdminID},
		{name: "Torque Spec Sheet", folder: "Mechanical", owner: demoAdminID},
		{name: "Incident Report", folder: "Safety & Quality", owner: demoAdminID},
		{name: "Daily Standup Notes", folder: "Operations", owner: demoMemberID},
		{name: "Untitled Draft", owner: demoMemberID}, // unfiled
	}
}
