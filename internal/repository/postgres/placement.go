package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// PostgresPlacementRepository implements the PlacementRepository interface
type PostgresPlacementRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPlacementRepository creates a new personal placement repository
func NewPlacementRepository(config *RepositoryConfig) repositories.PlacementRepository {
	return &PostgresPlacementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates or updates the placement keyed on (user, tenant, kind, item)
func (r *PostgresPlacementRepository) Upsert(ctx context.Context, placement *models.PersonalPlacement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, tenant_id, item_kind, item_id, personal_folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, tenant_id, item_kind, item_id) DO UPDATE SET
			personal_folder_id = EXCLUDED.personal_folder_id,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, r.tables.Placements)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		placement.UserID,
		placement.TenantID,
		placement.ItemKind,
		placement.ItemID,
		placement.PersonalFolderID,
		placement.CreatedAt,
		placement.UpdatedAt,
	).Scan(&placement.CreatedAt, &placement.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert personal placement: %w", err)
	}

	return nil
}

// Get retrieves a placement, or nil if the user has none for the item
func (r *PostgresPlacementRepository) Get(ctx context.Context, userID, tenantID string, kind models.ItemKind, itemID string) (*models.PersonalPlacement, error) {
	query := fmt.Sprintf(`
		SELECT user_id, tenant_id, item_kind, item_id, personal_folder_id, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND tenant_id = $2 AND item_kind = $3 AND item_id = $4
	`, r.tables.Placements)

	executor := GetExecutor(ctx, r.pool)

	var p models.PersonalPlacement
	err := executor.QueryRow(ctx, query, userID, tenantID, kind, itemID).Scan(
		&p.UserID,
		&p.TenantID,
		&p.ItemKind,
		&p.ItemID,
		&p.PersonalFolderID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			// No placement exists - not an error
			return nil, nil
		}
		return nil, fmt.Errorf("get personal placement: %w", err)
	}

	return &p, nil
}

// DeleteByItem removes every user's placement referencing a deleted item
func (r *PostgresPlacementRepository) DeleteByItem(ctx context.Context, tenantID string, kind models.ItemKind, itemID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND item_kind = $2 AND item_id = $3
	`, r.tables.Placements)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, kind, itemID); err != nil {
		return fmt.Errorf("delete placements by item: %w", err)
	}

	return nil
}

// DeleteByTarget removes placements pointing at a deleted personal folder
func (r *PostgresPlacementRepository) DeleteByTarget(ctx context.Context, tenantID, personalFolderID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND personal_folder_id = $2
	`, r.tables.Placements)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, personalFolderID); err != nil {
		return fmt.Errorf("delete placements by target: %w", err)
	}

	return nil
}
