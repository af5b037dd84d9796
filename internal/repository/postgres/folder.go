package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

const folderColumns = "id, tenant_id, parent_id, name, slug, path, color, icon, display_order, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, parent_id, name, slug, path, color, icon, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.TenantID,
		folder.ParentID,
		folder.Name,
		folder.Slug,
		folder.Path,
		folder.Color,
		folder.Icon,
		folder.DisplayOrder,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder slug %q: %w", folder.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder visible to the tenant (own or shared)
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND (tenant_id = $2 OR tenant_id IS NULL)
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update persists name, slug, parent, path and appearance changes
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, slug = $3, path = $4, color = $5, icon = $6, display_order = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Slug,
		folder.Path,
		folder.Color,
		folder.Icon,
		folder.DisplayOrder,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder slug %q: %w", folder.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdatePath rewrites only the materialized path of a folder
func (r *PostgresFolderRepository) UpdatePath(ctx context.Context, id, path string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("update folder path: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a single folder row
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, tenantID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND (tenant_id = $2 OR tenant_id IS NULL)
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, tenantID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete folder with children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders ordered by display order then name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, tenantID string, parentID *string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE (tenant_id = $1 OR tenant_id IS NULL) AND parent_id IS NULL
			ORDER BY display_order ASC, name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, tenantID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE (tenant_id = $1 OR tenant_id IS NULL) AND parent_id = $2
			ORDER BY display_order ASC, name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, tenantID, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// ListChildrenWithCounts lists immediate children with aggregate child and template counts
func (r *PostgresFolderRepository) ListChildrenWithCounts(ctx context.Context, tenantID string, parentID *string) ([]models.FolderListing, error) {
	countCols := fmt.Sprintf(`
		(SELECT COUNT(*) FROM %s c WHERE c.parent_id = f.id) AS child_count,
		(SELECT COUNT(*) FROM %s t WHERE t.folder_id = f.id) AS template_count
	`, r.tables.Folders, r.tables.Templates)

	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT f.id, f.tenant_id, f.parent_id, f.name, f.slug, f.path, f.color, f.icon, f.display_order, f.created_at, f.updated_at, %s
			FROM %s f
			WHERE (f.tenant_id = $1 OR f.tenant_id IS NULL) AND f.parent_id IS NULL
			ORDER BY f.display_order ASC, f.name ASC
		`, countCols, r.tables.Folders)
		args = append(args, tenantID)
	} else {
		query = fmt.Sprintf(`
			SELECT f.id, f.tenant_id, f.parent_id, f.name, f.slug, f.path, f.color, f.icon, f.display_order, f.created_at, f.updated_at, %s
			FROM %s f
			WHERE (f.tenant_id = $1 OR f.tenant_id IS NULL) AND f.parent_id = $2
			ORDER BY f.display_order ASC, f.name ASC
		`, countCols, r.tables.Folders)
		args = append(args, tenantID, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children with counts: %w", err)
	}
	defer rows.Close()

	var listings []models.FolderListing
	for rows.Next() {
		var l models.FolderListing
		err := rows.Scan(
			&l.ID,
			&l.TenantID,
			&l.ParentID,
			&l.Name,
			&l.Slug,
			&l.Path,
			&l.Color,
			&l.Icon,
			&l.DisplayOrder,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.ChildCount,
			&l.TemplateCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder listings: %w", err)
	}

	return listings, nil
}

// GetAllByTenant retrieves all folders visible to a tenant (flat list)
func (r *PostgresFolderRepository) GetAllByTenant(ctx context.Context, tenantID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE tenant_id = $1 OR tenant_id IS NULL
		ORDER BY display_order ASC, name ASC
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.TenantID,
		&folder.ParentID,
		&folder.Name,
		&folder.Slug,
		&folder.Path,
		&folder.Color,
		&folder.Icon,
		&folder.DisplayOrder,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
