package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

const templateColumns = "id, tenant_id, folder_id, owner_id, name, created_at, updated_at"

// PostgresTemplateRepository implements the TemplateRepository interface
type PostgresTemplateRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(config *RepositoryConfig) repositories.TemplateRepository {
	return &PostgresTemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a template within the tenant
func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND tenant_id = $2
	`, templateColumns, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)

	var t models.Template
	err := executor.QueryRow(ctx, query, id, tenantID).Scan(
		&t.ID,
		&t.TenantID,
		&t.FolderID,
		&t.OwnerID,
		&t.Name,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	return &t, nil
}

// ListByFolder lists templates filed under a folder (nil = unfiled)
func (r *PostgresTemplateRepository) ListByFolder(ctx context.Context, tenantID string, folderID *string) ([]models.Template, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE tenant_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`, templateColumns, r.tables.Templates)
		args = append(args, tenantID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE tenant_id = $1 AND folder_id = $2
			ORDER BY name ASC
		`, templateColumns, r.tables.Templates)
		args = append(args, tenantID, *folderID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates by folder: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		err := rows.Scan(
			&t.ID,
			&t.TenantID,
			&t.FolderID,
			&t.OwnerID,
			&t.Name,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}

// UpdateFolder moves a template's authoritative placement
func (r *PostgresTemplateRepository) UpdateFolder(ctx context.Context, id, tenantID string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
	`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, id, tenantID)
	if err != nil {
		return fmt.Errorf("update template folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ReassignFolder bulk-moves every template from one folder to another
func (r *PostgresTemplateRepository) ReassignFolder(ctx context.Context, tenantID, fromFolderID string, toFolderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND folder_id = $3
	`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, toFolderID, tenantID, fromFolderID); err != nil {
		return fmt.Errorf("reassign templates: %w", err)
	}

	return nil
}

// DeleteByFolder deletes all templates in a folder, returning their IDs
func (r *PostgresTemplateRepository) DeleteByFolder(ctx context.Context, tenantID, folderID string) ([]string, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND folder_id = $2
		RETURNING id
	`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tenantID, folderID)
	if err != nil {
		return nil, fmt.Errorf("delete templates by folder: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted template id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted templates: %w", err)
	}

	return ids, nil
}

// GetAllByTenant retrieves all templates in a tenant (metadata only)
func (r *PostgresTemplateRepository) GetAllByTenant(ctx context.Context, tenantID string) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE tenant_id = $1
		ORDER BY updated_at DESC
	`, templateColumns, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get all templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		err := rows.Scan(
			&t.ID,
			&t.TenantID,
			&t.FolderID,
			&t.OwnerID,
			&t.Name,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}
