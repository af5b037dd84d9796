package foldertree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// In-memory repository fakes so service behavior can be exercised without a
// database. Visibility rules mirror the SQL: a tenant sees its own rows plus
// shared (NULL-tenant) folders.

type fakeFolderRepo struct {
	folders   map[string]*models.Folder
	templates *fakeTemplateRepo
	nextID    int
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) visible(f *models.Folder, tenantID string) bool {
	return f.TenantID == nil || *f.TenantID == tenantID
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		r.nextID++
		folder.ID = "folder-" + strconv.Itoa(r.nextID)
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, tenantID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || !r.visible(f, tenantID) {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) UpdatePath(ctx context.Context, id, path string) error {
	f, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.Path = path
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, tenantID string) error {
	f, ok := r.folders[id]
	if !ok || !r.visible(f, tenantID) {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, tenantID string, parentID *string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if !r.visible(f, tenantID) {
			continue
		}
		if !sameParent(f.ParentID, parentID) {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *fakeFolderRepo) ListChildrenWithCounts(ctx context.Context, tenantID string, parentID *string) ([]models.FolderListing, error) {
	children, err := r.ListChildren(ctx, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]models.FolderListing, 0, len(children))
	for _, child := range children {
		grandchildren, _ := r.ListChildren(ctx, tenantID, &child.ID)
		listing := models.FolderListing{Folder: child, ChildCount: len(grandchildren)}
		if r.templates != nil {
			tpls, _ := r.templates.ListByFolder(ctx, tenantID, &child.ID)
			listing.TemplateCount = len(tpls)
		}
		out = append(out, listing)
	}
	return out, nil
}

func (r *fakeFolderRepo) GetAllByTenant(ctx context.Context, tenantID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if r.visible(f, tenantID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTemplateRepo struct {
	templates map[string]*models.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*models.Template)}
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id, tenantID string) (*models.Template, error) {
	t, ok := r.templates[id]
	if !ok || t.TenantID != tenantID {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTemplateRepo) ListByFolder(ctx context.Context, tenantID string, folderID *string) ([]models.Template, error) {
	var out []models.Template
	for _, t := range r.templates {
		if t.TenantID != tenantID {
			continue
		}
		if !sameParent(t.FolderID, folderID) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) UpdateFolder(ctx context.Context, id, tenantID string, folderID *string) error {
	t, ok := r.templates[id]
	if !ok || t.TenantID != tenantID {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	t.FolderID = folderID
	return nil
}

func (r *fakeTemplateRepo) ReassignFolder(ctx context.Context, tenantID, fromFolderID string, toFolderID *string) error {
	for _, t := range r.templates {
		if t.TenantID == tenantID && t.FolderID != nil && *t.FolderID == fromFolderID {
			t.FolderID = toFolderID
		}
	}
	return nil
}

func (r *fakeTemplateRepo) DeleteByFolder(ctx context.Context, tenantID, folderID string) ([]string, error) {
	var deleted []string
	for id, t := range r.templates {
		if t.TenantID == tenantID && t.FolderID != nil && *t.FolderID == folderID {
			deleted = append(deleted, id)
			delete(r.templates, id)
		}
	}
	sort.Strings(deleted)
	return deleted, nil
}

func (r *fakeTemplateRepo) GetAllByTenant(ctx context.Context, tenantID string) ([]models.Template, error) {
	var out []models.Template
	for _, t := range r.templates {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type placementKey struct {
	userID   string
	tenantID string
	kind     models.ItemKind
	itemID   string
}

type fakePlacementRepo struct {
	placements map[placementKey]*models.PersonalPlacement
}

func newFakePlacementRepo() *fakePlacementRepo {
	return &fakePlacementRepo{placements: make(map[placementKey]*models.PersonalPlacement)}
}

func (r *fakePlacementRepo) Upsert(ctx context.Context, p *models.PersonalPlacement) error {
	key := placementKey{p.UserID, p.TenantID, p.ItemKind, p.ItemID}
	copied := *p
	r.placements[key] = &copied
	return nil
}

func (r *fakePlacementRepo) Get(ctx context.Context, userID, tenantID string, kind models.ItemKind, itemID string) (*models.PersonalPlacement, error) {
	p, ok := r.placements[placementKey{userID, tenantID, kind, itemID}]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlacementRepo) DeleteByItem(ctx context.Context, tenantID string, kind models.ItemKind, itemID string) error {
	for key := range r.placements {
		if key.tenantID == tenantID && key.kind == kind && key.itemID == itemID {
			delete(r.placements, key)
		}
	}
	return nil
}

func (r *fakePlacementRepo) DeleteByTarget(ctx context.Context, tenantID, personalFolderID string) error {
	for key, p := range r.placements {
		if key.tenantID == tenantID && p.PersonalFolderID != nil && *p.PersonalFolderID == personalFolderID {
			delete(r.placements, key)
		}
	}
	return nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeAuthorizer struct {
	global  bool
	cascade bool
}

func (a *fakeAuthorizer) CanMutateGlobalTree(actor models.Actor) bool { return a.global }
func (a *fakeAuthorizer) CanCascadeDelete(actor models.Actor) bool    { return a.cascade }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
