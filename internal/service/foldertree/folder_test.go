package foldertree

import (
	"context"
	"errors"
	"strings"
	"testing"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

func newTestFolderService(repo *fakeFolderRepo, authz *fakeAuthorizer) services.FolderService {
	paths := NewPathMaterializer(repo)
	cycles := NewCycleGuard(repo)
	return NewFolderService(repo, paths, cycles, &fakeTxManager{}, authz, testLogger())
}

func testActor() models.Actor {
	return models.Actor{UserID: "user-1", TenantID: testTenant, Role: "editor"}
}

func TestCreateFolder(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	root, err := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Engineering"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.Slug != "engineering" {
		t.Errorf("slug = %q, want %q", root.Slug, "engineering")
	}
	if root.Path != "/engineering" {
		t.Errorf("path = %q, want %q", root.Path, "/engineering")
	}
	if root.TenantID == nil || *root.TenantID != testTenant {
		t.Errorf("tenant = %v, want %q", root.TenantID, testTenant)
	}

	child, err := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Electrical", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.Path != "/engineering/electrical" {
		t.Errorf("child path = %q, want %q", child.Path, "/engineering/electrical")
	}
}

func TestCreateFolderSiblingSlugCollision(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	first, err := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Reports"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	// Different display name, same slug
	second, err := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "REPORTS!"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Slug != "reports" {
		t.Errorf("first slug = %q, want %q", first.Slug, "reports")
	}
	if second.Slug != "reports-2" {
		t.Errorf("second slug = %q, want %q", second.Slug, "reports-2")
	}

	// Same names under different parents do not collide
	child, err := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Reports", ParentID: &first.ID})
	if err != nil {
		t.Fatalf("create nested: %v", err)
	}
	if child.Slug != "reports" {
		t.Errorf("nested slug = %q, want %q", child.Slug, "reports")
	}
}

func TestCreateFolderValidation(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	tests := []struct {
		name string
		req  *services.CreateFolderRequest
	}{
		{
			name: "empty name",
			req:  &services.CreateFolderRequest{Name: ""},
		},
		{
			name: "name with slash",
			req:  &services.CreateFolderRequest{Name: "a/b"},
		},
		{
			name: "name too long",
			req:  &services.CreateFolderRequest{Name: strings.Repeat("x", 300)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, actor, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateFolderMissingParent(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})

	missing := "nope"
	_, err := svc.Create(context.Background(), testActor(), &services.CreateFolderRequest{Name: "X", ParentID: &missing})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateFolderRenameCascadesPaths(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	root, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Ops"})
	child, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Safety", ParentID: &root.ID})

	newName := "Operations"
	updated, err := svc.Update(ctx, actor, root.ID, &services.UpdateFolderRequest{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "operations" {
		t.Errorf("slug = %q, want %q", updated.Slug, "operations")
	}
	if updated.Path != "/operations" {
		t.Errorf("path = %q, want %q", updated.Path, "/operations")
	}

	got, _ := svc.Get(ctx, actor, child.ID)
	if got.Path != "/operations/safety" {
		t.Errorf("child path = %q, want %q", got.Path, "/operations/safety")
	}
}

func TestUpdateFolderReparent(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	a, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "A"})
	b, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "B"})
	child, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Child", ParentID: &a.ID})

	moved, err := svc.Update(ctx, actor, child.ID, &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &b.ID},
	})
	if err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != b.ID {
		t.Errorf("parent = %v, want %q", moved.ParentID, b.ID)
	}
	if moved.Path != "/b/child" {
		t.Errorf("path = %q, want %q", moved.Path, "/b/child")
	}

	// Tri-state null moves to root
	rooted, err := svc.Update(ctx, actor, child.ID, &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if rooted.ParentID != nil {
		t.Errorf("parent = %v, want nil", rooted.ParentID)
	}
	if rooted.Path != "/child" {
		t.Errorf("path = %q, want %q", rooted.Path, "/child")
	}
}

func TestUpdateFolderCycleRejected(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	root, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Root"})
	child, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Child", ParentID: &root.ID})

	_, err := svc.Update(ctx, actor, root.ID, &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &child.ID},
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("error = %v, want ErrInvalidOperation", err)
	}

	// Self-parent is the degenerate cycle
	_, err = svc.Update(ctx, actor, root.ID, &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &root.ID},
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("self-parent error = %v, want ErrInvalidOperation", err)
	}
}

func TestUpdateSharedFolderRequiresAuthority(t *testing.T) {
	repo := newFakeFolderRepo()
	ctx := context.Background()

	// Shared folder: NULL tenant
	shared := &models.Folder{ID: "shared", Name: "Library", Slug: "library", Path: "/library"}
	if err := repo.Create(ctx, shared); err != nil {
		t.Fatalf("seed shared folder: %v", err)
	}

	newName := "Common Library"

	svc := newTestFolderService(repo, &fakeAuthorizer{global: false})
	_, err := svc.Update(ctx, testActor(), "shared", &services.UpdateFolderRequest{Name: &newName})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}

	privileged := newTestFolderService(repo, &fakeAuthorizer{global: true})
	updated, err := privileged.Update(ctx, testActor(), "shared", &services.UpdateFolderRequest{Name: &newName})
	if err != nil {
		t.Fatalf("privileged update: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q, want %q", updated.Name, newName)
	}
}

func TestUpdateFolderRequiresAField(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	f, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "X"})

	_, err := svc.Update(ctx, actor, f.ID, &services.UpdateFolderRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestListFolders(t *testing.T) {
	repo := newFakeFolderRepo()
	tplRepo := newFakeTemplateRepo()
	repo.templates = tplRepo
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	root, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Root"})
	a, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Beta", ParentID: &root.ID})
	svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Alpha", ParentID: &root.ID})
	svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Grand", ParentID: &a.ID})

	tplRepo.templates["t1"] = &models.Template{ID: "t1", TenantID: testTenant, FolderID: &a.ID, OwnerID: "user-1", Name: "T"}

	listings, err := svc.List(ctx, actor, &root.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	// Same display order, so alphabetical
	if listings[0].Name != "Alpha" || listings[1].Name != "Beta" {
		t.Errorf("order = [%s, %s], want [Alpha, Beta]", listings[0].Name, listings[1].Name)
	}
	if listings[1].ChildCount != 1 {
		t.Errorf("Beta child count = %d, want 1", listings[1].ChildCount)
	}
	if listings[1].TemplateCount != 1 {
		t.Errorf("Beta template count = %d, want 1", listings[1].TemplateCount)
	}

	// Listing under a missing parent fails
	missing := "gone"
	if _, err := svc.List(ctx, actor, &missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetBreadcrumb(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()
	actor := testActor()

	root, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Engineering"})
	mid, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Electrical", ParentID: &root.ID})
	leaf, _ := svc.Create(ctx, actor, &services.CreateFolderRequest{Name: "Wiring", ParentID: &mid.ID})

	chain, err := svc.GetBreadcrumb(ctx, actor, leaf.ID)
	if err != nil {
		t.Fatalf("breadcrumb: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	want := []string{"Engineering", "Electrical", "Wiring"}
	for i, name := range want {
		if chain[i].Name != name {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i].Name, name)
		}
	}
}

func TestTenantIsolation(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(repo, &fakeAuthorizer{global: true})
	ctx := context.Background()

	f, err := svc.Create(ctx, testActor(), &services.CreateFolderRequest{Name: "Private"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	outsider := models.Actor{UserID: "user-9", TenantID: "tenant-2", Role: "admin"}
	if _, err := svc.Get(ctx, outsider, f.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-tenant get error = %v, want ErrNotFound", err)
	}

	// Shared folders are visible across tenants
	shared := &models.Folder{ID: "shared", Name: "Library", Slug: "library", Path: "/library"}
	if err := repo.Create(ctx, shared); err != nil {
		t.Fatalf("seed shared: %v", err)
	}
	if _, err := svc.Get(ctx, outsider, "shared"); err != nil {
		t.Errorf("shared folder should be visible: %v", err)
	}
}
