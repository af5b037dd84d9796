package foldertree

import (
	"context"
	"testing"

	"arbor/internal/domain/models"
)

func TestBuildTree(t *testing.T) {
	folders := newFakeFolderRepo()
	templates := newFakeTemplateRepo()
	svc := NewTreeService(folders, templates, testLogger())
	ctx := context.Background()

	root := seedTestFolder(t, folders, "root", "engineering", nil, "/engineering")
	child := seedTestFolder(t, folders, "child", "electrical", &root.ID, "/engineering/electrical")
	seedTestFolder(t, folders, "other", "archive", nil, "/archive")

	templates.templates["t1"] = &models.Template{ID: "t1", TenantID: testTenant, FolderID: &child.ID, OwnerID: "u1", Name: "Wiring Checklist"}
	templates.templates["t2"] = &models.Template{ID: "t2", TenantID: testTenant, OwnerID: "u1", Name: "Unfiled Draft"}

	tree, err := svc.BuildTree(ctx, testActor())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	if len(tree.Folders) != 2 {
		t.Fatalf("root folders = %d, want 2", len(tree.Folders))
	}

	var eng *models.FolderTreeNode
	for _, node := range tree.Folders {
		if node.ID == "root" {
			eng = node
		}
	}
	if eng == nil {
		t.Fatal("engineering folder missing from tree")
	}
	if len(eng.Folders) != 1 || eng.Folders[0].ID != "child" {
		t.Fatalf("engineering children = %v, want [child]", eng.Folders)
	}
	if len(eng.Folders[0].Templates) != 1 || eng.Folders[0].Templates[0].ID != "t1" {
		t.Errorf("nested template missing")
	}

	// Unfiled templates surface at the root
	if len(tree.Templates) != 1 || tree.Templates[0].ID != "t2" {
		t.Errorf("root templates = %v, want [t2]", tree.Templates)
	}
}

func TestBuildTreeRenderDepthCap(t *testing.T) {
	folders := newFakeFolderRepo()
	templates := newFakeTemplateRepo()
	svc := NewTreeService(folders, templates, testLogger())

	// Chain deeper than the render cap of 3
	l1 := seedTestFolder(t, folders, "l1", "l1", nil, "/l1")
	l2 := seedTestFolder(t, folders, "l2", "l2", &l1.ID, "/l1/l2")
	l3 := seedTestFolder(t, folders, "l3", "l3", &l2.ID, "/l1/l2/l3")
	seedTestFolder(t, folders, "l4", "l4", &l3.ID, "/l1/l2/l3/l4")

	tree, err := svc.BuildTree(context.Background(), testActor())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	if len(tree.Folders) != 1 {
		t.Fatalf("root folders = %d, want 1", len(tree.Folders))
	}
	n1 := tree.Folders[0]
	if len(n1.Folders) != 1 {
		t.Fatalf("depth 2 missing")
	}
	n2 := n1.Folders[0]
	if len(n2.Folders) != 1 {
		t.Fatalf("depth 3 missing")
	}
	n3 := n2.Folders[0]

	// Depth 3 nodes are present but their subtrees come back empty
	if n3.ID != "l3" {
		t.Errorf("depth 3 node = %s, want l3", n3.ID)
	}
	if len(n3.Folders) != 0 {
		t.Errorf("nodes below the render cap should be empty, got %d children", len(n3.Folders))
	}
}

func TestBuildTreeOrphanedFolderDropped(t *testing.T) {
	folders := newFakeFolderRepo()
	templates := newFakeTemplateRepo()
	svc := NewTreeService(folders, templates, testLogger())

	missing := "gone"
	seedTestFolder(t, folders, "orphan", "orphan", &missing, "/orphan")
	seedTestFolder(t, folders, "root", "root", nil, "/root")

	tree, err := svc.BuildTree(context.Background(), testActor())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	// The orphan has a parent reference so it is not a root, and its parent
	// does not exist, so it simply does not appear
	if len(tree.Folders) != 1 || tree.Folders[0].ID != "root" {
		t.Errorf("tree roots = %v, want [root]", tree.Folders)
	}
}
