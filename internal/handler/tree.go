package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// TreeHandler serves the assembled folder tree
type TreeHandler struct {
	tree   services.TreeService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(tree services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		tree:   tree,
		logger: logger,
	}
}

// GetTree returns the tenant's nested folder tree with templates attached
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	tree, err := h.tree.BuildTree(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
