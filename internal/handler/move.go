package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// MoveHandler handles smart moves and personal placements
type MoveHandler struct {
	moves   services.MoveService
	overlay services.OverlayService
	logger  *slog.Logger
}

// NewMoveHandler creates a new move handler
func NewMoveHandler(moves services.MoveService, overlay services.OverlayService, logger *slog.Logger) *MoveHandler {
	return &MoveHandler{
		moves:   moves,
		overlay: overlay,
		logger:  logger,
	}
}

// SmartMove moves a batch of items, degrading to personal placements where
// the actor lacks authority
// POST /api/move
func (h *MoveHandler) SmartMove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req services.SmartMoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := h.moves.SmartMove(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}

// placementRequest is the body for setting a personal placement.
type placementRequest struct {
	Kind           models.ItemKind `json:"kind"`
	ItemID         string          `json:"item_id"`
	TargetFolderID *string         `json:"target_folder_id"`
}

// SetPlacement upserts the caller's personal placement for an item
// PUT /api/placements
func (h *MoveHandler) SetPlacement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req placementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	placement, err := h.overlay.SetPlacement(r.Context(), actor, req.Kind, req.ItemID, req.TargetFolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, placement)
}

// ResolvePlacement reports where an item appears for the caller
// GET /api/placements/{kind}/{id}
func (h *MoveHandler) ResolvePlacement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	kind := models.ItemKind(r.PathValue("kind"))
	folderID, err := h.overlay.ResolveView(r.Context(), actor, kind, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folder_id": folderID,
	})
}
