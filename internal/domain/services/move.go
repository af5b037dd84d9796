package services

import (
	"context"

	"arbor/internal/domain/models"
)

// MoveService is the smart-move orchestrator: it attempts an authoritative
// move per item and transparently falls back to a personal placement when
// the actor lacks write authority or the global mutation fails.
type MoveService interface {
	SmartMove(ctx context.Context, actor models.Actor, req *SmartMoveRequest) (*MoveSummary, error)
}

// MoveItem identifies one folder or template in a smart-move batch.
type MoveItem struct {
	Kind models.ItemKind `json:"kind"`
	ID   string          `json:"id"`
}

// SmartMoveRequest moves a batch of items to a target folder (nil = root).
type SmartMoveRequest struct {
	TargetFolderID *string    `json:"target_folder_id"`
	Items          []MoveItem `json:"items"`
}

// MoveSummary reports how the batch resolved so the caller can tell whether
// the result was fully authoritative, fully personal, or mixed.
type MoveSummary struct {
	Requested int `json:"requested"`
	Global    int `json:"global"`
	Personal  int `json:"personal"`
	Skipped   int `json:"skipped"`
}
