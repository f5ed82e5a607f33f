package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
)

// SavedViewRepository defines the interface for grid state persistence
type SavedViewRepository interface {
	Get(ctx context.Context, userID uuid.UUID, gridID string) (*entity.SavedView, error)
	Upsert(ctx context.Context, view *entity.SavedView) error
	Delete(ctx context.Context, userID uuid.UUID, gridID string) error
}
