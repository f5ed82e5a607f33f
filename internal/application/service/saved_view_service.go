package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
)

// GridSchemaVersion is the current grid-state schema. Stored views written
// under an older version are discarded on read rather than migrated.
const GridSchemaVersion = 2

// SavedViewService persists per-user grid presentation state
type SavedViewService struct {
	viewRepo repository.SavedViewRepository
}

// NewSavedViewService creates a new saved view service
func NewSavedViewService(viewRepo repository.SavedViewRepository) *SavedViewService {
	return &SavedViewService{viewRepo: viewRepo}
}

// GetView returns the stored grid state for (caller, grid). A version
// mismatch deletes the stale row and reports not found.
func (s *SavedViewService) GetView(ctx context.Context, userID uuid.UUID, gridID string) (*entity.SavedView, error) {
	view, err := s.viewRepo.Get(ctx, userID, gridID)
	if err != nil {
		log.Printf("savedview: get %s failed: %v", gridID, err)
		return nil, apperror.ErrInternalServer
	}
	if view == nil {
		return nil, apperror.NewNotFoundError("Saved view")
	}

	if view.SchemaVersion != GridSchemaVersion {
		if err := s.viewRepo.Delete(ctx, userID, gridID); err != nil {
			log.Printf("savedview: failed to discard stale view %s: %v", gridID, err)
		}
		return nil, apperror.NewNotFoundError("Saved view")
	}

	return view, nil
}

// SaveView stores the grid state, replacing any previous state for the same
// (caller, grid). Last write wins.
func (s *SavedViewService) SaveView(ctx context.Context, userID uuid.UUID, gridID string, state entity.ViewState) (*entity.SavedView, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	view := &entity.SavedView{
		OrganizationID: orgID,
		UserID:         userID,
		GridID:         gridID,
		SchemaVersion:  GridSchemaVersion,
		State:          state,
	}

	if err := s.viewRepo.Upsert(ctx, view); err != nil {
		log.Printf("savedview: save %s failed: %v", gridID, err)
		return nil, apperror.ErrInternalServer
	}

	return view, nil
}

// DeleteView removes the stored grid state for (caller, grid)
func (s *SavedViewService) DeleteView(ctx context.Context, userID uuid.UUID, gridID string) error {
	if err := s.viewRepo.Delete(ctx, userID, gridID); err != nil {
		log.Printf("savedview: delete %s failed: %v", gridID, err)
		return apperror.ErrInternalServer
	}
	return nil
}
