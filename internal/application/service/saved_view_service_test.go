package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/pkg/apperror"
)

func TestGetView(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("returns a current-version view", func(t *testing.T) {
		stored := &entity.SavedView{
			OrganizationID: orgID,
			UserID:         userID,
			GridID:         "invoices",
			SchemaVersion:  GridSchemaVersion,
			State:          entity.ViewState{"search": "acme"},
		}
		repo := &mockSavedViewRepo{
			getFn: func(ctx context.Context, gotUser uuid.UUID, gridID string) (*entity.SavedView, error) {
				return stored, nil
			},
		}
		svc := NewSavedViewService(repo)

		view, err := svc.GetView(scopedContext(orgID), userID, "invoices")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.State["search"] != "acme" {
			t.Errorf("state = %v", view.State)
		}
	})

	t.Run("missing view reads as not found", func(t *testing.T) {
		svc := NewSavedViewService(&mockSavedViewRepo{})

		_, err := svc.GetView(scopedContext(orgID), userID, "invoices")
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Fatalf("expected 404, got %d", appErr.Code)
		}
	})

	t.Run("stale schema version is discarded, not migrated", func(t *testing.T) {
		deleted := false
		repo := &mockSavedViewRepo{
			getFn: func(ctx context.Context, gotUser uuid.UUID, gridID string) (*entity.SavedView, error) {
				return &entity.SavedView{
					GridID:        "invoices",
					SchemaVersion: GridSchemaVersion - 1,
					State:         entity.ViewState{"search": "old"},
				}, nil
			},
			deleteFn: func(ctx context.Context, gotUser uuid.UUID, gridID string) error {
				deleted = true
				return nil
			},
		}
		svc := NewSavedViewService(repo)

		_, err := svc.GetView(scopedContext(orgID), userID, "invoices")
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Fatalf("expected 404, got %d", appErr.Code)
		}
		if !deleted {
			t.Error("stale view was not deleted")
		}
	})
}

func TestSaveView(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("stamps the current schema version", func(t *testing.T) {
		var saved *entity.SavedView
		repo := &mockSavedViewRepo{
			upsertFn: func(ctx context.Context, view *entity.SavedView) error {
				saved = view
				return nil
			},
		}
		svc := NewSavedViewService(repo)

		_, err := svc.SaveView(scopedContext(orgID), userID, "invoices", entity.ViewState{"page_size": 50})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved == nil {
			t.Fatal("view was not persisted")
		}
		if saved.SchemaVersion != GridSchemaVersion {
			t.Errorf("schema version = %d, want %d", saved.SchemaVersion, GridSchemaVersion)
		}
		if saved.OrganizationID != orgID || saved.UserID != userID || saved.GridID != "invoices" {
			t.Errorf("view identity = %+v", saved)
		}
	})

	t.Run("rejects missing organization context", func(t *testing.T) {
		svc := NewSavedViewService(&mockSavedViewRepo{})

		_, err := svc.SaveView(context.Background(), userID, "invoices", entity.ViewState{})
		if !errors.Is(err, apperror.ErrOrganizationScope) {
			t.Fatalf("expected organization scope error, got %v", err)
		}
	})
}
