package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	domainRepo "github.com/invoicely/invoicely-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type savedViewRepository struct {
	db *gorm.DB
}

// NewSavedViewRepository creates a new saved view repository
func NewSavedViewRepository(db *gorm.DB) domainRepo.SavedViewRepository {
	return &savedViewRepository{db: db}
}

func (r *savedViewRepository) Get(ctx context.Context, userID uuid.UUID, gridID string) (*entity.SavedView, error) {
	var view entity.SavedView
	err := r.db.WithContext(ctx).
		Scopes(OrganizationScope(ctx)).
		First(&view, "user_id = ? AND grid_id = ?", userID, gridID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *savedViewRepository) Upsert(ctx context.Context, view *entity.SavedView) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "organization_id"},
				{Name: "user_id"},
				{Name: "grid_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"schema_version", "state", "updated_at"}),
		}).
		Create(view).Error
}

func (r *savedViewRepository) Delete(ctx context.Context, userID uuid.UUID, gridID string) error {
	return r.db.WithContext(ctx).
		Scopes(OrganizationScope(ctx)).
		Delete(&entity.SavedView{}, "user_id = ? AND grid_id = ?", userID, gridID).Error
}
