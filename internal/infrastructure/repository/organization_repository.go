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

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) domainRepo.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).First(&org, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *organizationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Organization, error) {
	var orgs []entity.Organization
	err := r.db.WithContext(ctx).
		Joins("JOIN organization_memberships ON organization_memberships.organization_id = organizations.id").
		Where("organization_memberships.user_id = ?", userID).
		Order("organizations.created_at ASC").
		Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) AddMember(ctx context.Context, membership *entity.OrganizationMembership) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(membership).Error
}

func (r *organizationRepository) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error) {
	var members []entity.OrganizationMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Find(&members).Error
	return members, err
}
