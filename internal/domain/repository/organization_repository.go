package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Organization, error)
	AddMember(ctx context.Context, membership *entity.OrganizationMembership) error
	IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error)
}
