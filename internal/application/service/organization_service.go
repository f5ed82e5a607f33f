package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
	"github.com/invoicely/invoicely-api/pkg/utils"
)

// OrganizationService handles organization-related operations
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, userRepo: userRepo}
}

// CreateOrganizationInput represents the organization creation input
type CreateOrganizationInput struct {
	Name string
}

// CreateOrganization creates an organization owned by the caller, who becomes
// its first member
func (s *OrganizationService) CreateOrganization(ctx context.Context, userID uuid.UUID, input *CreateOrganizationInput) (*entity.Organization, error) {
	slug := utils.Slugify(input.Name)
	if slug == "" {
		return nil, apperror.NewBadRequestError("Organization name must contain letters or digits")
	}

	existing, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		log.Printf("organization: slug lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if existing != nil {
		return nil, apperror.NewConflictError("An organization with this name already exists")
	}

	org := &entity.Organization{
		Name:    input.Name,
		Slug:    slug,
		OwnerID: userID,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		log.Printf("organization: create failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	membership := &entity.OrganizationMembership{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           "owner",
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		log.Printf("organization: owner membership failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	return org, nil
}

// ListOrganizations returns the organizations the caller belongs to
func (s *OrganizationService) ListOrganizations(ctx context.Context, userID uuid.UUID) ([]entity.Organization, error) {
	orgs, err := s.orgRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Printf("organization: list for %s failed: %v", userID, err)
		return nil, apperror.ErrInternalServer
	}
	return orgs, nil
}

// GetCurrentOrganization returns the organization bound to the request context
func (s *OrganizationService) GetCurrentOrganization(ctx context.Context) (*entity.Organization, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		log.Printf("organization: get %s failed: %v", orgID, err)
		return nil, apperror.ErrInternalServer
	}
	if org == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}
	return org, nil
}

// ListMembers returns the memberships of the current organization
func (s *OrganizationService) ListMembers(ctx context.Context) ([]entity.OrganizationMembership, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	members, err := s.orgRepo.ListMembers(ctx, orgID)
	if err != nil {
		log.Printf("organization: list members of %s failed: %v", orgID, err)
		return nil, apperror.ErrInternalServer
	}
	return members, nil
}

// SetDefaultOrganization records the caller's preferred organization, used
// when a request carries no explicit organization header. The caller must be
// a member.
func (s *OrganizationService) SetDefaultOrganization(ctx context.Context, userID, orgID uuid.UUID) error {
	member, err := s.orgRepo.IsMember(ctx, orgID, userID)
	if err != nil {
		log.Printf("organization: membership check failed: %v", err)
		return apperror.ErrInternalServer
	}
	if !member {
		return apperror.NewNotFoundError("Organization")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("organization: user lookup failed: %v", err)
		return apperror.ErrInternalServer
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	user.DefaultOrganizationID = &orgID
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("organization: default update failed: %v", err)
		return apperror.ErrInternalServer
	}
	return nil
}
