package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
	"github.com/invoicely/invoicely-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		orgRepo:    orgRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		log.Printf("auth: login lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	OrganizationName string
}

// Register creates a new user account together with their first organization
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		log.Printf("auth: register lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("auth: password hash failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Printf("auth: user create failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	orgName := input.OrganizationName
	if orgName == "" {
		orgName = user.FullName()
	}

	org, err := s.createOrganizationFor(ctx, user, orgName)
	if err != nil {
		return nil, err
	}

	user.DefaultOrganizationID = &org.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("auth: failed to set default organization: %v", err)
		return nil, apperror.ErrInternalServer
	}

	return s.issueTokens(user)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("auth: refresh lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("auth: profile lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.DefaultOrganizationID)
	if err != nil {
		log.Printf("auth: access token generation failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		log.Printf("auth: refresh token generation failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) createOrganizationFor(ctx context.Context, user *entity.User, name string) (*entity.Organization, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = user.ID.String()[:8]
	}

	// Suffix the slug when taken; registration should not fail over a name clash
	existing, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		log.Printf("auth: slug lookup failed: %v", err)
		return nil, apperror.ErrInternalServer
	}
	if existing != nil {
		slug = slug + "-" + user.ID.String()[:8]
	}

	org := &entity.Organization{
		Name:    name,
		Slug:    slug,
		OwnerID: user.ID,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		log.Printf("auth: organization create failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	membership := &entity.OrganizationMembership{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           "owner",
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		log.Printf("auth: membership create failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	return org, nil
}
