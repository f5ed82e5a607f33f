package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
)

type mockInvoiceRepo struct {
	createFn            func(ctx context.Context, invoice *entity.Invoice) error
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	updateFn            func(ctx context.Context, invoice *entity.Invoice) error
	deleteFn            func(ctx context.Context, id uuid.UUID) error
	listFn              func(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error)
	countCreatedSinceFn func(ctx context.Context, since time.Time) (int64, error)
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if m.createFn != nil {
		return m.createFn(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (m *mockInvoiceRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if m.countCreatedSinceFn != nil {
		return m.countCreatedSinceFn(ctx, since)
	}
	return 0, nil
}

type mockOrgRepo struct {
	getByIDFn  func(ctx context.Context, id uuid.UUID) (*entity.Organization, error)
	isMemberFn func(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
}

func (m *mockOrgRepo) Create(ctx context.Context, org *entity.Organization) error { return nil }

func (m *mockOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOrgRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	return nil, nil
}

func (m *mockOrgRepo) Update(ctx context.Context, org *entity.Organization) error { return nil }

func (m *mockOrgRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Organization, error) {
	return nil, nil
}

func (m *mockOrgRepo) AddMember(ctx context.Context, membership *entity.OrganizationMembership) error {
	return nil
}

func (m *mockOrgRepo) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	if m.isMemberFn != nil {
		return m.isMemberFn(ctx, orgID, userID)
	}
	return true, nil
}

func (m *mockOrgRepo) ListMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error) {
	return nil, nil
}

type mockSavedViewRepo struct {
	getFn    func(ctx context.Context, userID uuid.UUID, gridID string) (*entity.SavedView, error)
	upsertFn func(ctx context.Context, view *entity.SavedView) error
	deleteFn func(ctx context.Context, userID uuid.UUID, gridID string) error
}

func (m *mockSavedViewRepo) Get(ctx context.Context, userID uuid.UUID, gridID string) (*entity.SavedView, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, gridID)
	}
	return nil, nil
}

func (m *mockSavedViewRepo) Upsert(ctx context.Context, view *entity.SavedView) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, view)
	}
	return nil
}

func (m *mockSavedViewRepo) Delete(ctx context.Context, userID uuid.UUID, gridID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, gridID)
	}
	return nil
}

// recordingInvalidator captures view invalidations for assertions
type recordingInvalidator struct {
	views []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, view string) {
	r.views = append(r.views, view)
}

func (r *recordingInvalidator) Close() error { return nil }
