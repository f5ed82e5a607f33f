package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/application/validation"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
	"gorm.io/gorm"
)

func scopedContext(orgID uuid.UUID) context.Context {
	return infraRepo.WithOrganization(context.Background(), orgID)
}

func freeOrg(orgID uuid.UUID) *entity.Organization {
	return &entity.Organization{ID: orgID, Name: "Acme", Plan: enum.PlanFree}
}

func newTestInvoiceService(invoiceRepo *mockInvoiceRepo, orgRepo *mockOrgRepo, inv *recordingInvalidator) *InvoiceService {
	usage := NewUsageService(invoiceRepo, orgRepo)
	return NewInvoiceService(invoiceRepo, orgRepo, usage, inv, nil, "INV-")
}

func createRequest() *validation.CreateInvoiceRequest {
	return &validation.CreateInvoiceRequest{
		CustomerName: "Acme Ltd",
		Amount:       150,
		IssueDate:    "2026-08-01",
		DueDate:      "2026-08-31",
		Items: []validation.InvoiceItemRequest{
			{Name: "Consulting", Quantity: 2, UnitPrice: 75},
		},
	}
}

func TestCreateInvoice(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("persists with generated number and defaults", func(t *testing.T) {
		var created *entity.Invoice
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				created = inv
				return nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		inv := &recordingInvalidator{}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, inv)

		invoice, err := svc.CreateInvoice(scopedContext(orgID), userID, createRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if created == nil {
			t.Fatal("invoice was not persisted")
		}
		if invoice.OrganizationID != orgID {
			t.Errorf("organization = %s, want %s", invoice.OrganizationID, orgID)
		}
		if invoice.UserID != userID {
			t.Errorf("user = %s, want %s", invoice.UserID, userID)
		}
		if invoice.Status != enum.InvoiceStatusPending {
			t.Errorf("status = %s, want pending", invoice.Status)
		}
		if !strings.HasPrefix(invoice.InvoiceNumber, "INV-") {
			t.Errorf("invoice number %q missing prefix", invoice.InvoiceNumber)
		}
		if len(inv.views) != 1 {
			t.Errorf("expected one view invalidation, got %d", len(inv.views))
		}
	})

	t.Run("rejects missing organization context", func(t *testing.T) {
		svc := newTestInvoiceService(&mockInvoiceRepo{}, &mockOrgRepo{}, &recordingInvalidator{})

		_, err := svc.CreateInvoice(context.Background(), userID, createRequest())
		if !errors.Is(err, apperror.ErrOrganizationScope) {
			t.Fatalf("expected organization scope error, got %v", err)
		}
	})

	t.Run("rejects invalid payload without touching persistence", func(t *testing.T) {
		touched := false
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				touched = true
				return nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		req := createRequest()
		req.Amount = 0

		_, err := svc.CreateInvoice(scopedContext(orgID), userID, req)
		appErr := apperror.GetAppError(err)
		if appErr.Code != 422 {
			t.Fatalf("expected 422, got %d", appErr.Code)
		}
		if touched {
			t.Error("persistence was reached with an invalid payload")
		}
	})

	t.Run("denies create at the plan limit", func(t *testing.T) {
		touched := false
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				touched = true
				return nil
			},
			countCreatedSinceFn: func(ctx context.Context, since time.Time) (int64, error) {
				return 10, nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		_, err := svc.CreateInvoice(scopedContext(orgID), userID, createRequest())
		appErr := apperror.GetAppError(err)
		if appErr.Code != 403 {
			t.Fatalf("expected 403, got %d", appErr.Code)
		}
		if touched {
			t.Error("persistence was reached past the plan limit")
		}
	})

	t.Run("retries number collisions with a fresh number", func(t *testing.T) {
		var numbers []string
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				numbers = append(numbers, inv.InvoiceNumber)
				if len(numbers) < 3 {
					return gorm.ErrDuplicatedKey
				}
				return nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		invoice, err := svc.CreateInvoice(scopedContext(orgID), userID, createRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(numbers) != 3 {
			t.Fatalf("expected 3 insert attempts, got %d", len(numbers))
		}
		if invoice.InvoiceNumber != numbers[2] {
			t.Errorf("invoice kept a stale number %q", invoice.InvoiceNumber)
		}
	})

	t.Run("gives up after exhausting number retries", func(t *testing.T) {
		attempts := 0
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				attempts++
				return gorm.ErrDuplicatedKey
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		_, err := svc.CreateInvoice(scopedContext(orgID), userID, createRequest())
		appErr := apperror.GetAppError(err)
		if appErr.Code != 409 {
			t.Fatalf("expected 409, got %d", appErr.Code)
		}
		if attempts != numberRetries+1 {
			t.Errorf("attempts = %d, want %d", attempts, numberRetries+1)
		}
	})

	t.Run("hides raw persistence errors", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			createFn: func(ctx context.Context, inv *entity.Invoice) error {
				return errors.New(`pq: relation "invoices" does not exist`)
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		_, err := svc.CreateInvoice(scopedContext(orgID), userID, createRequest())
		appErr := apperror.GetAppError(err)
		if appErr.Code != 500 {
			t.Fatalf("expected 500, got %d", appErr.Code)
		}
		if strings.Contains(appErr.Message, "relation") {
			t.Errorf("raw database error leaked: %q", appErr.Message)
		}
	})
}

func TestUpdateInvoice(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	str := func(s string) *string { return &s }

	stored := func() *entity.Invoice {
		return &entity.Invoice{
			ID:             id,
			OrganizationID: orgID,
			InvoiceNumber:  "INV-000001-0001",
			CustomerName:   "Acme Ltd",
			Amount:         150,
			Status:         enum.InvoiceStatusPending,
			IssueDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			DueDate:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Items:          entity.InvoiceItems{{Name: "Consulting", Quantity: 2, UnitPrice: 75}},
		}
	}

	t.Run("applies a partial patch", func(t *testing.T) {
		var updated *entity.Invoice
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				return stored(), nil
			},
			updateFn: func(ctx context.Context, inv *entity.Invoice) error {
				updated = inv
				return nil
			},
		}
		inv := &recordingInvalidator{}
		svc := newTestInvoiceService(invoiceRepo, &mockOrgRepo{}, inv)

		result, err := svc.UpdateInvoice(scopedContext(orgID), id, &validation.UpdateInvoiceRequest{
			Status: str("paid"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated == nil {
			t.Fatal("update was not persisted")
		}
		if result.Status != enum.InvoiceStatusPaid {
			t.Errorf("status = %s, want paid", result.Status)
		}
		if result.CustomerName != "Acme Ltd" {
			t.Errorf("unpatched field changed: %q", result.CustomerName)
		}
		if result.InvoiceNumber != "INV-000001-0001" {
			t.Errorf("invoice number changed: %q", result.InvoiceNumber)
		}
		if len(inv.views) != 1 {
			t.Errorf("expected one view invalidation, got %d", len(inv.views))
		}
	})

	t.Run("empty strings clear optional fields", func(t *testing.T) {
		method := enum.PaymentMethodCard
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				inv := stored()
				email := "billing@acme.test"
				inv.CustomerEmail = &email
				inv.PaymentMethod = &method
				return inv, nil
			},
			updateFn: func(ctx context.Context, inv *entity.Invoice) error {
				return nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, &mockOrgRepo{}, &recordingInvalidator{})

		result, err := svc.UpdateInvoice(scopedContext(orgID), id, &validation.UpdateInvoiceRequest{
			CustomerEmail: str(""),
			PaymentMethod: str(""),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.CustomerEmail != nil {
			t.Errorf("customer email not cleared: %q", *result.CustomerEmail)
		}
		if result.PaymentMethod != nil {
			t.Errorf("payment method not cleared: %q", *result.PaymentMethod)
		}
	})

	t.Run("blank customer name rejected", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				return stored(), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, &mockOrgRepo{}, &recordingInvalidator{})

		_, err := svc.UpdateInvoice(scopedContext(orgID), id, &validation.UpdateInvoiceRequest{
			CustomerName: str("   "),
		})
		appErr := apperror.GetAppError(err)
		if appErr.Code != 422 {
			t.Fatalf("expected 422, got %d", appErr.Code)
		}
	})

	t.Run("rejects a patch that crosses the stored dates", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				return stored(), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, &mockOrgRepo{}, &recordingInvalidator{})

		// Stored issue date is 2026-08-01; this due date lands before it
		_, err := svc.UpdateInvoice(scopedContext(orgID), id, &validation.UpdateInvoiceRequest{
			DueDate: str("2026-07-01"),
		})
		appErr := apperror.GetAppError(err)
		if appErr.Code != 422 {
			t.Fatalf("expected 422, got %d", appErr.Code)
		}
	})

	t.Run("missing invoice reads as not found", func(t *testing.T) {
		svc := newTestInvoiceService(&mockInvoiceRepo{}, &mockOrgRepo{}, &recordingInvalidator{})

		_, err := svc.UpdateInvoice(scopedContext(orgID), id, &validation.UpdateInvoiceRequest{
			Status: str("paid"),
		})
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Fatalf("expected 404, got %d", appErr.Code)
		}
	})
}

func TestDeleteInvoice(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()

	t.Run("zero rows affected reads as not found", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			deleteFn: func(ctx context.Context, gotID uuid.UUID) error {
				return gorm.ErrRecordNotFound
			},
		}
		inv := &recordingInvalidator{}
		svc := newTestInvoiceService(invoiceRepo, &mockOrgRepo{}, inv)

		err := svc.DeleteInvoice(scopedContext(orgID), id)
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Fatalf("expected 404, got %d", appErr.Code)
		}
		if len(inv.views) != 0 {
			t.Error("view invalidated for a failed delete")
		}
	})

	t.Run("successful delete invalidates the dashboard view", func(t *testing.T) {
		inv := &recordingInvalidator{}
		svc := newTestInvoiceService(&mockInvoiceRepo{}, &mockOrgRepo{}, inv)

		if err := svc.DeleteInvoice(scopedContext(orgID), id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(inv.views) != 1 || !strings.Contains(inv.views[0], orgID.String()) {
			t.Errorf("expected dashboard invalidation for %s, got %v", orgID, inv.views)
		}
	})
}

func TestDuplicateInvoice(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	sourceUser := uuid.New()
	id := uuid.New()

	source := &entity.Invoice{
		ID:             id,
		OrganizationID: orgID,
		UserID:         sourceUser,
		InvoiceNumber:  "INV-000001-0001",
		CustomerName:   "Acme Ltd",
		Amount:         150,
		Status:         enum.InvoiceStatusPaid,
		IssueDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Items:          entity.InvoiceItems{{Name: "Consulting", Quantity: 2, UnitPrice: 75}},
	}

	t.Run("copies fields with a fresh number and pending status", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				if gotID == id {
					return source, nil
				}
				return nil, nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		dup, err := svc.DuplicateInvoice(scopedContext(orgID), userID, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dup.InvoiceNumber == source.InvoiceNumber {
			t.Error("duplicate kept the source invoice number")
		}
		if dup.Status != enum.InvoiceStatusPending {
			t.Errorf("status = %s, want pending", dup.Status)
		}
		if dup.UserID != userID {
			t.Errorf("creator = %s, want the caller %s", dup.UserID, userID)
		}
		if dup.CustomerName != source.CustomerName || dup.Amount != source.Amount {
			t.Error("duplicate did not copy the source fields")
		}
	})

	t.Run("counts against the monthly limit", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Invoice, error) {
				return source, nil
			},
			countCreatedSinceFn: func(ctx context.Context, since time.Time) (int64, error) {
				return 10, nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entity.Organization, error) {
				return freeOrg(orgID), nil
			},
		}
		svc := newTestInvoiceService(invoiceRepo, orgRepo, &recordingInvalidator{})

		_, err := svc.DuplicateInvoice(scopedContext(orgID), userID, id)
		appErr := apperror.GetAppError(err)
		if appErr.Code != 403 {
			t.Fatalf("expected 403, got %d", appErr.Code)
		}
	})
}
