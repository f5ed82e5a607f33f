package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/application/validation"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
	"github.com/invoicely/invoicely-api/pkg/cache"
	"github.com/invoicely/invoicely-api/pkg/email"
	"github.com/invoicely/invoicely-api/pkg/pagination"
	"github.com/invoicely/invoicely-api/pkg/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// numberRetries bounds how many fresh invoice numbers are tried when an
// insert hits the per-organization uniqueness constraint
const numberRetries = 3

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// InvoiceService handles invoice operations. Every operation is scoped to
// the organization carried in the context; an invoice owned by another
// organization is indistinguishable from a missing one.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	orgRepo      repository.OrganizationRepository
	usage        *UsageService
	invalidator  cache.Invalidator
	emailService *email.EmailService
	numberPrefix string
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orgRepo repository.OrganizationRepository,
	usage *UsageService,
	invalidator cache.Invalidator,
	emailService *email.EmailService,
	numberPrefix string,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		orgRepo:      orgRepo,
		usage:        usage,
		invalidator:  invalidator,
		emailService: emailService,
		numberPrefix: numberPrefix,
	}
}

// dashboardView names the cached invoice listing invalidated after every mutation
func dashboardView(orgID uuid.UUID) string {
	return "dashboard:invoices:" + orgID.String()
}

// ListInvoices lists the organization's invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if _, ok := infraRepo.GetOrganizationID(ctx); !ok {
		return nil, apperror.ErrOrganizationScope
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		log.Printf("invoice: list failed: %v", err)
		return nil, apperror.ErrInternalServer
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// GetInvoice retrieves a single invoice by ID within the caller's organization
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("invoice: get %s failed: %v", id, err)
		return nil, apperror.ErrInternalServer
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// CreateInvoice validates the payload, enforces the monthly usage limit,
// attaches a generated invoice number and the caller's identity, and persists
// the invoice. Number collisions are retried with a fresh number.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, req *validation.CreateInvoiceRequest) (*entity.Invoice, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	if fieldErrors := validation.ValidateCreateInvoice(req); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	decision, err := s.usage.CheckInvoiceAllowance(ctx)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, apperror.NewForbiddenError(decision.Reason)
	}

	issueDate, _ := validation.ParseDate(req.IssueDate)
	dueDate, _ := validation.ParseDate(req.DueDate)

	status := enum.InvoiceStatus(req.Status)
	if req.Status == "" {
		status = enum.InvoiceStatusPending
	}

	invoice := &entity.Invoice{
		OrganizationID: orgID,
		UserID:         userID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  optional(req.CustomerEmail),
		Amount:         req.Amount,
		Status:         status,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		Items:          toItems(req.Items),
		Notes:          optional(req.Notes),
	}
	if req.PaymentMethod != "" {
		method := enum.PaymentMethod(req.PaymentMethod)
		invoice.PaymentMethod = &method
	}

	if err := s.insertWithFreshNumber(ctx, invoice); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, dashboardView(orgID))
	return invoice, nil
}

// UpdateInvoice applies a partial patch to an invoice. The organization and
// invoice number are immutable; a cross-tenant ID resolves to not found.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req *validation.UpdateInvoiceRequest) (*entity.Invoice, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	if fieldErrors := validation.ValidateUpdateInvoice(req); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("invoice: update fetch %s failed: %v", id, err)
		return nil, apperror.ErrInternalServer
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if req.CustomerName != nil {
		invoice.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		invoice.CustomerEmail = optional(*req.CustomerEmail)
	}
	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.Status != nil {
		invoice.Status = enum.InvoiceStatus(*req.Status)
	}
	if req.IssueDate != nil {
		invoice.IssueDate, _ = validation.ParseDate(*req.IssueDate)
	}
	if req.DueDate != nil {
		invoice.DueDate, _ = validation.ParseDate(*req.DueDate)
	}
	if req.Items != nil {
		invoice.Items = toItems(req.Items)
	}
	if req.PaymentMethod != nil {
		if *req.PaymentMethod == "" {
			invoice.PaymentMethod = nil
		} else {
			method := enum.PaymentMethod(*req.PaymentMethod)
			invoice.PaymentMethod = &method
		}
	}
	if req.Notes != nil {
		invoice.Notes = optional(*req.Notes)
	}

	// Stored dates may cross after a one-sided patch
	if invoice.DueDate.Before(invoice.IssueDate) {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "due_date",
			Message: "due_date must be on or after issue_date",
		}})
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Invoice")
		}
		log.Printf("invoice: update %s failed: %v", id, err)
		return nil, apperror.ErrInternalServer
	}

	s.invalidator.Invalidate(ctx, dashboardView(orgID))
	return invoice, nil
}

// DeleteInvoice removes an invoice within the caller's organization. Zero
// rows affected is reported as not found, never as silent success.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return apperror.ErrOrganizationScope
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("Invoice")
		}
		log.Printf("invoice: delete %s failed: %v", id, err)
		return apperror.ErrInternalServer
	}

	s.invalidator.Invalidate(ctx, dashboardView(orgID))
	return nil
}

// DuplicateInvoice copies an existing invoice into a new row with a fresh
// number, status reset to pending, and the current caller as creator
func (s *InvoiceService) DuplicateInvoice(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	source, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("invoice: duplicate fetch %s failed: %v", id, err)
		return nil, apperror.ErrInternalServer
	}
	if source == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	decision, err := s.usage.CheckInvoiceAllowance(ctx)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, apperror.NewForbiddenError(decision.Reason)
	}

	dup := &entity.Invoice{
		OrganizationID: orgID,
		UserID:         userID,
		CustomerName:   source.CustomerName,
		CustomerEmail:  source.CustomerEmail,
		Amount:         source.Amount,
		Status:         enum.InvoiceStatusPending,
		IssueDate:      source.IssueDate,
		DueDate:        source.DueDate,
		Items:          source.Items,
		PaymentMethod:  source.PaymentMethod,
		Notes:          source.Notes,
	}

	if err := s.insertWithFreshNumber(ctx, dup); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, dashboardView(orgID))
	return dup, nil
}

// SendInvoice emails the invoice to its customer address
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID) error {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return apperror.ErrOrganizationScope
	}

	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.CustomerEmail == nil {
		return apperror.NewBadRequestError("Invoice has no customer email")
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil || org == nil {
		log.Printf("invoice: send %s failed to load organization: %v", id, err)
		return apperror.ErrInternalServer
	}

	items := make([]email.InvoiceEmailItem, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, email.InvoiceEmailItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: fmt.Sprintf("%.2f", item.UnitPrice),
		})
	}

	err = s.emailService.SendInvoiceEmail(*invoice.CustomerEmail, email.InvoiceEmailData{
		CustomerName:     invoice.CustomerName,
		InvoiceNumber:    invoice.InvoiceNumber,
		Amount:           fmt.Sprintf("%.2f", invoice.Amount),
		DueDate:          invoice.DueDate.Format(validation.DateLayout),
		OrganizationName: org.Name,
		Items:            items,
	})
	if err != nil {
		log.Printf("invoice: send %s failed: %v", id, err)
		return apperror.NewAppError(502, "Failed to send invoice email")
	}

	return nil
}

// insertWithFreshNumber assigns a generated invoice number and inserts,
// regenerating on a per-organization uniqueness violation up to numberRetries
// times before giving up
func (s *InvoiceService) insertWithFreshNumber(ctx context.Context, invoice *entity.Invoice) error {
	for attempt := 0; attempt <= numberRetries; attempt++ {
		invoice.InvoiceNumber = utils.GenerateInvoiceNumber(s.numberPrefix)
		invoice.ID = uuid.Nil

		err := s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			log.Printf("invoice: insert failed: %v", err)
			return apperror.ErrInternalServer
		}
		log.Printf("invoice: number collision on %s, retrying", invoice.InvoiceNumber)
	}

	return apperror.NewConflictError("Could not allocate a unique invoice number")
}

// isUniqueViolation reports whether the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// optional maps an empty string to nil so empty optional fields are stored
// as absent
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toItems(reqs []validation.InvoiceItemRequest) entity.InvoiceItems {
	items := make(entity.InvoiceItems, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, entity.InvoiceItem{
			Name:      r.Name,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}
	return items
}
