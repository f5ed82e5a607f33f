package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/pkg/apperror"
)

// UsageDecision is the outcome of a plan-limit check
type UsageDecision struct {
	Allowed bool   `json:"allowed"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"` // enum.UnlimitedInvoices for no ceiling
	Reason  string `json:"reason,omitempty"`
}

// UsageService gates invoice creation by a monthly count against the
// organization's plan ceiling
type UsageService struct {
	invoiceRepo repository.InvoiceRepository
	orgRepo     repository.OrganizationRepository
	now         func() time.Time
}

// NewUsageService creates a new usage service
func NewUsageService(invoiceRepo repository.InvoiceRepository, orgRepo repository.OrganizationRepository) *UsageService {
	return &UsageService{
		invoiceRepo: invoiceRepo,
		orgRepo:     orgRepo,
		now:         time.Now,
	}
}

// CheckInvoiceAllowance decides whether the caller's organization may create
// another invoice this calendar month. Denial is a hard precondition: the
// create path must short-circuit before persistence.
func (s *UsageService) CheckInvoiceAllowance(ctx context.Context) (*UsageDecision, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrOrganizationScope
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		log.Printf("usage: failed to load organization %s: %v", orgID, err)
		return nil, apperror.ErrInternalServer
	}
	if org == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}

	used, err := s.invoiceRepo.CountCreatedSince(ctx, StartOfMonth(s.now()))
	if err != nil {
		log.Printf("usage: failed to count invoices for %s: %v", orgID, err)
		return nil, apperror.ErrInternalServer
	}

	decision := EvaluateUsage(org.Plan, int(used))
	return &decision, nil
}

// CurrentUsage reports this month's usage without making a decision about a
// pending create (used for the usage endpoint)
func (s *UsageService) CurrentUsage(ctx context.Context) (*UsageDecision, error) {
	return s.CheckInvoiceAllowance(ctx)
}

// EvaluateUsage compares this month's invoice count against the plan limit.
// Pure function of its inputs.
func EvaluateUsage(plan enum.Plan, used int) UsageDecision {
	limit := plan.MonthlyInvoiceLimit()

	decision := UsageDecision{
		Allowed: true,
		Used:    used,
		Limit:   limit,
	}

	if limit != enum.UnlimitedInvoices && used >= limit {
		decision.Allowed = false
		decision.Reason = fmt.Sprintf(
			"Monthly invoice limit reached (%d of %d on the %s plan)",
			used, limit, plan,
		)
	}

	return decision
}

// StartOfMonth returns the first instant of t's calendar month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
