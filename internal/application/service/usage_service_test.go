package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"github.com/invoicely/invoicely-api/pkg/apperror"
)

func TestEvaluateUsage(t *testing.T) {
	tests := []struct {
		name        string
		plan        enum.Plan
		used        int
		wantAllowed bool
	}{
		{"free plan under limit", enum.PlanFree, 9, true},
		{"free plan at limit", enum.PlanFree, 10, false},
		{"free plan over limit", enum.PlanFree, 11, false},
		{"free plan unused", enum.PlanFree, 0, true},
		{"pro plan under limit", enum.PlanPro, 99, true},
		{"pro plan at limit", enum.PlanPro, 100, false},
		{"enterprise plan ignores count", enum.PlanEnterprise, 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateUsage(tt.plan, tt.used)
			if decision.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v", decision.Allowed, tt.wantAllowed)
			}
			if decision.Used != tt.used {
				t.Errorf("Used = %d, want %d", decision.Used, tt.used)
			}
			if !tt.wantAllowed && decision.Reason == "" {
				t.Error("denial carries no reason")
			}
		})
	}
}

func TestCheckInvoiceAllowance(t *testing.T) {
	orgID := uuid.New()

	t.Run("counts from the start of the current month", func(t *testing.T) {
		var gotSince time.Time
		invoiceRepo := &mockInvoiceRepo{
			countCreatedSinceFn: func(ctx context.Context, since time.Time) (int64, error) {
				gotSince = since
				return 3, nil
			},
		}
		orgRepo := &mockOrgRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
				return &entity.Organization{ID: orgID, Plan: enum.PlanFree}, nil
			},
		}
		svc := NewUsageService(invoiceRepo, orgRepo)
		svc.now = func() time.Time {
			return time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)
		}

		decision, err := svc.CheckInvoiceAllowance(scopedContext(orgID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		if !gotSince.Equal(want) {
			t.Errorf("since = %v, want %v", gotSince, want)
		}
		if !decision.Allowed || decision.Used != 3 || decision.Limit != 10 {
			t.Errorf("decision = %+v", decision)
		}
	})

	t.Run("rejects missing organization context", func(t *testing.T) {
		svc := NewUsageService(&mockInvoiceRepo{}, &mockOrgRepo{})

		_, err := svc.CheckInvoiceAllowance(context.Background())
		if !errors.Is(err, apperror.ErrOrganizationScope) {
			t.Fatalf("expected organization scope error, got %v", err)
		}
	})

	t.Run("unknown organization reads as not found", func(t *testing.T) {
		svc := NewUsageService(&mockInvoiceRepo{}, &mockOrgRepo{})

		_, err := svc.CheckInvoiceAllowance(scopedContext(orgID))
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Fatalf("expected 404, got %d", appErr.Code)
		}
	})
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC))
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfMonth = %v, want %v", got, want)
	}
}
