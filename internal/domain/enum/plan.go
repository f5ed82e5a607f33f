package enum

// Plan represents an organization's subscription plan
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// UnlimitedInvoices marks plans without a monthly invoice ceiling
const UnlimitedInvoices = -1

// MonthlyInvoiceLimit returns the number of invoices the plan allows per
// calendar month, or UnlimitedInvoices
func (p Plan) MonthlyInvoiceLimit() int {
	switch p {
	case PlanPro:
		return 100
	case PlanEnterprise:
		return UnlimitedInvoices
	default:
		return 10
	}
}

// IsValid checks whether the plan is one of the known values
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
