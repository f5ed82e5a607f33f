package enum

// PaymentMethod represents how an invoice is expected to be settled
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodMpesa        PaymentMethod = "mpesa"
	PaymentMethodPaypal       PaymentMethod = "paypal"
)

// IsValid checks whether the payment method is one of the known values
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodMpesa, PaymentMethodPaypal:
		return true
	}
	return false
}
