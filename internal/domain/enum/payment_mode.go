package enum

// PaymentMode represents how an outlet settles a payment voucher
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeBank   PaymentMode = "bank"
	PaymentModeCheque PaymentMode = "cheque"
)

// Valid reports whether the payment mode is one of the known modes
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBank, PaymentModeCheque:
		return true
	}
	return false
}

// RequiresBank reports whether the mode needs a bank selection
func (m PaymentMode) RequiresBank() bool {
	return m == PaymentModeBank
}

func (m PaymentMode) String() string {
	return string(m)
}
