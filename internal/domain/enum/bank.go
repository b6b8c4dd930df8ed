package enum

// Bank represents a bank accepted for voucher payments
type Bank string

const (
	BankCity Bank = "city_bank"
	BankBrac Bank = "brac_bank"
)

// Valid reports whether the bank is one of the accepted banks
func (b Bank) Valid() bool {
	switch b {
	case BankCity, BankBrac:
		return true
	}
	return false
}

func (b Bank) String() string {
	return string(b)
}
