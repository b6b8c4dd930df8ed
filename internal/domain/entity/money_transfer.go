package entity

import (
	"github.com/shopspring/decimal"

	"github.com/sheba-pos/outlet-gateway/internal/domain/enum"
)

// TransferTypePayment marks money transfers recorded from payment vouchers.
const TransferTypePayment = "payment"

// LedgerTimeLayout is the second-precision timestamp format the head office
// expects on ledger entries.
const LedgerTimeLayout = "2006-01-02 15:04:05"

// MoneyTransfer is an immutable ledger entry created exactly once per
// successful voucher submission. It is never updated or deleted here.
type MoneyTransfer struct {
	Outlet      string           `json:"outlet"`
	Amount      decimal.Decimal  `json:"amount"`
	ASM         string           `json:"asm"`
	RSM         string           `json:"rsm"`
	Zone        string           `json:"zone"`
	Type        string           `json:"type"`
	PaymentMode enum.PaymentMode `json:"paymentMode"`
	Bank        enum.Bank        `json:"bank"`
	Date        string           `json:"date"`
	CreatedBy   string           `json:"createdBy"`
}

// VoucherReceipt is returned to the host page after a successful submission
// so it can refresh the displayed due balance.
type VoucherReceipt struct {
	Outlet string          `json:"outlet"`
	Amount decimal.Decimal `json:"amount"`
	NewDue decimal.Decimal `json:"new_due"`
}
