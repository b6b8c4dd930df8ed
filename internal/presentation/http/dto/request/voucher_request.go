package request

import "github.com/shopspring/decimal"

// VoucherUser identifies the operator and the reporting hierarchy attached
// to the ledger entry.
type VoucherUser struct {
	Outlet string `json:"outlet" binding:"required"`
	Name   string `json:"name" binding:"required"`
	ASM    string `json:"asm"`
	RSM    string `json:"rsm"`
	Zone   string `json:"zone"`
}

// SubmitVoucherRequest mirrors the payment voucher form. The bank is
// required exactly when the payment mode is bank; switching the mode away
// from bank drops the requirement.
type SubmitVoucherRequest struct {
	User        VoucherUser     `json:"user" binding:"required"`
	CurrentDue  decimal.Decimal `json:"current_due"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode" binding:"required,paymentmode"`
	Bank        string          `json:"bank" binding:"required_if=PaymentMode bank,omitempty,bankname"`
	Remarks     string          `json:"remarks"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
