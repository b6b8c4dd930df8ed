package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/domain/enum"
	"github.com/sheba-pos/outlet-gateway/internal/domain/upstream"
	"github.com/sheba-pos/outlet-gateway/pkg/apperror"
	"github.com/sheba-pos/outlet-gateway/pkg/notify"
)

// VoucherService orchestrates payment voucher submission: one due-balance
// update followed, only on its success, by one money transfer ledger entry.
type VoucherService struct {
	api      upstream.Client
	notifier notify.Notifier
	log      *logrus.Logger
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}

	// OnLedgerMismatch is invoked when the due update succeeded but the
	// transfer record failed, leaving the two upstream ledgers out of sync.
	// The due update is not rolled back; reconciliation happens out of band.
	OnLedgerMismatch func(outlet string, amount decimal.Decimal, err error)
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(api upstream.Client, notifier notify.Notifier, log *logrus.Logger) *VoucherService {
	return &VoucherService{
		api:      api,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// SubmitVoucherInput carries the voucher form together with the operator and
// the due balance the host page displayed when the form was filled in.
type SubmitVoucherInput struct {
	User        entity.OutletUser
	CurrentDue  decimal.Decimal
	Amount      decimal.Decimal
	PaymentMode enum.PaymentMode
	Bank        enum.Bank
	Remarks     string
	Date        string
}

// Submit runs the payment voucher workflow. The amount is not re-checked
// against a fresh due balance here: the balance the operator saw is the one
// the new due is computed from, matching the recorded behavior of the form.
func (s *VoucherService) Submit(ctx context.Context, input *SubmitVoucherInput) (*entity.VoucherReceipt, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	if !s.begin(input.User.Outlet) {
		return nil, apperror.ErrSubmissionInFlight
	}
	defer s.end(input.User.Outlet)

	newDue := input.CurrentDue.Sub(input.Amount)

	if err := s.api.UpdateDue(ctx, input.User.Outlet, newDue); err != nil {
		s.log.WithFields(logrus.Fields{
			"outlet": input.User.Outlet,
			"amount": input.Amount.String(),
		}).WithError(err).Error("due update failed, aborting voucher submission")
		s.notifier.Error("Failed to submit payment")
		return nil, apperror.NewUpstreamError("Failed to submit payment")
	}

	transfer := &entity.MoneyTransfer{
		Outlet:      input.User.Outlet,
		Amount:      input.Amount,
		ASM:         input.User.ASM,
		RSM:         input.User.RSM,
		Zone:        input.User.Zone,
		Type:        entity.TransferTypePayment,
		PaymentMode: input.PaymentMode,
		Bank:        input.Bank,
		Date:        s.now().Format(entity.LedgerTimeLayout),
		CreatedBy:   input.User.Name,
	}

	if err := s.api.CreateMoneyTransfer(ctx, transfer); err != nil {
		// The due update already went through and stays in place. Flag the
		// mismatch loudly so the two ledgers can be reconciled upstream.
		s.log.WithFields(logrus.Fields{
			"outlet":         input.User.Outlet,
			"amount":         input.Amount.String(),
			"new_due":        newDue.String(),
			"reconciliation": "required",
		}).WithError(err).Error("due updated but money transfer record failed")
		if s.OnLedgerMismatch != nil {
			s.OnLedgerMismatch(input.User.Outlet, input.Amount, err)
		}
		s.notifier.Error("Failed to submit payment")
		return nil, apperror.NewUpstreamError("Failed to submit payment")
	}

	s.notifier.Success("Payment voucher submitted")

	return &entity.VoucherReceipt{
		Outlet: input.User.Outlet,
		Amount: input.Amount,
		NewDue: newDue,
	}, nil
}

func (s *VoucherService) validate(input *SubmitVoucherInput) error {
	var fields []apperror.FieldError
	if input.Amount.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "amount", Message: "must not be negative"})
	}
	if !input.PaymentMode.Valid() {
		fields = append(fields, apperror.FieldError{Field: "payment_mode", Message: "must be one of cash, bank, cheque"})
	}
	if input.PaymentMode.RequiresBank() && !input.Bank.Valid() {
		fields = append(fields, apperror.FieldError{Field: "bank", Message: "required for bank payments"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// begin marks the outlet as having a submission in flight. It returns false
// when one is already running, preventing a concurrent re-submission for the
// duration of the request pair.
func (s *VoucherService) begin(outlet string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[outlet]; busy {
		return false
	}
	s.inFlight[outlet] = struct{}{}
	return true
}

func (s *VoucherService) end(outlet string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, outlet)
}
