package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/domain/upstream"
	"github.com/sheba-pos/outlet-gateway/pkg/apperror"
	"github.com/sheba-pos/outlet-gateway/pkg/notify"
)

// minSearchLength gates the catalog search: shorter queries clear the
// results without issuing a request.
const minSearchLength = 3

// OfficeReturnService runs the office-return workflow: catalog search with
// per-product stock fan-out, and per-row stock deductions recorded back to
// head office.
type OfficeReturnService struct {
	api      upstream.Client
	notifier notify.Notifier
	log      *logrus.Logger
	sessions *sessionStore
	now      func() time.Time
}

// NewOfficeReturnService creates a new office-return service. Sessions idle
// longer than ttl are evicted by a background sweep every cleanupEvery.
func NewOfficeReturnService(api upstream.Client, notifier notify.Notifier, log *logrus.Logger, ttl, cleanupEvery time.Duration) *OfficeReturnService {
	return &OfficeReturnService{
		api:      api,
		notifier: notifier,
		log:      log,
		sessions: newSessionStore(ttl, cleanupEvery),
		now:      time.Now,
	}
}

// Close stops the background session sweep.
func (s *OfficeReturnService) Close() {
	s.sessions.stop()
}

// CreateSession opens a return session for one operator at one outlet.
func (s *OfficeReturnService) CreateSession(user entity.OutletUser) *ReturnSession {
	sess := newReturnSession(user.Outlet, user.Name)
	s.sessions.add(sess)
	return sess
}

// Search runs one search cycle: a catalog lookup followed by a concurrent
// stock fetch per result. Each cycle carries a sequence number; a cycle that
// finishes after a newer one has been issued is discarded so stale results
// never overwrite fresher ones.
func (s *OfficeReturnService) Search(ctx context.Context, sessionID uuid.UUID, query string) ([]SearchRow, error) {
	sess := s.sessions.get(sessionID)
	if sess == nil {
		return nil, apperror.ErrSessionNotFound
	}

	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minSearchLength {
		sess.clearResults()
		return []SearchRow{}, nil
	}

	seq := sess.beginCycle()

	products, err := s.api.SearchProducts(ctx, q)
	if err != nil {
		s.log.WithField("query", q).WithError(err).Error("product search failed")
		return nil, apperror.NewUpstreamError("Failed to search products")
	}

	stocks := make([]int, len(products))
	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func(i int, barcode string) {
			defer wg.Done()
			stock, err := s.api.GetOutletStock(ctx, barcode, sess.Outlet)
			if err != nil {
				// One failed lookup defaults that row to zero instead of
				// failing the whole search.
				s.log.WithFields(logrus.Fields{
					"barcode": barcode,
					"outlet":  sess.Outlet,
				}).WithError(err).Warn("stock lookup failed, defaulting to zero")
				stock = 0
			}
			stocks[i] = stock
		}(i, products[i].Barcode)
	}
	wg.Wait()

	if !sess.applyCycle(seq, products, stocks) {
		s.log.WithField("query", q).Debug("discarded stale search cycle")
	}
	return sess.snapshot(), nil
}

// SetQuantity records the quantity the operator intends to return for one
// product. Nothing is sent upstream until the row is submitted.
func (s *OfficeReturnService) SetQuantity(sessionID uuid.UUID, barcode string, quantity int) error {
	sess := s.sessions.get(sessionID)
	if sess == nil {
		return apperror.ErrSessionNotFound
	}
	if quantity < 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "must not be negative"},
		})
	}
	return sess.setQuantity(barcode, quantity)
}

// RowResult reports a submitted row back to the operator.
type RowResult struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
	NewStock int    `json:"new_stock"`
}

// SubmitRow persists one row's return: the outlet stock becomes
// openingStock−officeReturn and a stock transaction is recorded. The new
// stock may go negative; head office accepts it as-is. Rows are independent:
// only the submitted row is gated while its requests are in flight.
func (s *OfficeReturnService) SubmitRow(ctx context.Context, sessionID uuid.UUID, barcode string) (*RowResult, error) {
	sess := s.sessions.get(sessionID)
	if sess == nil {
		return nil, apperror.ErrSessionNotFound
	}

	opening, quantity, err := sess.tryBeginRow(barcode)
	if err != nil {
		return nil, err
	}
	defer sess.endRow(barcode)

	newStock := opening - quantity

	if err := s.api.UpdateOutletStock(ctx, barcode, sess.Outlet, newStock); err != nil {
		s.log.WithFields(logrus.Fields{
			"barcode": barcode,
			"outlet":  sess.Outlet,
		}).WithError(err).Error("stock update failed")
		s.notifier.Error("Failed to update office return")
		return nil, apperror.NewUpstreamError("Failed to update office return")
	}

	txn := &entity.StockTransaction{
		Barcode:  barcode,
		Outlet:   sess.Outlet,
		Type:     entity.StockTransactionOfficeReturn,
		Quantity: quantity,
		Date:     s.now().Format(entity.LedgerTimeLayout),
		User:     sess.User,
	}
	if err := s.api.CreateStockTransaction(ctx, txn); err != nil {
		// The stock update stays in place; flag the missing ledger entry.
		s.log.WithFields(logrus.Fields{
			"barcode":        barcode,
			"outlet":         sess.Outlet,
			"new_stock":      newStock,
			"reconciliation": "required",
		}).WithError(err).Error("stock updated but transaction record failed")
		s.notifier.Error("Failed to update office return")
		return nil, apperror.NewUpstreamError("Failed to update office return")
	}

	sess.commitRow(barcode, newStock)
	s.notifier.Success("Office return updated")

	return &RowResult{Barcode: barcode, Quantity: quantity, NewStock: newStock}, nil
}
