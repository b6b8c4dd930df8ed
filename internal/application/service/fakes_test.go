package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
)

type dueCall struct {
	outlet string
	newDue decimal.Decimal
}

type stockUpdate struct {
	barcode  string
	outlet   string
	newStock int
}

// fakeAPI records every head-office call and delegates behavior to optional
// per-operation hooks.
type fakeAPI struct {
	mu           sync.Mutex
	dueCalls     []dueCall
	transfers    []*entity.MoneyTransfer
	searches     []string
	stockLookups []string
	stockUpdates []stockUpdate
	txns         []*entity.StockTransaction

	updateDueFn   func(outlet string, newDue decimal.Decimal) error
	transferFn    func(transfer *entity.MoneyTransfer) error
	searchFn      func(name string) ([]entity.Product, error)
	stockFn       func(barcode string) (int, error)
	updateStockFn func(barcode string, newStock int) error
	txnFn         func(txn *entity.StockTransaction) error
}

func (f *fakeAPI) UpdateDue(_ context.Context, outlet string, newDue decimal.Decimal) error {
	f.mu.Lock()
	f.dueCalls = append(f.dueCalls, dueCall{outlet: outlet, newDue: newDue})
	fn := f.updateDueFn
	f.mu.Unlock()
	if fn != nil {
		return fn(outlet, newDue)
	}
	return nil
}

func (f *fakeAPI) CreateMoneyTransfer(_ context.Context, transfer *entity.MoneyTransfer) error {
	f.mu.Lock()
	f.transfers = append(f.transfers, transfer)
	fn := f.transferFn
	f.mu.Unlock()
	if fn != nil {
		return fn(transfer)
	}
	return nil
}

func (f *fakeAPI) SearchProducts(_ context.Context, name string) ([]entity.Product, error) {
	f.mu.Lock()
	f.searches = append(f.searches, name)
	fn := f.searchFn
	f.mu.Unlock()
	if fn != nil {
		return fn(name)
	}
	return nil, nil
}

func (f *fakeAPI) GetOutletStock(_ context.Context, barcode, _ string) (int, error) {
	f.mu.Lock()
	f.stockLookups = append(f.stockLookups, barcode)
	fn := f.stockFn
	f.mu.Unlock()
	if fn != nil {
		return fn(barcode)
	}
	return 0, nil
}

func (f *fakeAPI) UpdateOutletStock(_ context.Context, barcode, outlet string, newStock int) error {
	f.mu.Lock()
	f.stockUpdates = append(f.stockUpdates, stockUpdate{barcode: barcode, outlet: outlet, newStock: newStock})
	fn := f.updateStockFn
	f.mu.Unlock()
	if fn != nil {
		return fn(barcode, newStock)
	}
	return nil
}

func (f *fakeAPI) CreateStockTransaction(_ context.Context, txn *entity.StockTransaction) error {
	f.mu.Lock()
	f.txns = append(f.txns, txn)
	fn := f.txnFn
	f.mu.Unlock()
	if fn != nil {
		return fn(txn)
	}
	return nil
}

func (f *fakeAPI) dueCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dueCalls)
}

func (f *fakeAPI) transferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transfers)
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

// fakeNotifier records the operator-facing toasts.
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	n.successes = append(n.successes, message)
	n.mu.Unlock()
}

func (n *fakeNotifier) Error(message string) {
	n.mu.Lock()
	n.errors = append(n.errors, message)
	n.mu.Unlock()
}
