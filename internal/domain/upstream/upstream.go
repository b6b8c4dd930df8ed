package upstream

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
)

// ErrRejected is returned when the head office accepts the request but
// reports a non-success result.
var ErrRejected = errors.New("head office rejected the update")

// Client defines the head-office API operations the workflows depend on.
// The head office owns every record behind these calls; the gateway never
// caches their state beyond the current session.
type Client interface {
	// UpdateDue replaces the outlet's recorded due balance.
	UpdateDue(ctx context.Context, outlet string, newDue decimal.Decimal) error
	// CreateMoneyTransfer records a money transfer ledger entry.
	CreateMoneyTransfer(ctx context.Context, transfer *entity.MoneyTransfer) error
	// SearchProducts looks up catalog products by name.
	SearchProducts(ctx context.Context, name string) ([]entity.Product, error)
	// GetOutletStock returns the current stock of one product at one outlet.
	GetOutletStock(ctx context.Context, barcode, outlet string) (int, error)
	// UpdateOutletStock replaces the stock count of one product at one outlet.
	UpdateOutletStock(ctx context.Context, barcode, outlet string, newStock int) error
	// CreateStockTransaction records a stock transaction ledger entry.
	CreateStockTransaction(ctx context.Context, txn *entity.StockTransaction) error
}
