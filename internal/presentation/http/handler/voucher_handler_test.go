package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheba-pos/outlet-gateway/internal/application/service"
	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/request"
	"github.com/sheba-pos/outlet-gateway/pkg/notify"
)

// stubAPI counts head-office calls and succeeds on everything.
type stubAPI struct {
	mu        sync.Mutex
	dueCalls  int
	transfers int
}

func (s *stubAPI) UpdateDue(context.Context, string, decimal.Decimal) error {
	s.mu.Lock()
	s.dueCalls++
	s.mu.Unlock()
	return nil
}

func (s *stubAPI) CreateMoneyTransfer(context.Context, *entity.MoneyTransfer) error {
	s.mu.Lock()
	s.transfers++
	s.mu.Unlock()
	return nil
}

func (s *stubAPI) SearchProducts(context.Context, string) ([]entity.Product, error) {
	return nil, nil
}

func (s *stubAPI) GetOutletStock(context.Context, string, string) (int, error) {
	return 0, nil
}

func (s *stubAPI) UpdateOutletStock(context.Context, string, string, int) error {
	return nil
}

func (s *stubAPI) CreateStockTransaction(context.Context, *entity.StockTransaction) error {
	return nil
}

func setupVoucherRouter(t *testing.T, api *stubAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := request.RegisterValidations(); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := service.NewVoucherService(api, notify.NewLogNotifier(log), log)
	h := NewVoucherHandler(svc)

	router := gin.New()
	router.POST("/api/v1/vouchers", h.Submit)
	return router
}

func postVoucher(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validUser = `{"outlet":"OUT-7","name":"amina","asm":"asm-1","rsm":"rsm-1","zone":"north"}`

func TestSubmitVoucherEndpoint(t *testing.T) {
	api := &stubAPI{}
	router := setupVoucherRouter(t, api)

	w := postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"cash"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"new_due":"300"`) {
		t.Fatalf("expected new due 300 in response, got %s", w.Body.String())
	}
	if api.dueCalls != 1 || api.transfers != 1 {
		t.Fatalf("expected one due call and one transfer, got %d/%d", api.dueCalls, api.transfers)
	}
}

func TestSubmitVoucherBankModeRequiresBank(t *testing.T) {
	api := &stubAPI{}
	router := setupVoucherRouter(t, api)

	w := postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"bank"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if api.dueCalls != 0 {
		t.Fatalf("expected no upstream call, got %d", api.dueCalls)
	}

	// The same form with a bank selected goes through.
	w = postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"bank","bank":"brac_bank"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Switching the mode away from bank drops the requirement.
	w = postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"cheque"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitVoucherRejectsUnknownBankOrMode(t *testing.T) {
	api := &stubAPI{}
	router := setupVoucherRouter(t, api)

	w := postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"crypto"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown mode, got %d", w.Code)
	}

	w = postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":200,"payment_mode":"bank","bank":"unknown_bank"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown bank, got %d", w.Code)
	}
}

func TestSubmitVoucherAmountBounds(t *testing.T) {
	api := &stubAPI{}
	router := setupVoucherRouter(t, api)

	w := postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":600,"payment_mode":"cash"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for amount above due, got %d", w.Code)
	}

	w = postVoucher(router, `{"user":`+validUser+`,"current_due":500,"amount":-1,"payment_mode":"cash"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for negative amount, got %d", w.Code)
	}

	if api.dueCalls != 0 {
		t.Fatalf("expected no upstream calls, got %d", api.dueCalls)
	}
}
