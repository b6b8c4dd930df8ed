package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheba-pos/outlet-gateway/internal/config"
	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/domain/upstream"
)

// Client is the HTTP implementation of the head-office API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient creates a head-office API client from the upstream configuration.
func NewClient(cfg *config.UpstreamConfig, log *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

var _ upstream.Client = (*Client)(nil)

type updateDueRequest struct {
	Outlet     string      `json:"outlet"`
	CurrentDue json.Number `json:"currentDue"`
}

type updateDueResponse struct {
	Success bool `json:"success"`
}

// UpdateDue replaces the outlet's due balance. The wire field is named
// currentDue but carries the new balance, matching the head-office contract.
func (c *Client) UpdateDue(ctx context.Context, outlet string, newDue decimal.Decimal) error {
	body := updateDueRequest{
		Outlet:     outlet,
		CurrentDue: json.Number(newDue.String()),
	}
	var out updateDueResponse
	if err := c.do(ctx, http.MethodPut, "/update-due", nil, body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("update due for outlet %s: %w", outlet, upstream.ErrRejected)
	}
	return nil
}

type moneyTransferRequest struct {
	Outlet      string      `json:"outlet"`
	Amount      json.Number `json:"amount"`
	ASM         string      `json:"asm"`
	RSM         string      `json:"rsm"`
	Zone        string      `json:"zone"`
	Type        string      `json:"type"`
	PaymentMode string      `json:"paymentMode"`
	Bank        string      `json:"bank"`
	Date        string      `json:"date"`
	CreatedBy   string      `json:"createdBy"`
}

// CreateMoneyTransfer records a money transfer ledger entry. The response
// body is ignored beyond success or failure.
func (c *Client) CreateMoneyTransfer(ctx context.Context, transfer *entity.MoneyTransfer) error {
	body := moneyTransferRequest{
		Outlet:      transfer.Outlet,
		Amount:      json.Number(transfer.Amount.String()),
		ASM:         transfer.ASM,
		RSM:         transfer.RSM,
		Zone:        transfer.Zone,
		Type:        transfer.Type,
		PaymentMode: transfer.PaymentMode.String(),
		Bank:        transfer.Bank.String(),
		Date:        transfer.Date,
		CreatedBy:   transfer.CreatedBy,
	}
	return c.do(ctx, http.MethodPost, "/money-transfer", nil, body, nil)
}

// SearchProducts looks up catalog products by name.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]entity.Product, error) {
	query := url.Values{}
	query.Set("search", name)
	query.Set("type", "name")

	var products []entity.Product
	if err := c.do(ctx, http.MethodGet, "/search-product", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

type outletStockResponse struct {
	Stock int `json:"stock"`
}

// GetOutletStock returns the current stock of one product at one outlet.
func (c *Client) GetOutletStock(ctx context.Context, barcode, outlet string) (int, error) {
	query := url.Values{}
	query.Set("barcode", barcode)
	query.Set("outlet", outlet)

	var out outletStockResponse
	if err := c.do(ctx, http.MethodGet, "/outlet-stock", query, nil, &out); err != nil {
		return 0, err
	}
	return out.Stock, nil
}

type updateStockRequest struct {
	Barcode  string `json:"barcode"`
	Outlet   string `json:"outlet"`
	NewStock int    `json:"newStock"`
}

// UpdateOutletStock replaces the stock count of one product at one outlet.
func (c *Client) UpdateOutletStock(ctx context.Context, barcode, outlet string, newStock int) error {
	body := updateStockRequest{
		Barcode:  barcode,
		Outlet:   outlet,
		NewStock: newStock,
	}
	return c.do(ctx, http.MethodPut, "/update-outlet-stock", nil, body, nil)
}

// CreateStockTransaction records a stock transaction ledger entry.
func (c *Client) CreateStockTransaction(ctx context.Context, txn *entity.StockTransaction) error {
	return c.do(ctx, http.MethodPost, "/stock-transactions", nil, txn, nil)
}

// do issues one JSON request and decodes the response into out when given.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Error("head office API returned an error status")
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
