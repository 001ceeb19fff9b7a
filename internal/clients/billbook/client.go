// Package billbook implements the client for the remote billing system's web
// API: catalog items plus sales and expense vouchers, all paginated.
package billbook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"inventory-automation-service/internal/clients"
	"inventory-automation-service/internal/models"
)

const (
	defaultItemPageSize    = 500
	defaultVoucherPageSize = 15

	// Default voucher lookback when the caller gives no range.
	defaultVoucherWindow = 365 * 24 * time.Hour
)

// Config carries the credentials and tuning for the billing API.
type Config struct {
	BaseURL         string
	AuthToken       string
	CompanyID       string
	ItemPageSize    int
	VoucherPageSize int
}

// Client is a rate-limited, retrying billing API client.
type Client struct {
	httpClient  *http.Client
	retrier     *clients.Retrier
	rateLimiter *rate.Limiter
	logger      *logrus.Entry

	baseURL         string
	authToken       string
	companyID       string
	itemPageSize    int
	voucherPageSize int
}

// NewClient creates a billing API client. The API throttles around 2 rps per
// session, so the limiter stays below that.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	if cfg.ItemPageSize <= 0 {
		cfg.ItemPageSize = defaultItemPageSize
	}
	if cfg.VoucherPageSize <= 0 {
		cfg.VoucherPageSize = defaultVoucherPageSize
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		retrier:         clients.NewRetrier(nil),
		rateLimiter:     rate.NewLimiter(rate.Limit(2), 1),
		logger:          log.WithField("component", "billbook-client"),
		baseURL:         cfg.BaseURL,
		authToken:       cfg.AuthToken,
		companyID:       cfg.CompanyID,
		itemPageSize:    cfg.ItemPageSize,
		voucherPageSize: cfg.VoucherPageSize,
	}
}

// HasCredentials reports whether the client is configured to authenticate.
func (c *Client) HasCredentials() bool {
	return c.authToken != "" && c.companyID != ""
}

// TestConnection probes the items stats endpoint to verify auth.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/items/stats", nil)
	return err
}

// FetchCatalog retrieves every catalog item, following pagination until an
// empty or short page.
func (c *Client) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.itemPageSize))

		body, err := c.doRequest(ctx, "/items", params)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog page %d: %w", page, err)
		}

		var resp itemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parse catalog page %d: %w", page, err)
		}

		for _, it := range resp.InventoryItems {
			items = append(items, convertItem(it))
		}

		c.logger.WithFields(logrus.Fields{
			"page":  page,
			"count": len(resp.InventoryItems),
			"total": len(items),
		}).Debug("Fetched catalog page")

		if len(resp.InventoryItems) == 0 || len(resp.InventoryItems) < c.itemPageSize {
			break
		}
	}

	return items, nil
}

// FetchSalesInvoices retrieves final sales vouchers in the given date range,
// defaulting to the last year.
func (c *Client) FetchSalesInvoices(ctx context.Context, start, end time.Time) ([]models.SalesInvoice, error) {
	vouchers, err := c.fetchVouchers(ctx, "sales_invoice", "final", start, end)
	if err != nil {
		return nil, err
	}

	invoices := make([]models.SalesInvoice, 0, len(vouchers))
	for _, v := range vouchers {
		invoices = append(invoices, convertInvoice(v))
	}
	return invoices, nil
}

// FetchExpenses retrieves expense vouchers in the given date range,
// defaulting to the last year.
func (c *Client) FetchExpenses(ctx context.Context, start, end time.Time) ([]models.Expense, error) {
	vouchers, err := c.fetchVouchers(ctx, "expense", "", start, end)
	if err != nil {
		return nil, err
	}

	expenses := make([]models.Expense, 0, len(vouchers))
	for _, v := range vouchers {
		expenses = append(expenses, convertExpense(v))
	}
	return expenses, nil
}

func (c *Client) fetchVouchers(ctx context.Context, voucherType, status string, start, end time.Time) ([]apiVoucher, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.Add(-defaultVoucherWindow)
	}

	var all []apiVoucher

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.voucherPageSize))
		params.Set("status", status)
		params.Set("start_date", start.Format("2006-01-02"))
		params.Set("end_date", end.Format("2006-01-02"))
		params.Set("sort_by", "voucher_date")
		params.Set("sort_order", "")
		params.Set("voucher_type", voucherType)
		params.Set("filter", "true")

		body, err := c.doRequest(ctx, "/vouchers", params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", voucherType, page, err)
		}

		var resp vouchersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parse %s page %d: %w", voucherType, page, err)
		}

		all = append(all, resp.Vouchers...)

		c.logger.WithFields(logrus.Fields{
			"voucherType": voucherType,
			"page":        page,
			"count":       len(resp.Vouchers),
			"total":       len(all),
		}).Debug("Fetched voucher page")

		if len(resp.Vouchers) == 0 || len(resp.Vouchers) < c.voucherPageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	resp, err := c.retrier.DoHTTP(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.authToken)
		req.Header.Set("Client", "web")
		req.Header.Set("Company-Id", c.companyID)
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("billing API authentication failed (status 401)")
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("billing API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
