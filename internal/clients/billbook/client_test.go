package billbook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:         baseURL,
		AuthToken:       "Bearer test-token",
		CompanyID:       "company-42",
		ItemPageSize:    2,
		VoucherPageSize: 2,
	}, nil)
}

func timeZero() time.Time { return time.Time{} }

func TestHasCredentials(t *testing.T) {
	assert.True(t, newTestClient("http://x").HasCredentials())
	assert.False(t, NewClient(Config{}, nil).HasCredentials())
	assert.False(t, NewClient(Config{AuthToken: "t"}, nil).HasCredentials())
}

func TestFetchCatalogFollowsPagination(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		page := r.URL.Query().Get("page")
		pages = append(pages, page)

		switch page {
		case "1":
			fmt.Fprint(w, `{"inventory_items":[{"id":1,"name":"Rings Gold ABCD"},{"id":2,"name":"Rings Silver WXYZ"}],"total_count":3}`)
		default:
			fmt.Fprint(w, `{"inventory_items":[{"id":3,"name":"Earrings Gold QQQQ"}],"total_count":3}`)
		}
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []string{"1", "2"}, pages) // page 2 is short, so no page 3
	assert.Equal(t, int64(3), items[2].ID)
	assert.Equal(t, "Earrings Gold QQQQ", items[2].Name)
}

func TestFetchCatalogStopsOnEmptyPage(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"inventory_items":[{"id":1},{"id":2}]}`)
			return
		}
		fmt.Fprint(w, `{"inventory_items":[]}`)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, requests)
}

func TestFetchCatalogSendsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "web", r.Header.Get("Client"))
		assert.Equal(t, "company-42", r.Header.Get("Company-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"inventory_items":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.NoError(t, err)
}

func TestFetchCatalogToleratesStringAndNullNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"inventory_items":[{"id":1,"name":"Rings Gold ABCD","purchase_price":"1199.50","selling_price":null,"quantity":7}]}`)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1199.50, items[0].PurchasePrice)
	assert.Equal(t, 0.0, items[0].SellingPrice)
	assert.Equal(t, 7.0, items[0].Quantity)
}

func TestFetchCatalogUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.Error(t, err)
	assert.ErrorContains(t, err, "authentication failed")
}

func TestFetchSalesInvoicesFiltersFinalVouchers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vouchers", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "sales_invoice", q.Get("voucher_type"))
		assert.Equal(t, "final", q.Get("status"))
		assert.Equal(t, "voucher_date", q.Get("sort_by"))
		assert.Equal(t, "true", q.Get("filter"))
		assert.NotEmpty(t, q.Get("start_date"))
		assert.NotEmpty(t, q.Get("end_date"))

		fmt.Fprint(w, `{"vouchers":[{"id":9,"voucher_number":"INV-9","voucher_date":"2026-08-01","party_name":"Walk-in","status":"final","total_amount":"150","amount_paid":150,"balance_amount":0}]}`)
	}))
	defer srv.Close()

	invoices, err := newTestClient(srv.URL).FetchSalesInvoices(context.Background(), timeZero(), timeZero())

	assert.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.Equal(t, "INV-9", invoices[0].VoucherNumber)
	assert.Equal(t, 150.0, invoices[0].TotalAmount)
}

func TestFetchExpensesUsesExpenseVoucherType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "expense", q.Get("voucher_type"))
		assert.Equal(t, "", q.Get("status"))

		fmt.Fprint(w, `{"vouchers":[{"id":4,"voucher_number":"EXP-4","expense_category_name":"Packaging","total_amount":75}]}`)
	}))
	defer srv.Close()

	expenses, err := newTestClient(srv.URL).FetchExpenses(context.Background(), timeZero(), timeZero())

	assert.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.Equal(t, "Packaging", expenses[0].Category)
	assert.Equal(t, 75.0, expenses[0].TotalAmount)
}

func TestTestConnectionProbesStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/stats", r.URL.Path)
		fmt.Fprint(w, `{"total_count":3}`)
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(srv.URL).TestConnection(context.Background()))
}

func TestAPIFloatUnmarshal(t *testing.T) {
	var payload struct {
		A apiFloat `json:"a"`
		B apiFloat `json:"b"`
		C apiFloat `json:"c"`
		D apiFloat `json:"d"`
	}

	err := json.Unmarshal([]byte(`{"a":12.5,"b":"42","c":null,"d":""}`), &payload)

	assert.NoError(t, err)
	assert.Equal(t, apiFloat(12.5), payload.A)
	assert.Equal(t, apiFloat(42), payload.B)
	assert.Equal(t, apiFloat(0), payload.C)
	assert.Equal(t, apiFloat(0), payload.D)
}
