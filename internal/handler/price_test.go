package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/currency-price-tracker/internal/model"
	"github.com/iliyamo/currency-price-tracker/internal/queue"
	"github.com/iliyamo/currency-price-tracker/internal/repository"
	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

// In-memory stores backing the price handlers under test.

type memCurrencies struct{ currencies []model.Currency }

func (f *memCurrencies) GetBySymbol(_ context.Context, symbol string) (model.Currency, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, c := range f.currencies {
		if c.Symbol == symbol {
			return c, nil
		}
	}
	return model.Currency{}, repository.ErrNotFound
}

// memPrices keeps rows per upper-cased symbol, newest first, the order the
// SQL repository returns them in.
type memPrices struct {
	bySymbol map[string][]model.Price
	nextID   uint64
}

func (f *memPrices) rows(symbol string) []model.Price {
	return f.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
}

func (f *memPrices) ListBySymbol(_ context.Context, symbol string) ([]model.Price, error) {
	return f.rows(symbol), nil
}

func (f *memPrices) LastBySymbol(_ context.Context, symbol string) (model.Price, error) {
	rows := f.rows(symbol)
	if len(rows) == 0 {
		return model.Price{}, repository.ErrNotFound
	}
	return rows[0], nil
}

func (f *memPrices) CountBySymbol(_ context.Context, symbol string) (int, error) {
	return len(f.rows(symbol)), nil
}

func (f *memPrices) Insert(_ context.Context, currencyID uint64, value float64, date time.Time) (model.Price, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	f.nextID++
	return model.Price{ID: f.nextID, CurrencyID: currencyID, Value: value, Date: date}, nil
}

func (f *memPrices) GetByID(_ context.Context, id uint64) (model.Price, error) {
	for _, rows := range f.bySymbol {
		for _, p := range rows {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return model.Price{}, repository.ErrNotFound
}

func (f *memPrices) Update(_ context.Context, _ model.Price) error { return nil }

func testPriceHandler() (*PriceHandler, *[]queue.PriceInsertedEvent) {
	cur := &memCurrencies{currencies: []model.Currency{
		{ID: 1, Name: "Bitcoin", Symbol: "BTC", IntroductionYear: 2009},
	}}
	prices := &memPrices{bySymbol: map[string][]model.Price{
		"BTC": {
			{ID: 2, CurrencyID: 1, Value: 68000.5, Date: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)},
			{ID: 1, CurrencyID: 1, Value: 67000.25, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
	}, nextID: 2}

	h := NewPriceHandler(cur, prices)
	var published []queue.PriceInsertedEvent
	h.Publish = func(_ context.Context, event queue.PriceInsertedEvent) error {
		published = append(published, event)
		return nil
	}
	return h, &published
}

// priceRequest builds a context with the :symbol route param set.  A non-nil
// payload simulates a request that passed the JWT middleware.
func priceRequest(method, symbol, body string, payload *utils.AccessPayload) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/price/"+symbol, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("symbol")
	c.SetParamValues(symbol)
	if payload != nil {
		c.Set("jwt_payload", *payload)
	}
	return c, rec
}

func adminPayload() *utils.AccessPayload {
	return &utils.AccessPayload{UserID: 1, Username: "admin", Role: model.RoleAdmin}
}

func TestPriceListHidesIDsFromAnonymous(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	c, rec := priceRequest(http.MethodGet, "BTC", "", nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.NotContains(t, body, `"id"`)
	require.Contains(t, body, `"totalRecords":2`)
	require.Contains(t, body, `"value":68000.5`)
}

func TestPriceListShowsIDsToAuthenticated(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	c, rec := priceRequest(http.MethodGet, "BTC", "", adminPayload())
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `"id":2`)
	require.Contains(t, body, `"id":1`)
}

func TestPriceLastIdentityVisibility(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	// Anonymous: the newest value without its id.
	c, rec := priceRequest(http.MethodGet, "BTC", "", nil)
	require.NoError(t, h.Last(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"value":68000.5`)
	require.NotContains(t, rec.Body.String(), `"id"`)

	// Authenticated: the same record with its id.
	c, rec = priceRequest(http.MethodGet, "BTC", "", adminPayload())
	require.NoError(t, h.Last(c))
	require.Contains(t, rec.Body.String(), `"id":2`)
}

func TestPriceHistoryNotFound(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	// Empty history responds 404, for List and Last alike.
	c, rec := priceRequest(http.MethodGet, "DOGE", "", nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = priceRequest(http.MethodGet, "DOGE", "", nil)
	require.NoError(t, h.Last(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPriceCreateResponseShape(t *testing.T) {
	t.Parallel()
	h, published := testPriceHandler()

	c, rec := priceRequest(http.MethodPost, "BTC", `{"value":123.45,"date":"2024-02-01"}`, adminPayload())
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `"record"`)
	require.Contains(t, body, `"text":"New price inserted Ok"`)
	// The inserted record always carries its id: only an authenticated
	// caller can get here.
	require.Contains(t, body, `"id":3`)
	require.Contains(t, body, `"value":123.45`)

	require.Len(t, *published, 1)
	event := (*published)[0]
	require.Equal(t, uint64(3), event.PriceID)
	require.Equal(t, "BTC", event.CurrencySymbol)
	require.Equal(t, "admin", event.InsertedBy)
}

func TestPriceCreateAcceptsNumericString(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	c, rec := priceRequest(http.MethodPost, "BTC", `{"value":"123.45"}`, adminPayload())
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestPriceCreateRejectsBadValue(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	c, rec := priceRequest(http.MethodPost, "BTC", `{"value":"not-a-number"}`, adminPayload())
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "value must be a number")
}

func TestPriceCreateUnknownCurrency(t *testing.T) {
	t.Parallel()
	h, _ := testPriceHandler()

	c, rec := priceRequest(http.MethodPost, "DOGE", `{"value":1.5}`, adminPayload())
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
