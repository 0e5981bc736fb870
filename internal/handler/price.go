package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/middleware"
	"github.com/iliyamo/currency-price-tracker/internal/model"
	"github.com/iliyamo/currency-price-tracker/internal/queue"
	"github.com/iliyamo/currency-price-tracker/internal/repository"
	queue_publisher "github.com/iliyamo/currency-price-tracker/internal/service"
	"github.com/iliyamo/currency-price-tracker/internal/validator"
)

// CurrencyStore is the currency lookup surface the price handlers need.
type CurrencyStore interface {
	GetBySymbol(ctx context.Context, symbol string) (model.Currency, error)
}

// PriceStore is the price persistence surface of the handlers.  The SQL
// repository satisfies it.
type PriceStore interface {
	ListBySymbol(ctx context.Context, symbol string) ([]model.Price, error)
	LastBySymbol(ctx context.Context, symbol string) (model.Price, error)
	CountBySymbol(ctx context.Context, symbol string) (int, error)
	Insert(ctx context.Context, currencyID uint64, value float64, date time.Time) (model.Price, error)
	GetByID(ctx context.Context, id uint64) (model.Price, error)
	Update(ctx context.Context, p model.Price) error
}

// PriceHandler serves price history reads and the admin-facing insert/edit
// operations.  Reads are public but hide record ids from anonymous callers;
// writes require an authenticated session.  Publish is called best-effort
// after each successful insert.
type PriceHandler struct {
	Currencies CurrencyStore
	Prices     PriceStore
	Publish    func(ctx context.Context, event queue.PriceInsertedEvent) error
}

func NewPriceHandler(cur CurrencyStore, pr PriceStore) *PriceHandler {
	return &PriceHandler{Currencies: cur, Prices: pr, Publish: queue_publisher.PublishPriceInserted}
}

// pricePart is the client shape of a price row.  ID is zero (and omitted)
// for anonymous requests.
type pricePart struct {
	ID    uint64    `json:"id,omitempty"`
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

type priceBody struct {
	Value interface{} `json:"value"`
	Date  string      `json:"date"`
}

// List sends the price history for a currency symbol, newest first.
// Responds 404 when the currency has no prices.
func (h *PriceHandler) List(c echo.Context) error {
	symbol := c.Param("symbol")
	_, loggedIn := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prices, err := h.Prices.ListBySymbol(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(prices) == 0 {
		return c.NoContent(http.StatusNotFound)
	}
	total, err := h.Prices.CountBySymbol(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	records := make([]pricePart, 0, len(prices))
	for _, p := range prices {
		records = append(records, toPricePart(p, loggedIn))
	}
	return c.JSON(http.StatusOK, listOf(records, total))
}

// Last sends the most recent price for a currency symbol.
func (h *PriceHandler) Last(c echo.Context) error {
	symbol := c.Param("symbol")
	_, loggedIn := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	price, err := h.Prices.LastBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toPricePart(price, loggedIn))
}

// Create inserts a new price for a currency and publishes a price.inserted
// event.  The event is best-effort; a broker outage never fails the insert.
func (h *PriceHandler) Create(c echo.Context) error {
	symbol := c.Param("symbol")

	var body priceBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	value := coerceValue(body.Value)
	if errs := validator.ValidatePriceCreate(value, body.Date); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	currency, err := h.Currencies.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	val, _ := strconv.ParseFloat(value, 64)
	var date time.Time
	if body.Date != "" {
		date, _ = validator.ParseDate(body.Date)
	}

	record, err := h.Prices.Insert(ctx, currency.ID, val, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert failed"})
	}

	event := queue.PriceInsertedEvent{
		PriceID:        record.ID,
		CurrencySymbol: currency.Symbol,
		CurrencyName:   currency.Name,
		Value:          record.Value,
		Date:           record.Date.UTC().Format(time.RFC3339),
		InsertedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if p, ok := middleware.Identity(c); ok {
		event.InsertedBy = p.Username
	}
	_ = h.Publish(ctx, event)

	return c.JSON(http.StatusCreated, echo.Map{
		"record": toPricePart(record, true),
		"text":   "New price inserted Ok",
	})
}

// Edit modifies the value and/or date of an existing price row.
func (h *PriceHandler) Edit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	var body priceBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	value := coerceValue(body.Value)
	if errs := validator.ValidatePriceUpdate(value, body.Date); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	record, err := h.Prices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if value != "" {
		record.Value, _ = strconv.ParseFloat(value, 64)
	}
	if body.Date != "" {
		record.Date, _ = validator.ParseDate(body.Date)
	}

	if err := h.Prices.Update(ctx, record); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"record": toPricePart(record, true),
		"text":   "Price modified Ok",
	})
}

func toPricePart(p model.Price, showID bool) pricePart {
	part := pricePart{Value: p.Value, Date: p.Date}
	if showID {
		part.ID = p.ID
	}
	return part
}

// coerceValue accepts JSON numbers and numeric strings for the price value.
func coerceValue(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	}
	return ""
}
