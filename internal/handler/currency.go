package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/repository"
)

type CurrencyHandler struct {
	Currencies *repository.CurrencyRepo
}

func NewCurrencyHandler(c *repository.CurrencyRepo) *CurrencyHandler {
	return &CurrencyHandler{Currencies: c}
}

type currencyPart struct {
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	IntroductionYear int    `json:"introductionYear"`
}

// List sends all supported currencies without internal ids.
func (h *CurrencyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	currencies, err := h.Currencies.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	total, err := h.Currencies.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	records := make([]currencyPart, 0, len(currencies))
	for _, cur := range currencies {
		records = append(records, currencyPart{
			Name:             cur.Name,
			Symbol:           cur.Symbol,
			IntroductionYear: cur.IntroductionYear,
		})
	}
	return c.JSON(http.StatusOK, listOf(records, total))
}
