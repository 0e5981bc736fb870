package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/currency-price-tracker/internal/model"
)

type CurrencyRepo struct{ DB *sql.DB }

func NewCurrencyRepo(db *sql.DB) *CurrencyRepo { return &CurrencyRepo{DB: db} }

// ListAll returns every currency ordered by name.
func (r *CurrencyRepo) ListAll(ctx context.Context) ([]model.Currency, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, symbol, introduction_year FROM currencies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Currency
	for rows.Next() {
		var c model.Currency
		if err := rows.Scan(&c.ID, &c.Name, &c.Symbol, &c.IntroductionYear); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of currencies (kept separate for future pagination).
func (r *CurrencyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM currencies").Scan(&n)
	return n, err
}

// GetBySymbol fetches a currency by its upper-cased symbol.
func (r *CurrencyRepo) GetBySymbol(ctx context.Context, symbol string) (model.Currency, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var c model.Currency
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, symbol, introduction_year FROM currencies WHERE symbol=? LIMIT 1",
		symbol).Scan(&c.ID, &c.Name, &c.Symbol, &c.IntroductionYear)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Currency{}, ErrNotFound
	}
	return c, err
}
