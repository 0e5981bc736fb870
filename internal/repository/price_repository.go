package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/currency-price-tracker/internal/model"
)

type PriceRepo struct{ DB *sql.DB }

func NewPriceRepo(db *sql.DB) *PriceRepo { return &PriceRepo{DB: db} }

// ListBySymbol returns the price history of a currency, newest first.
func (r *PriceRepo) ListBySymbol(ctx context.Context, symbol string) ([]model.Price, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.currency_id, p.value, p.date
		   FROM prices p JOIN currencies c ON c.id = p.currency_id
		  WHERE c.symbol = ?
		  ORDER BY p.date DESC`,
		strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Price
	for rows.Next() {
		var p model.Price
		if err := rows.Scan(&p.ID, &p.CurrencyID, &p.Value, &p.Date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LastBySymbol returns the most recent price of a currency.
func (r *PriceRepo) LastBySymbol(ctx context.Context, symbol string) (model.Price, error) {
	var p model.Price
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.id, p.currency_id, p.value, p.date
		   FROM prices p JOIN currencies c ON c.id = p.currency_id
		  WHERE c.symbol = ?
		  ORDER BY p.date DESC LIMIT 1`,
		strings.ToUpper(strings.TrimSpace(symbol))).
		Scan(&p.ID, &p.CurrencyID, &p.Value, &p.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Price{}, ErrNotFound
	}
	return p, err
}

// CountBySymbol returns the number of price rows for a currency.
func (r *PriceRepo) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prices p JOIN currencies c ON c.id = p.currency_id WHERE c.symbol = ?`,
		strings.ToUpper(strings.TrimSpace(symbol))).Scan(&n)
	return n, err
}

// Insert stores a new price row and returns it with the generated id.  A
// zero date means "now" and is resolved by the database default.
func (r *PriceRepo) Insert(ctx context.Context, currencyID uint64, value float64, date time.Time) (model.Price, error) {
	var (
		res sql.Result
		err error
	)
	if date.IsZero() {
		date = time.Now().UTC()
	}
	res, err = r.DB.ExecContext(ctx,
		"INSERT INTO prices (currency_id, value, date) VALUES (?,?,?)",
		currencyID, value, date)
	if err != nil {
		return model.Price{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Price{}, err
	}
	return model.Price{ID: uint64(id), CurrencyID: currencyID, Value: value, Date: date}, nil
}

// GetByID fetches one price row.
func (r *PriceRepo) GetByID(ctx context.Context, id uint64) (model.Price, error) {
	var p model.Price
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, currency_id, value, date FROM prices WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.CurrencyID, &p.Value, &p.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Price{}, ErrNotFound
	}
	return p, err
}

// Update overwrites value and date of an existing price row.
func (r *PriceRepo) Update(ctx context.Context, p model.Price) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE prices SET value=?, date=? WHERE id=?",
		p.Value, p.Date, p.ID)
	return err
}
