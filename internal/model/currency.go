package model

import "time"

// Currency represents a row in the `currencies` table.  Symbols are stored
// upper-cased and are the public lookup key for price history.
type Currency struct {
	ID               uint64
	Name             string
	Symbol           string
	IntroductionYear int
}

// Price represents one historical price point of a currency.  Date defaults
// to the insertion time when the client does not provide one.
type Price struct {
	ID         uint64
	CurrencyID uint64
	Value      float64
	Date       time.Time
}
