// Package queue defines message payloads exchanged over the message broker.
package queue

// PriceInsertedEvent is published when a new price point is stored.  It
// carries enough information for downstream consumers to log, alert or feed
// analytics without querying the primary database.
type PriceInsertedEvent struct {
	PriceID        uint64  `json:"price_id"`
	CurrencySymbol string  `json:"currency_symbol"`
	CurrencyName   string  `json:"currency_name"`
	Value          float64 `json:"value"`
	Date           string  `json:"date"`
	InsertedBy     string  `json:"inserted_by,omitempty"`
	InsertedAt     string  `json:"inserted_at"`
}
