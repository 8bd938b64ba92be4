// Package model defines the core domain types for the trip ledger: members,
// transactions, ledgers, and the numeric conventions shared across the
// engine.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a transaction as shared cost or purely personal.
type Kind string

const (
	// KindPublic is a shared-cost transaction: its amount enters the
	// balance math for every participant.
	KindPublic Kind = "public"
	// KindPrivate is a single-participant transaction: consumption only,
	// never a shared debt.
	KindPrivate Kind = "private"
)

// Transaction is one logged purchase in origin and home currency.
type Transaction struct {
	ID       string
	RowIndex int // external storage position; 0 until first persist
	Date     time.Time
	Merchant string
	Item     string // free text, may span multiple lines
	Category Category

	// Kind is derived from the allocation (exactly one effective
	// participant means private). It is stored so records that carry no
	// participants keep the caller's last explicit choice.
	Kind Kind

	PayerID string

	Currency       string  // origin currency code
	OriginalAmount float64 // amount in origin currency
	HomeAmount     float64 // amount in the ledger's home currency

	IsSplit   bool
	SplitWith []string // participant member ids, ordered; non-empty when IsSplit

	// Custom allocation, absent in equal mode (equal shares are computed
	// on demand and never persisted per member).
	CustomSplits         map[string]float64 // home currency, by member id
	CustomOriginalSplits map[string]float64 // origin currency, by member id

	// ExchangeRate is the ledger's global rate when the transaction was
	// created. Informational only; EffectiveRate is authoritative for
	// per-transaction math.
	ExchangeRate float64
}

// NewTransactionID generates a locally unique transaction token.
func NewTransactionID() string {
	return uuid.NewString()
}

// EffectiveRate is homeAmount / originalAmount for this transaction. It can
// diverge from the ledger's nominal exchange rate when one amount was edited
// without the other. Zero origin amounts yield a zero rate.
func (t *Transaction) EffectiveRate() float64 {
	if t.OriginalAmount == 0 {
		return 0
	}
	return t.HomeAmount / t.OriginalAmount
}

// Participants returns SplitWith filtered of blank ids.
func (t *Transaction) Participants() []string {
	out := make([]string, 0, len(t.SplitWith))
	for _, id := range t.SplitWith {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Persisted reports whether the transaction has an external storage
// position.
func (t *Transaction) Persisted() bool {
	return t.RowIndex > 0
}

// Draft is a proposed transaction produced by the AI extraction boundary.
// It carries no allocation; the user reviews and confirms it through the
// normal allocation path.
type Draft struct {
	Date           time.Time
	Merchant       string
	Item           string
	Category       Category
	Currency       string
	OriginalAmount float64
	HomeAmount     float64
}
