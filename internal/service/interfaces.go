// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/yuchialin/tripledger/internal/model"
)

// RawRecord is one transaction row as the external storage collaborator
// sees it. Member identity travels as display names, not ids; the encoded
// allocation string is the SplitCodec format.
type RawRecord struct {
	RowIndex     int
	Date         string
	Merchant     string
	Item         string
	Category     string
	Kind         string
	PayerName    string
	Currency     string
	OriginAmount float64
	HomeAmount   float64
	IsSplit      bool
	Participants string // comma-separated display names
	SplitDetail  string // SplitCodec-encoded allocation
}

// Dispatch is the result of a fire-and-forget write: it only ever means the
// record was handed to the transport, never that the server durably applied
// it. Err is non-nil when the write could not even be dispatched locally.
// Done closes when the transport attempt finishes, successful or not; the
// session drains it before the process exits so that dispatched writes are
// at least attempted. It never carries the attempt's outcome.
type Dispatch struct {
	Err  error
	Done <-chan struct{}
}

// DispatchError builds a Dispatch that failed before reaching the transport.
func DispatchError(err error) Dispatch {
	done := make(chan struct{})
	close(done)
	return Dispatch{Err: err, Done: done}
}

// SyncAdapter is the only component allowed to perform network I/O against
// the external ledger storage. Reads are awaited; writes are best-effort
// dispatches per the Dispatch contract. Cross-session conflicts are not
// reconciled: a full reload replaces local state wholesale.
type SyncAdapter interface {
	// ListTransactions fetches every raw record of one ledger.
	ListTransactions(ctx context.Context, ledger model.Ledger) ([]RawRecord, error)

	// CreateTransaction appends a record. Fire-and-forget.
	CreateTransaction(ctx context.Context, ledger model.Ledger, rec RawRecord) Dispatch

	// UpdateTransaction rewrites the record at a known position token.
	// Fire-and-forget.
	UpdateTransaction(ctx context.Context, ledger model.Ledger, rowIndex int, rec RawRecord) Dispatch

	// DeleteTransaction removes the record at a position token.
	// Fire-and-forget.
	DeleteTransaction(ctx context.Context, ledger model.Ledger, rowIndex int) Dispatch

	// ListLedgers fetches ledger metadata from the management reference.
	ListLedgers(ctx context.Context, managementRef string) ([]model.Ledger, error)
}

// Extractor turns free-form text or a receipt image into a draft
// transaction for the user to review. Implementations live behind this
// boundary; the engine never depends on a concrete provider.
type Extractor interface {
	DraftFromText(ctx context.Context, text string) (model.Draft, error)
	DraftFromImage(ctx context.Context, image []byte) (model.Draft, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ReadRetryOptions is the schedule for awaited ledger reads: two extra
// attempts with a fixed one-second delay, no jitter.
func ReadRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   1.0,
	}
}
