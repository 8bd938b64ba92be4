// Package ledger owns the in-memory state of one trip ledger session: the
// member roster, the transaction list, and the choreography between
// allocation, codec, settlement, and the sync adapter. There is a single
// logical writer per session; cross-session conflicts are resolved by "last
// full reload wins", never merged.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/yuchialin/tripledger/internal/allocation"
	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
	"github.com/yuchialin/tripledger/internal/settlement"
)

// maxSuggestDistance bounds how far a name may be from a roster name and
// still be offered as a "did you mean" hint.
const maxSuggestDistance = 2

// Meta carries the descriptive fields of a transaction being created, as
// entered by the user or extracted from a draft.
type Meta struct {
	Date     time.Time
	Merchant string
	Item     string
	Category model.Category
	Currency string
}

// Session is the live state of one ledger.
type Session struct {
	logger  *slog.Logger
	adapter service.SyncAdapter

	Ledger model.Ledger
	Roster model.Roster

	// Tolerance is the balance tolerance applied at confirmation, for both
	// new entries and edits.
	Tolerance float64

	retry   service.RetryOptions
	txns    []model.Transaction
	pending []<-chan struct{}
}

// NewSession builds a session for one ledger; the roster is seeded from the
// ledger's member names with fresh local ids.
func NewSession(l model.Ledger, adapter service.SyncAdapter, logger *slog.Logger) *Session {
	return &Session{
		logger:    logger,
		adapter:   adapter,
		Ledger:    l,
		Roster:    model.NewRoster(l.MemberNames),
		Tolerance: allocation.DefaultTolerance,
		retry:     service.ReadRetryOptions(),
	}
}

// Refresh fetches the full remote snapshot and replaces the local
// transaction list wholesale. Concurrent unsynced local edits are discarded
// on purpose: the engine resolves cross-session conflicts, it does not
// reconcile them. The read is retried on the fixed-delay schedule before a
// transport error surfaces.
func (s *Session) Refresh(ctx context.Context) error {
	var records []service.RawRecord

	err := common.WithRetry(ctx, func() error {
		var listErr error
		records, listErr = s.adapter.ListTransactions(ctx, s.Ledger)
		return listErr
	}, s.retry)
	if err != nil {
		return common.NewUserError("failed to load ledger", err)
	}

	txns := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		txns = append(txns, toTransaction(rec, &s.Roster, s.Ledger.ExchangeRate))
	}
	s.txns = txns

	s.logger.Info("ledger refreshed",
		"ledger", s.Ledger.Name,
		"transactions", len(txns))

	return nil
}

// Transactions returns a copy of the in-memory transaction list.
func (s *Session) Transactions() []model.Transaction {
	return append([]model.Transaction(nil), s.txns...)
}

// ConfirmSplit turns a confirmed allocation into a transaction, dispatches
// the create, and applies it locally. Local state changes only after the
// dispatch was handed to the transport; per the Dispatch contract there is
// no durability guarantee beyond that.
func (s *Session) ConfirmSplit(ctx context.Context, res *allocation.Result, meta Meta) (model.Transaction, error) {
	t := model.Transaction{
		ID:                   model.NewTransactionID(),
		Date:                 meta.Date,
		Merchant:             meta.Merchant,
		Item:                 meta.Item,
		Category:             meta.Category,
		Kind:                 res.Kind,
		PayerID:              res.PayerID,
		Currency:             meta.Currency,
		OriginalAmount:       res.OriginTotal,
		HomeAmount:           res.HomeTotal,
		IsSplit:              true,
		SplitWith:            res.Participants,
		CustomSplits:         res.HomeShares,
		CustomOriginalSplits: res.OriginShares,
		ExchangeRate:         s.Ledger.ExchangeRate,
	}

	return s.append(ctx, t)
}

// AddPersonal logs a non-split transaction: it affects only the payer's
// consumption, never balances.
func (s *Session) AddPersonal(ctx context.Context, payerID string, originAmount, homeAmount float64, meta Meta) (model.Transaction, error) {
	t := model.Transaction{
		ID:             model.NewTransactionID(),
		Date:           meta.Date,
		Merchant:       meta.Merchant,
		Item:           meta.Item,
		Category:       meta.Category,
		Kind:           model.KindPrivate,
		PayerID:        payerID,
		Currency:       meta.Currency,
		OriginalAmount: originAmount,
		HomeAmount:     homeAmount,
		IsSplit:        false,
		ExchangeRate:   s.Ledger.ExchangeRate,
	}

	return s.append(ctx, t)
}

func (s *Session) append(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	rec := toRecord(&t, &s.Roster)
	d := s.adapter.CreateTransaction(ctx, s.Ledger, rec)
	if d.Err != nil {
		return model.Transaction{}, common.NewUserError("failed to dispatch transaction", d.Err)
	}
	s.track(d)

	s.txns = append(s.txns, t)
	return t, nil
}

// StateFor rebuilds the allocation behind a split transaction so an edit
// runs through the same confirmation checks a new entry does. Custom home
// shares are re-derived from the origin shares through the effective rate.
func (s *Session) StateFor(t model.Transaction) *allocation.State {
	st := allocation.New(t.HomeAmount, t.OriginalAmount, t.PayerID, t.SplitWith)
	if t.Currency != model.HomeCurrency {
		st.EntrySide = allocation.SideOrigin
	}

	switch {
	case len(t.CustomOriginalSplits) > 0:
		for id, v := range t.CustomOriginalSplits {
			st.SetCustomShare(id, v, allocation.SideOrigin)
		}
	case len(t.CustomSplits) > 0:
		for id, v := range t.CustomSplits {
			st.SetCustomShare(id, v, allocation.SideHome)
		}
	}
	return st
}

// Update rewrites an existing transaction remotely and in memory. The
// transaction must have been persisted at least once so a position token
// exists, and an edited split re-runs the confirmation checks: an edit
// that unbalances the allocation is rejected before anything is dispatched.
func (s *Session) Update(ctx context.Context, t model.Transaction) error {
	if !t.Persisted() {
		return fmt.Errorf("transaction %s has no storage position yet", t.ID)
	}

	if t.IsSplit {
		res, err := s.StateFor(t).Confirm(s.Tolerance)
		if err != nil {
			return err
		}
		t.Kind = res.Kind
	}

	rec := toRecord(&t, &s.Roster)
	d := s.adapter.UpdateTransaction(ctx, s.Ledger, t.RowIndex, rec)
	if d.Err != nil {
		return common.NewUserError("failed to dispatch update", d.Err)
	}
	s.track(d)

	for i := range s.txns {
		if s.txns[i].ID == t.ID {
			s.txns[i] = t
			return nil
		}
	}
	return fmt.Errorf("transaction %s not in local ledger", t.ID)
}

// Delete removes a transaction from the in-memory ledger and issues a
// best-effort remote delete keyed by the position token.
func (s *Session) Delete(ctx context.Context, id string) error {
	idx := -1
	for i := range s.txns {
		if s.txns[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("transaction %s not in local ledger", id)
	}

	t := s.txns[idx]
	s.txns = append(s.txns[:idx], s.txns[idx+1:]...)

	if t.Persisted() {
		d := s.adapter.DeleteTransaction(ctx, s.Ledger, t.RowIndex)
		if d.Err != nil {
			s.logger.Warn("remote delete not dispatched",
				"transaction", id,
				"error", d.Err)
		} else {
			s.track(d)
		}
	}

	return nil
}

func (s *Session) track(d service.Dispatch) {
	if d.Done != nil {
		s.pending = append(s.pending, d.Done)
	}
}

// Drain blocks until every write this session handed to the transport has
// finished its attempt. It says nothing about server acknowledgment; it
// only keeps a one-shot command from exiting under an in-flight dispatch,
// which would drop the write before it was ever attempted.
func (s *Session) Drain(ctx context.Context) error {
	for _, done := range s.pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.pending = nil
	return nil
}

// AddMember adds a named member to the session roster. The change is
// session-local; the management sheet's member list is not rewritten.
func (s *Session) AddMember(name string) (model.Member, error) {
	if name == "" {
		return model.Member{}, fmt.Errorf("member name must not be empty")
	}
	if _, ok := s.Roster.ByName(name); ok {
		return model.Member{}, fmt.Errorf("member %q is already on the roster", name)
	}
	return s.Roster.Add(name), nil
}

// RemoveMember removes a member by display name. The last member cannot be
// removed. References to the member in existing transactions are left to
// dangle and show up as raw names in the settlement view.
func (s *Session) RemoveMember(name string) error {
	m, ok := s.Roster.ByName(name)
	if !ok {
		return fmt.Errorf("member %q: %w", name, model.ErrUnknownMember)
	}
	return s.Roster.Remove(m.ID)
}

// Balances aggregates the current transaction list into the settlement
// view.
func (s *Session) Balances() settlement.Summary {
	return settlement.Summarize(s.txns, s.Roster.Members)
}

// DisplayName resolves a member id for display, degrading to the raw id on
// dangling references.
func (s *Session) DisplayName(id string) string {
	return s.Roster.DisplayName(id)
}

// SuggestMember offers the roster member whose name is closest to an
// unresolved name, for "did you mean" hints on dangling references.
func (s *Session) SuggestMember(name string) (model.Member, bool) {
	best := model.Member{}
	bestDist := maxSuggestDistance + 1
	for _, m := range s.Roster.Members {
		if d := levenshtein.ComputeDistance(name, m.Name); d < bestDist {
			best = m
			bestDist = d
		}
	}
	return best, bestDist <= maxSuggestDistance
}
