package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuchialin/tripledger/internal/allocation"
	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
	"github.com/yuchialin/tripledger/internal/sheets"
)

func testLedger() model.Ledger {
	return model.Ledger{
		ID:            "l1",
		Name:          "Tokyo 2024",
		SpreadsheetID: "sheet-1",
		SourceRef:     "Expenses",
		Currency:      "JPY",
		ExchangeRate:  0.21,
		MemberNames:   []string{"A", "B", "C"},
	}
}

func newTestSession(t *testing.T) (*Session, *sheets.MockAdapter) {
	t.Helper()
	adapter := sheets.NewMockAdapter()
	s := NewSession(testLedger(), adapter, slog.Default())
	// Collapse the fixed 1s retry delay for tests.
	s.retry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s, adapter
}

func TestRefreshDecodesRecords(t *testing.T) {
	s, adapter := newTestSession(t)
	adapter.Seed("sheet-1", []service.RawRecord{
		{
			RowIndex:     2,
			Date:         "2024-03-02",
			Merchant:     "7-Eleven",
			Item:         "water",
			Category:     "food",
			Kind:         "public",
			PayerName:    "A",
			Currency:     "JPY",
			OriginAmount: 300,
			HomeAmount:   63,
			IsSplit:      true,
			Participants: "A,B",
			SplitDetail:  "A:32(150);B:31(150)",
		},
	})

	require.NoError(t, s.Refresh(context.Background()))

	txns := s.Transactions()
	require.Len(t, txns, 1)

	got := txns[0]
	a, _ := s.Roster.ByName("A")
	b, _ := s.Roster.ByName("B")
	assert.Equal(t, a.ID, got.PayerID)
	assert.Equal(t, []string{a.ID, b.ID}, got.SplitWith)
	assert.Equal(t, model.CategoryFood, got.Category)
	assert.Equal(t, model.KindPublic, got.Kind)
	assert.InDelta(t, 32, got.CustomSplits[a.ID], 1e-9)
	assert.InDelta(t, 0.21, got.EffectiveRate(), 1e-9)
	assert.True(t, got.Persisted())
}

func TestRefreshRetriesThenFails(t *testing.T) {
	s, adapter := newTestSession(t)
	adapter.ListErr = errors.New("boom")

	err := s.Refresh(context.Background())
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
	// Initial attempt plus two retries.
	assert.Len(t, adapter.CallsFor("list"), 3)
}

func TestRefreshReplacesLocalStateWholesale(t *testing.T) {
	s, adapter := newTestSession(t)

	// Unsynced local edit.
	_, err := s.AddPersonal(context.Background(), "local", 100, 21, Meta{Currency: "JPY"})
	require.NoError(t, err)

	// Seed an empty remote snapshot over the mock's store, as if another
	// session had cleared the sheet. The reload wins.
	adapter.Seed("sheet-1", nil)
	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Transactions())
}

func TestConfirmSplitDispatchesAndAppliesLocally(t *testing.T) {
	s, adapter := newTestSession(t)
	a, _ := s.Roster.ByName("A")
	b, _ := s.Roster.ByName("B")

	st := allocation.New(900, 900, a.ID, []string{a.ID, b.ID})
	st.SetCustomShare(a.ID, 400, allocation.SideHome)
	st.SetCustomShare(b.ID, 500, allocation.SideHome)
	res, err := st.Confirm(s.Tolerance)
	require.NoError(t, err)

	txn, err := s.ConfirmSplit(context.Background(), res, Meta{
		Date:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Merchant: "izakaya",
		Category: model.CategoryFood,
		Currency: model.HomeCurrency,
	})
	require.NoError(t, err)

	assert.Len(t, s.Transactions(), 1)
	assert.Equal(t, model.KindPublic, txn.Kind)

	creates := adapter.CallsFor("create")
	require.Len(t, creates, 1)
	assert.Equal(t, "A:400;B:500", creates[0].Record.SplitDetail)
	assert.Equal(t, "A,B", creates[0].Record.Participants)
	assert.Equal(t, "A", creates[0].Record.PayerName)
}

func TestAddPersonalNeverAltersBalances(t *testing.T) {
	s, _ := newTestSession(t)
	b, _ := s.Roster.ByName("B")

	_, err := s.AddPersonal(context.Background(), b.ID, 300, 300, Meta{
		Merchant: "souvenir",
		Category: model.CategoryShopping,
		Currency: model.HomeCurrency,
	})
	require.NoError(t, err)

	summary := s.Balances()
	for id, balance := range summary.Balances {
		assert.Zerof(t, balance, "member %s", id)
	}
	assert.InDelta(t, 300, summary.Consumption[b.ID], 1e-9)
}

func TestUpdateRequiresPositionToken(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.Update(context.Background(), model.Transaction{ID: "x"})
	assert.Error(t, err)
}

func seedSplitForEdit(t *testing.T, s *Session, adapter *sheets.MockAdapter) model.Transaction {
	t.Helper()
	adapter.Seed("sheet-1", []service.RawRecord{
		{
			RowIndex: 2, Date: "2024-03-02", PayerName: "A",
			Currency: model.HomeCurrency, OriginAmount: 900, HomeAmount: 900,
			IsSplit: true, Participants: "A,B", SplitDetail: "A:400;B:500",
		},
	})
	require.NoError(t, s.Refresh(context.Background()))
	return s.Transactions()[0]
}

func TestUpdateReconfirmsEditedSplit(t *testing.T) {
	s, adapter := newTestSession(t)
	txn := seedSplitForEdit(t, s, adapter)
	a, _ := s.Roster.ByName("A")
	b, _ := s.Roster.ByName("B")

	txn.CustomSplits[a.ID] = 450
	txn.CustomSplits[b.ID] = 450
	require.NoError(t, s.Update(context.Background(), txn))

	updates := adapter.CallsFor("update")
	require.Len(t, updates, 1)
	assert.Equal(t, 2, updates[0].RowIndex)
	assert.Equal(t, "A:450;B:450", updates[0].Record.SplitDetail)
}

func TestUpdateRejectsUnbalancedEdit(t *testing.T) {
	s, adapter := newTestSession(t)
	txn := seedSplitForEdit(t, s, adapter)
	a, _ := s.Roster.ByName("A")

	// 100 + 500 against a 900 total.
	txn.CustomSplits[a.ID] = 100

	err := s.Update(context.Background(), txn)
	assert.ErrorIs(t, err, common.ErrUnbalancedAllocation)
	assert.Empty(t, adapter.CallsFor("update"))
}

func TestDeleteRemovesLocallyAndDispatches(t *testing.T) {
	s, adapter := newTestSession(t)
	adapter.Seed("sheet-1", []service.RawRecord{
		{RowIndex: 2, Date: "2024-03-02", PayerName: "A", Currency: "JPY", HomeAmount: 63},
	})
	require.NoError(t, s.Refresh(context.Background()))

	id := s.Transactions()[0].ID
	require.NoError(t, s.Delete(context.Background(), id))

	assert.Empty(t, s.Transactions())
	deletes := adapter.CallsFor("delete")
	require.Len(t, deletes, 1)
	assert.Equal(t, 2, deletes[0].RowIndex)
}

func TestDeleteUnpersistedIsLocalOnly(t *testing.T) {
	s, adapter := newTestSession(t)
	txn, err := s.AddPersonal(context.Background(), "whoever", 10, 10, Meta{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), txn.ID))
	assert.Empty(t, adapter.CallsFor("delete"))
}

// slowCreateAdapter finishes its create attempts on a delayed background
// goroutine, like the real transport does.
type slowCreateAdapter struct {
	*sheets.MockAdapter
	attempted atomic.Bool
}

func (a *slowCreateAdapter) CreateTransaction(_ context.Context, _ model.Ledger, _ service.RawRecord) service.Dispatch {
	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(20 * time.Millisecond)
		a.attempted.Store(true)
	}()
	return service.Dispatch{Done: done}
}

func TestDrainWaitsForDispatchedWrites(t *testing.T) {
	adapter := &slowCreateAdapter{MockAdapter: sheets.NewMockAdapter()}
	s := NewSession(testLedger(), adapter, slog.Default())

	_, err := s.AddPersonal(context.Background(), "someone", 100, 21, Meta{Currency: "JPY"})
	require.NoError(t, err)

	// The transport attempt is still in flight when AddPersonal returns;
	// exiting here would drop the write. Drain holds the process open
	// until the attempt ran.
	require.NoError(t, s.Drain(context.Background()))
	assert.True(t, adapter.attempted.Load())
}

func TestDrainHonorsContextCancellation(t *testing.T) {
	adapter := &slowCreateAdapter{MockAdapter: sheets.NewMockAdapter()}
	s := NewSession(testLedger(), adapter, slog.Default())

	_, err := s.AddPersonal(context.Background(), "someone", 100, 21, Meta{Currency: "JPY"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.Canceled)
}

func TestAddAndRemoveMember(t *testing.T) {
	s, _ := newTestSession(t)

	m, err := s.AddMember("Dana")
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	_, err = s.AddMember("Dana")
	assert.Error(t, err)

	require.NoError(t, s.RemoveMember("Dana"))
	err = s.RemoveMember("Dana")
	assert.ErrorIs(t, err, model.ErrUnknownMember)
}

func TestSuggestMember(t *testing.T) {
	s, _ := newTestSession(t)
	s.Roster = model.NewRoster([]string{"Alice", "Bob"})

	m, ok := s.SuggestMember("Alcie")
	require.True(t, ok)
	assert.Equal(t, "Alice", m.Name)

	_, ok = s.SuggestMember("Zebadiah")
	assert.False(t, ok)
}

func TestScenarioBalancesAfterRefresh(t *testing.T) {
	s, adapter := newTestSession(t)
	adapter.Seed("sheet-1", []service.RawRecord{
		{
			RowIndex: 2, Date: "2024-03-02", PayerName: "A",
			Currency: model.HomeCurrency, OriginAmount: 900, HomeAmount: 900,
			IsSplit: true, Participants: "A,B,C",
		},
		{
			RowIndex: 3, Date: "2024-03-03", PayerName: "B",
			Currency: model.HomeCurrency, OriginAmount: 300, HomeAmount: 300,
		},
	})
	require.NoError(t, s.Refresh(context.Background()))

	summary := s.Balances()
	a, _ := s.Roster.ByName("A")
	b, _ := s.Roster.ByName("B")
	c, _ := s.Roster.ByName("C")

	assert.InDelta(t, 600, summary.Balances[a.ID], 1e-9)
	assert.InDelta(t, -300, summary.Balances[b.ID], 1e-9)
	assert.InDelta(t, -300, summary.Balances[c.ID], 1e-9)
	assert.InDelta(t, 300, summary.Consumption[a.ID], 1e-9)
	assert.InDelta(t, 600, summary.Consumption[b.ID], 1e-9)
	assert.InDelta(t, 300, summary.Consumption[c.ID], 1e-9)
}
