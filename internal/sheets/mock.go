package sheets

import (
	"context"
	"sync"

	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
)

// MockAdapter is an in-memory implementation of service.SyncAdapter for
// testing. Records are kept per spreadsheet id; writes complete
// synchronously before Done closes.
type MockAdapter struct {
	ListErr    error
	LedgersErr error
	WriteErr   error // injected into dispatches; still only logged-style, surfaced via Calls

	Ledgers []model.Ledger

	mu      sync.Mutex
	records map[string][]service.RawRecord
	Calls   []MockCall
}

// MockCall records one adapter invocation.
type MockCall struct {
	Op       string
	LedgerID string
	RowIndex int
	Record   service.RawRecord
	Err      error
}

// NewMockAdapter creates an empty mock adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{records: make(map[string][]service.RawRecord)}
}

// Seed replaces the stored records of a spreadsheet.
func (m *MockAdapter) Seed(spreadsheetID string, records []service.RawRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[spreadsheetID] = append([]service.RawRecord(nil), records...)
}

// Records returns a copy of a spreadsheet's stored records.
func (m *MockAdapter) Records(spreadsheetID string) []service.RawRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.RawRecord(nil), m.records[spreadsheetID]...)
}

// ListTransactions implements service.SyncAdapter.
func (m *MockAdapter) ListTransactions(_ context.Context, ledger model.Ledger) ([]service.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: "list", LedgerID: ledger.ID, Err: m.ListErr})
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]service.RawRecord(nil), m.records[ledger.SpreadsheetID]...), nil
}

// CreateTransaction implements service.SyncAdapter.
func (m *MockAdapter) CreateTransaction(_ context.Context, ledger model.Ledger, rec service.RawRecord) service.Dispatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: "create", LedgerID: ledger.ID, Record: rec, Err: m.WriteErr})
	if m.WriteErr == nil {
		rec.RowIndex = len(m.records[ledger.SpreadsheetID]) + 2
		m.records[ledger.SpreadsheetID] = append(m.records[ledger.SpreadsheetID], rec)
	}
	return closedDispatch()
}

// UpdateTransaction implements service.SyncAdapter.
func (m *MockAdapter) UpdateTransaction(_ context.Context, ledger model.Ledger, rowIndex int, rec service.RawRecord) service.Dispatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: "update", LedgerID: ledger.ID, RowIndex: rowIndex, Record: rec, Err: m.WriteErr})
	if m.WriteErr == nil {
		rows := m.records[ledger.SpreadsheetID]
		for i := range rows {
			if rows[i].RowIndex == rowIndex {
				rec.RowIndex = rowIndex
				rows[i] = rec
				break
			}
		}
	}
	return closedDispatch()
}

// DeleteTransaction implements service.SyncAdapter.
func (m *MockAdapter) DeleteTransaction(_ context.Context, ledger model.Ledger, rowIndex int) service.Dispatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: "delete", LedgerID: ledger.ID, RowIndex: rowIndex, Err: m.WriteErr})
	if m.WriteErr == nil {
		rows := m.records[ledger.SpreadsheetID]
		out := rows[:0]
		for _, r := range rows {
			if r.RowIndex != rowIndex {
				out = append(out, r)
			}
		}
		m.records[ledger.SpreadsheetID] = out
	}
	return closedDispatch()
}

// ListLedgers implements service.SyncAdapter.
func (m *MockAdapter) ListLedgers(_ context.Context, _ string) ([]model.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: "ledgers", Err: m.LedgersErr})
	if m.LedgersErr != nil {
		return nil, m.LedgersErr
	}
	return append([]model.Ledger(nil), m.Ledgers...), nil
}

// CallsFor returns the recorded calls matching one operation.
func (m *MockAdapter) CallsFor(op string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []MockCall
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func closedDispatch() service.Dispatch {
	done := make(chan struct{})
	close(done)
	return service.Dispatch{Done: done}
}
