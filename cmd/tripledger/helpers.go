package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuchialin/tripledger/internal/allocation"
	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/config"
	"github.com/yuchialin/tripledger/internal/ledger"
	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/sheets"
)

// initAdapter builds the Google Sheets sync client from configuration.
func initAdapter(ctx context.Context) (*sheets.Client, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMissingConfig, err)
	}
	return sheets.NewClient(ctx, *cfg, slog.Default())
}

// openSession resolves a ledger by name (or the only ledger when the name
// is empty) and builds a refreshed session for it.
func openSession(ctx context.Context, name string) (*ledger.Session, error) {
	adapter, err := initAdapter(ctx)
	if err != nil {
		return nil, err
	}

	ledgers, err := adapter.ListLedgers(ctx, "")
	if err != nil {
		return nil, common.NewUserError("failed to list ledgers", err)
	}
	if len(ledgers) == 0 {
		return nil, common.ErrLedgerNotFound
	}

	var chosen *model.Ledger
	switch {
	case name == "" && len(ledgers) == 1:
		chosen = &ledgers[0]
	case name == "":
		return nil, fmt.Errorf("%w: several ledgers exist, pass --ledger", common.ErrLedgerNotFound)
	default:
		for i := range ledgers {
			if ledgers[i].Name == name || ledgers[i].ID == name {
				chosen = &ledgers[i]
				break
			}
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %q", common.ErrLedgerNotFound, name)
	}

	s := ledger.NewSession(*chosen, adapter, slog.Default())
	s.Tolerance = config.Tolerance(allocation.DefaultTolerance)

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
