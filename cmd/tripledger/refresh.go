package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/ledger"
)

func refreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reload ledgers from the spreadsheet backend",
		Long: `Fetch the full remote snapshot of one or all ledgers. A refresh replaces
the local view wholesale; it is how cross-device edits are picked up.`,
		RunE: runRefresh,
	}

	cmd.Flags().String("ledger", "", "ledger name (default: all)")

	return cmd
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("ledger")
	if name != "" {
		s, err := openSession(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d transactions\n", s.Ledger.Name, len(s.Transactions()))
		return nil
	}

	adapter, err := initAdapter(ctx)
	if err != nil {
		return err
	}
	ledgers, err := adapter.ListLedgers(ctx, "")
	if err != nil {
		return common.NewUserError("failed to list ledgers", err)
	}

	bar := progressbar.Default(int64(len(ledgers)), "refreshing")
	for _, l := range ledgers {
		s := ledger.NewSession(l, adapter, slog.Default())
		if err := s.Refresh(ctx); err != nil {
			_ = bar.Close()
			return err
		}
		fmt.Printf("\n%s: %d transactions\n", l.Name, len(s.Transactions()))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return nil
}
