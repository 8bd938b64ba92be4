package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/common"
)

func ledgersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledgers",
		Short: "List trip ledgers from the management sheet",
		RunE:  runLedgers,
	}
}

func runLedgers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	adapter, err := initAdapter(ctx)
	if err != nil {
		return err
	}

	ledgers, err := adapter.ListLedgers(ctx, "")
	if err != nil {
		return common.NewUserError("failed to list ledgers", err)
	}

	if len(ledgers) == 0 {
		fmt.Println("No ledgers found.")
		return nil
	}

	for _, l := range ledgers {
		fmt.Printf("%-20s %s (rate %.4f)  members: %s\n",
			l.Name, l.Currency, l.ExchangeRate, strings.Join(l.MemberNames, ", "))
	}

	return nil
}
