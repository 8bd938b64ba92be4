package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/model"
)

func balancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show per-member consumption and net balances",
		Long: `Aggregate every transaction of a ledger into per-member consumption and
net balances. Positive balance means the member is owed money; negative
means they owe. Amounts are rounded to whole home-currency units for
display only.`,
		RunE: runBalances,
	}

	cmd.Flags().String("ledger", "", "ledger name")

	return cmd
}

func runBalances(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("ledger")
	s, err := openSession(ctx, name)
	if err != nil {
		return err
	}

	summary := s.Balances()

	ids := make([]string, 0, len(summary.Balances))
	for id := range summary.Balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.DisplayName(ids[i]) < s.DisplayName(ids[j])
	})

	fmt.Printf("%s (%s)\n", s.Ledger.Name, model.HomeCurrency)
	fmt.Printf("%-16s %12s %12s\n", "member", "consumed", "balance")
	for _, id := range ids {
		// Dangling references show the raw id, with a hint when a roster
		// name is close enough.
		display := s.DisplayName(id)
		if _, known := s.Roster.ByID(id); !known {
			if m, ok := s.SuggestMember(id); ok {
				display = fmt.Sprintf("%s (did you mean %s?)", id, m.Name)
			}
		}
		fmt.Printf("%-16s %12s %12s\n",
			display,
			model.FormatHome(summary.Consumption[id]),
			model.FormatHome(summary.Balances[id]))
	}

	return nil
}
