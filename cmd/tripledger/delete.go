package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <row>",
		Short: "Delete a transaction by its sheet row",
		Long: `Remove a transaction from the ledger. The remote delete is best-effort:
it is dispatched, not confirmed, and the local view updates immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().String("ledger", "", "ledger name")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("ledger")
	s, err := openSession(ctx, name)
	if err != nil {
		return err
	}

	var row int
	if _, err := fmt.Sscanf(args[0], "%d", &row); err != nil {
		return fmt.Errorf("invalid row %q", args[0])
	}

	for _, t := range s.Transactions() {
		if t.RowIndex == row {
			if err := s.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted row %d (%s, %s).\n", row, t.Merchant, t.Date.Format("2006-01-02"))
			return s.Drain(ctx)
		}
	}

	return fmt.Errorf("no transaction at row %d", row)
}
