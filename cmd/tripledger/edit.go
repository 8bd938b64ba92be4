package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/model"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <row>",
		Short: "Edit a transaction by its sheet row",
		Long: `Change a logged transaction in place. Amount and share edits run through
the same balance checks as a new entry; an edit that no longer adds up
is rejected before anything is dispatched.`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().String("ledger", "", "ledger name")
	cmd.Flags().String("date", "", "date (YYYY-MM-DD)")
	cmd.Flags().String("merchant", "", "merchant name")
	cmd.Flags().String("item", "", "item description")
	cmd.Flags().String("category", "", "category")
	cmd.Flags().Float64("amount", 0, "amount in origin currency")
	cmd.Flags().Float64("home", 0, "corrected amount in home currency")
	cmd.Flags().StringArray("share", nil, "custom share as Name=Amount, repeatable")
	cmd.Flags().String("fill", "", "member who takes the unallocated remainder")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	var txn model.Transaction
	found := false
	for _, t := range s.Transactions() {
		if t.RowIndex == row {
			txn = t
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no transaction at row %d", row)
	}

	if err := applyMetaEdits(cmd, &txn); err != nil {
		return err
	}

	amount, _ := cmd.Flags().GetFloat64("amount")
	home, _ := cmd.Flags().GetFloat64("home")
	if !cmd.Flags().Changed("home") && cmd.Flags().Changed("amount") {
		if txn.Currency == model.HomeCurrency {
			home = amount
		} else {
			home = model.RoundHome(amount * s.Ledger.ExchangeRate)
		}
	}

	if !txn.IsSplit {
		if cmd.Flags().Changed("amount") {
			txn.OriginalAmount = amount
		}
		if cmd.Flags().Changed("amount") || cmd.Flags().Changed("home") {
			txn.HomeAmount = home
		}
	} else {
		st := s.StateFor(txn)
		if cmd.Flags().Changed("amount") {
			st.OriginTotal = amount
		}
		if cmd.Flags().Changed("home") || cmd.Flags().Changed("amount") {
			st.RebaseTotal(home)
		}
		if err := applyShares(cmd, s, st); err != nil {
			return err
		}

		res, err := st.Confirm(s.Tolerance)
		if err != nil {
			return err
		}

		txn.OriginalAmount = res.OriginTotal
		txn.HomeAmount = res.HomeTotal
		txn.SplitWith = res.Participants
		txn.CustomSplits = res.HomeShares
		txn.CustomOriginalSplits = res.OriginShares
		txn.Kind = res.Kind
	}

	if err := s.Update(ctx, txn); err != nil {
		return err
	}

	fmt.Printf("Updated row %d (%s, %s %s).\n",
		row, txn.Merchant, model.FormatHome(txn.HomeAmount), model.HomeCurrency)

	return s.Drain(ctx)
}

func applyMetaEdits(cmd *cobra.Command, txn *model.Transaction) error {
	if v, _ := cmd.Flags().GetString("date"); cmd.Flags().Changed("date") {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", v, err)
		}
		txn.Date = parsed
	}
	if v, _ := cmd.Flags().GetString("merchant"); cmd.Flags().Changed("merchant") {
		txn.Merchant = v
	}
	if v, _ := cmd.Flags().GetString("item"); cmd.Flags().Changed("item") {
		txn.Item = v
	}
	if v, _ := cmd.Flags().GetString("category"); cmd.Flags().Changed("category") {
		txn.Category = model.ParseCategory(v)
	}
	return nil
}
