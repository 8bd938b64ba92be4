package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/allocation"
	"github.com/yuchialin/tripledger/internal/ledger"
	"github.com/yuchialin/tripledger/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a transaction",
		Long: `Log a purchase against a ledger. By default the amount is split equally
across the participants named with --split (everyone when omitted). Pass
--share Name=Amount one or more times for a custom allocation; the
remainder can be handed to one member with --fill. --personal logs a
non-split expense that only affects the payer's consumption.`,
		RunE: runAdd,
	}

	cmd.Flags().String("ledger", "", "ledger name")
	cmd.Flags().String("payer", "", "payer member name (required)")
	cmd.Flags().String("date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().String("merchant", "", "merchant name")
	cmd.Flags().String("item", "", "item description")
	cmd.Flags().String("category", string(model.CategoryOther), "category")
	cmd.Flags().String("currency", "", "origin currency (default: ledger currency)")
	cmd.Flags().Float64("amount", 0, "amount in origin currency (required)")
	cmd.Flags().Float64("home", 0, "amount in home currency (default: amount × ledger rate)")
	cmd.Flags().String("split", "", "comma-separated participant names (default: everyone)")
	cmd.Flags().StringArray("share", nil, "custom share as Name=Amount, repeatable")
	cmd.Flags().String("fill", "", "member who takes the unallocated remainder")
	cmd.Flags().Bool("personal", false, "not shared: consumption only, no balance change")

	_ = cmd.MarkFlagRequired("payer")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("ledger")
	s, err := openSession(ctx, name)
	if err != nil {
		return err
	}

	payerName, _ := cmd.Flags().GetString("payer")
	payer, ok := s.Roster.ByName(payerName)
	if !ok {
		if m, suggested := s.SuggestMember(payerName); suggested {
			return fmt.Errorf("unknown payer %q (did you mean %s?)", payerName, m.Name)
		}
		return fmt.Errorf("unknown payer %q", payerName)
	}

	meta, err := metaFromFlags(cmd, s)
	if err != nil {
		return err
	}

	amount, _ := cmd.Flags().GetFloat64("amount")
	home, _ := cmd.Flags().GetFloat64("home")
	if home == 0 {
		if meta.Currency == model.HomeCurrency {
			home = amount
		} else {
			home = model.RoundHome(amount * s.Ledger.ExchangeRate)
		}
	}

	if personal, _ := cmd.Flags().GetBool("personal"); personal {
		txn, addErr := s.AddPersonal(ctx, payer.ID, amount, home, meta)
		if addErr != nil {
			return addErr
		}
		fmt.Printf("Logged personal expense %s for %s.\n", model.FormatHome(txn.HomeAmount), payer.Name)
		return s.Drain(ctx)
	}

	participants, err := participantsFromFlags(cmd, s)
	if err != nil {
		return err
	}

	state := allocation.New(home, amount, payer.ID, participants)
	if meta.Currency != model.HomeCurrency {
		state.EntrySide = allocation.SideOrigin
	}

	if err := applyShares(cmd, s, state); err != nil {
		return err
	}

	res, err := state.Confirm(s.Tolerance)
	if err != nil {
		return err
	}

	txn, err := s.ConfirmSplit(ctx, res, meta)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(txn.SplitWith))
	for _, id := range txn.SplitWith {
		names = append(names, s.DisplayName(id))
	}
	fmt.Printf("Logged %s %s split across %s (%s).\n",
		model.FormatHome(txn.HomeAmount), model.HomeCurrency,
		strings.Join(names, ", "), txn.Kind)

	// The write is fire-and-forget; hold the process open until the
	// transport attempt has run.
	return s.Drain(ctx)
}

func metaFromFlags(cmd *cobra.Command, s *ledger.Session) (ledger.Meta, error) {
	date := time.Now()
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ledger.Meta{}, fmt.Errorf("invalid date %q: %w", v, err)
		}
		date = parsed
	}

	currency, _ := cmd.Flags().GetString("currency")
	if currency == "" {
		currency = s.Ledger.Currency
	}

	merchant, _ := cmd.Flags().GetString("merchant")
	item, _ := cmd.Flags().GetString("item")
	category, _ := cmd.Flags().GetString("category")

	return ledger.Meta{
		Date:     date,
		Merchant: merchant,
		Item:     item,
		Category: model.ParseCategory(category),
		Currency: strings.ToUpper(currency),
	}, nil
}

func participantsFromFlags(cmd *cobra.Command, s *ledger.Session) ([]string, error) {
	raw, _ := cmd.Flags().GetString("split")
	if raw == "" {
		return s.Roster.IDs(), nil
	}

	var ids []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, ok := s.Roster.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown participant %q", name)
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// applyShares parses repeated --share Name=Amount flags into custom shares
// on the entry side, then hands any remainder to the --fill member.
func applyShares(cmd *cobra.Command, s *ledger.Session, state *allocation.State) error {
	shares, _ := cmd.Flags().GetStringArray("share")
	for _, raw := range shares {
		name, amountStr, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid share %q: expected Name=Amount", raw)
		}
		m, found := s.Roster.ByName(strings.TrimSpace(name))
		if !found {
			return fmt.Errorf("unknown member %q in share", name)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
		if err != nil {
			return fmt.Errorf("invalid share amount %q: %w", amountStr, err)
		}
		state.SetCustomShare(m.ID, amount, state.EntrySide)
	}

	if fill, _ := cmd.Flags().GetString("fill"); fill != "" {
		m, found := s.Roster.ByName(fill)
		if !found {
			return fmt.Errorf("unknown member %q in fill", fill)
		}
		state.FillRemainder(m.ID)
	}

	return nil
}
