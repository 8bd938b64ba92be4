// Package settlement folds a transaction list into per-member consumption
// totals and net balances.
package settlement

import (
	"github.com/yuchialin/tripledger/internal/model"
)

// Summary holds the aggregated view: net balance (positive = is owed,
// negative = owes) and total consumption per member id. Ids referenced by
// transactions but missing from the roster still accumulate; the display
// layer degrades them to raw ids.
type Summary struct {
	Balances    map[string]float64
	Consumption map[string]float64
}

// Summarize is a pure fold over the transaction set. Split transactions
// divide the home amount evenly over the participant list: the payer is
// credited the full amount and every participant debited one share, which
// keeps the ledger zero-sum. Non-split transactions touch only the payer's
// consumption. No rounding happens here; amounts keep full floating
// precision until the display boundary. The result is independent of
// transaction order.
func Summarize(txns []model.Transaction, members []model.Member) Summary {
	s := Summary{
		Balances:    make(map[string]float64, len(members)),
		Consumption: make(map[string]float64, len(members)),
	}
	for _, m := range members {
		s.Balances[m.ID] = 0
		s.Consumption[m.ID] = 0
	}

	for i := range txns {
		t := &txns[i]
		participants := t.Participants()
		if t.IsSplit && len(participants) > 0 {
			share := t.HomeAmount / float64(len(participants))
			s.Balances[t.PayerID] += t.HomeAmount
			for _, p := range participants {
				s.Balances[p] -= share
				s.Consumption[p] += share
			}
			continue
		}
		s.Consumption[t.PayerID] += t.HomeAmount
	}

	return s
}
