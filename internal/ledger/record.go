package ledger

import (
	"time"

	"github.com/yuchialin/tripledger/internal/model"
	"github.com/yuchialin/tripledger/internal/service"
	"github.com/yuchialin/tripledger/internal/splitcodec"
)

const dateLayout = "2006-01-02"

// toTransaction builds a transaction from one raw external record. Member
// names resolve against the roster; names that no longer match stay as
// synthetic ids so the record survives roster drift. Malformed numerics are
// already zeroed by the adapter.
func toTransaction(rec service.RawRecord, roster *model.Roster, exchangeRate float64) model.Transaction {
	date, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		date = time.Time{}
	}

	payerID := rec.PayerName
	if m, ok := roster.ByName(rec.PayerName); ok {
		payerID = m.ID
	}

	participants := splitcodec.DecodeParticipants(rec.Participants, roster)
	shares := splitcodec.Decode(rec.SplitDetail, roster)

	t := model.Transaction{
		ID:             model.NewTransactionID(),
		RowIndex:       rec.RowIndex,
		Date:           date,
		Merchant:       rec.Merchant,
		Item:           rec.Item,
		Category:       model.ParseCategory(rec.Category),
		PayerID:        payerID,
		Currency:       rec.Currency,
		OriginalAmount: rec.OriginAmount,
		HomeAmount:     rec.HomeAmount,
		IsSplit:        rec.IsSplit,
		SplitWith:      participants,
		ExchangeRate:   exchangeRate,
	}
	if len(shares) > 0 {
		t.CustomSplits = shares
	}
	t.Kind = deriveKind(&t, model.Kind(rec.Kind))

	return t
}

// toRecord serializes a transaction into the external record shape.
func toRecord(t *model.Transaction, roster *model.Roster) service.RawRecord {
	payerName := roster.DisplayName(t.PayerID)

	var date string
	if !t.Date.IsZero() {
		date = t.Date.Format(dateLayout)
	}

	return service.RawRecord{
		RowIndex:     t.RowIndex,
		Date:         date,
		Merchant:     t.Merchant,
		Item:         t.Item,
		Category:     string(t.Category),
		Kind:         string(t.Kind),
		PayerName:    payerName,
		Currency:     t.Currency,
		OriginAmount: t.OriginalAmount,
		HomeAmount:   t.HomeAmount,
		IsSplit:      t.IsSplit,
		Participants: splitcodec.EncodeParticipants(t.SplitWith, roster),
		SplitDetail:  splitcodec.Encode(t, roster),
	}
}

// deriveKind recomputes the public/private classification from the
// allocation: private iff exactly one participant holds a positive share.
// Records that carry no participants keep the stored explicit kind.
func deriveKind(t *model.Transaction, explicit model.Kind) model.Kind {
	participants := t.Participants()
	if len(participants) == 0 {
		if explicit == model.KindPrivate {
			return model.KindPrivate
		}
		return model.KindPublic
	}

	n := len(participants)
	if t.CustomSplits != nil {
		n = 0
		for _, id := range participants {
			if t.CustomSplits[id] > 0 {
				n++
			}
		}
	}

	if n == 1 {
		return model.KindPrivate
	}
	return model.KindPublic
}
