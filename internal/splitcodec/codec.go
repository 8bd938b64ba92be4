// Package splitcodec converts per-member allocations to and from the
// persisted external string format:
//
//	Name1:400;Name2:300(10.5);...
//
// Entries are semicolon-delimited, each DisplayName:IntegerHomeAmount with
// an optional (OriginAmount) suffix when the transaction currency differs
// from the home currency. Member identity round-trips through the display
// name, which is lossy under renames: a decoded record whose name no longer
// matches the roster keeps the raw name as a synthetic id. That is a known
// limitation of the external format, kept for compatibility.
package splitcodec

import (
	"strings"

	"github.com/yuchialin/tripledger/internal/model"
)

// Encode serializes a transaction's per-member allocation. Transactions
// that are not split, or carry no participants, encode as the empty string.
// Home-currency shares are whole-unit rounded; origin-currency shares are
// appended in parentheses only when the transaction currency is not the
// home currency and the home amount is positive.
func Encode(t *model.Transaction, roster *model.Roster) string {
	participants := t.Participants()
	if !t.IsSplit || len(participants) == 0 {
		return ""
	}

	n := float64(len(participants))
	withOrigin := t.Currency != model.HomeCurrency && t.HomeAmount > 0
	rate := t.EffectiveRate()

	entries := make([]string, 0, len(participants))
	for _, id := range participants {
		name := roster.DisplayName(id)

		home, hasCustom := t.CustomSplits[id]
		if !hasCustom {
			home = t.HomeAmount / n
		}

		entry := name + ":" + model.FormatHome(home)

		if withOrigin {
			var origin float64
			switch {
			case t.CustomOriginalSplits != nil:
				origin = t.CustomOriginalSplits[id]
			case hasCustom && rate != 0:
				origin = home / rate
			default:
				origin = t.OriginalAmount / n
			}
			entry += "(" + model.FormatOrigin(origin) + ")"
		}

		entries = append(entries, entry)
	}

	return strings.Join(entries, ";")
}

// Decode parses an encoded allocation string into member id → home-currency
// share. Names resolve by exact display-name match; unresolved names are
// kept as synthetic ids so historical records survive roster drift.
// Unparseable amounts decode as 0, blank entries are dropped.
func Decode(s string, roster *model.Roster) map[string]float64 {
	shares := make(map[string]float64)
	if s == "" {
		return shares
	}

	for _, entry := range strings.Split(s, ";") {
		name, amount, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if open := strings.Index(amount, "("); open >= 0 {
			amount = amount[:open]
		}

		id := name
		if m, found := roster.ByName(name); found {
			id = m.ID
		}
		shares[id] = model.ParseAmount(strings.TrimSpace(amount))
	}

	return shares
}

// EncodeParticipants renders a participant id list as the external
// comma-separated display-name format.
func EncodeParticipants(ids []string, roster *model.Roster) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		names = append(names, roster.DisplayName(id))
	}
	return strings.Join(names, ",")
}

// DecodeParticipants parses the comma-separated display-name list back into
// member ids, trimming entries and dropping blanks. Unknown names become
// synthetic ids, mirroring Decode.
func DecodeParticipants(s string, roster *model.Roster) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if m, ok := roster.ByName(name); ok {
			ids = append(ids, m.ID)
			continue
		}
		ids = append(ids, name)
	}
	return ids
}
