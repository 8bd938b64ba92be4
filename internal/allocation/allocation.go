// Package allocation implements the split-allocation rules: dividing one
// transaction's total across participants in origin and home currency at
// once, keeping both sides numerically consistent, and deriving the
// public/private classification from the allocation itself.
package allocation

import (
	"fmt"
	"math"

	"github.com/yuchialin/tripledger/internal/common"
	"github.com/yuchialin/tripledger/internal/model"
)

// DefaultTolerance is the balance tolerance for confirmation, roughly half
// a home-currency unit. The historical code used a tighter constant on the
// edit path; both flows now share this one configurable value.
const DefaultTolerance = 0.5

// Side selects which currency an amount is expressed in.
type Side int

const (
	// SideHome is the ledger's settlement currency.
	SideHome Side = iota
	// SideOrigin is the currency the transaction was incurred in.
	SideOrigin
)

// Shares is one participant's nominal share in both currencies.
type Shares struct {
	Home   float64
	Origin float64
}

// EqualShares returns the per-person nominal share of an even split. The
// result is for presentation and balance aggregation only; equal shares are
// never persisted per member. Requires at least one participant; with none
// it returns zero shares.
func EqualShares(totalHome, totalOrigin float64, participants []string) Shares {
	n := len(participants)
	if n == 0 {
		return Shares{}
	}
	return Shares{
		Home:   totalHome / float64(n),
		Origin: totalOrigin / float64(n),
	}
}

// State is an allocation under construction for one transaction. The origin
// total is the source of truth; home-side values derive from it through the
// effective rate and are rounded at the edges, never stored independently
// drifting.
type State struct {
	OriginTotal float64
	HomeTotal   float64
	PayerID     string

	Participants []string

	// Custom switches from on-demand equal shares to explicit per-member
	// shares held in HomeShares/OriginShares.
	Custom       bool
	HomeShares   map[string]float64
	OriginShares map[string]float64

	// EntrySide is the currency side the user is currently typing amounts
	// in; remainder checks and fills happen on this side.
	EntrySide Side

	// ExplicitKind is the caller's last explicit classification, used only
	// when the state carries no participants at all.
	ExplicitKind model.Kind
}

// New starts an equal-mode allocation.
func New(homeTotal, originTotal float64, payerID string, participants []string) *State {
	return &State{
		OriginTotal:  originTotal,
		HomeTotal:    homeTotal,
		PayerID:      payerID,
		Participants: filterBlank(participants),
		ExplicitKind: model.KindPublic,
	}
}

// EffectiveRate is homeTotal / originTotal for this allocation.
func (s *State) EffectiveRate() float64 {
	if s.OriginTotal == 0 {
		return 0
	}
	return s.HomeTotal / s.OriginTotal
}

// SetCustomShare sets one member's share on the given currency side and
// mirrors it to the other side through the effective rate. Switches the
// state to custom mode and recomputes the classification.
func (s *State) SetCustomShare(memberID string, amount float64, side Side) {
	if memberID == "" {
		return
	}
	if !s.Custom {
		s.Custom = true
		s.HomeShares = make(map[string]float64)
		s.OriginShares = make(map[string]float64)
	}
	if !contains(s.Participants, memberID) {
		s.Participants = append(s.Participants, memberID)
	}

	rate := s.EffectiveRate()
	switch side {
	case SideOrigin:
		s.OriginShares[memberID] = amount
		s.HomeShares[memberID] = model.RoundHome(amount * rate)
	case SideHome:
		// Home shares are whole units on either entry side, so the mirror
		// round-trips: round(origin × rate) gives the home share back.
		home := model.RoundHome(amount)
		s.HomeShares[memberID] = home
		if rate != 0 {
			s.OriginShares[memberID] = home / rate
		} else {
			s.OriginShares[memberID] = home
		}
	}
}

// RebaseTotal applies a corrected home-currency total: the effective rate is
// recomputed against the fixed origin total and every custom home share is
// re-derived from its origin share. Without custom shares this only updates
// the total.
func (s *State) RebaseTotal(newHomeTotal float64) {
	s.HomeTotal = newHomeTotal
	if !s.Custom {
		return
	}
	rate := s.EffectiveRate()
	for id, origin := range s.OriginShares {
		s.HomeShares[id] = model.RoundHome(origin * rate)
	}
}

// Remainder is the unallocated part of the total on one currency side. In
// equal mode there is nothing unallocated.
func (s *State) Remainder(side Side) float64 {
	if !s.Custom {
		return 0
	}
	var sum, total float64
	switch side {
	case SideOrigin:
		total = s.OriginTotal
		for _, v := range s.OriginShares {
			sum += v
		}
	default:
		total = s.HomeTotal
		for _, v := range s.HomeShares {
			sum += v
		}
	}
	return total - sum
}

// Balanced reports whether the remainder on the entry side is within
// tolerance.
func (s *State) Balanced(tolerance float64) bool {
	return math.Abs(s.Remainder(s.EntrySide)) < tolerance
}

// FillRemainder assigns the entire unallocated remainder on the entry side
// to one member. Idempotent once the remainder is zero.
func (s *State) FillRemainder(memberID string) {
	if !s.Custom {
		return
	}
	r := s.Remainder(s.EntrySide)
	if r == 0 {
		return
	}
	var current float64
	if s.EntrySide == SideOrigin {
		current = s.OriginShares[memberID]
	} else {
		current = s.HomeShares[memberID]
	}
	s.SetCustomShare(memberID, current+r, s.EntrySide)
}

// Kind derives the classification from the allocation: private iff exactly
// one participant effectively takes part. States with no participants keep
// the caller's explicit choice.
func (s *State) Kind() model.Kind {
	n := s.effectiveParticipants()
	if n == 0 {
		return s.ExplicitKind
	}
	if n == 1 {
		return model.KindPrivate
	}
	return model.KindPublic
}

func (s *State) effectiveParticipants() int {
	if !s.Custom {
		return len(s.Participants)
	}
	n := 0
	for _, id := range s.Participants {
		if s.HomeShares[id] > 0 || s.OriginShares[id] > 0 {
			n++
		}
	}
	return n
}

// Result is a confirmed, immutable allocation ready to become a
// transaction.
type Result struct {
	PayerID      string
	Participants []string
	Kind         model.Kind
	HomeTotal    float64
	OriginTotal  float64

	// Custom shares; nil in equal mode.
	HomeShares   map[string]float64
	OriginShares map[string]float64
}

// Confirm validates the allocation and freezes it. Equal mode requires at
// least one participant; custom mode requires a positive share somewhere
// and a remainder within tolerance. Nothing is mutated on rejection.
func (s *State) Confirm(tolerance float64) (*Result, error) {
	if !s.Custom {
		if len(s.Participants) == 0 {
			return nil, common.ErrEmptyAllocation
		}
		return &Result{
			PayerID:      s.PayerID,
			Participants: append([]string(nil), s.Participants...),
			Kind:         s.Kind(),
			HomeTotal:    s.HomeTotal,
			OriginTotal:  s.OriginTotal,
		}, nil
	}

	if s.effectiveParticipants() == 0 {
		return nil, common.ErrEmptyAllocation
	}
	if !s.Balanced(tolerance) {
		return nil, fmt.Errorf("%w: remainder %.2f", common.ErrUnbalancedAllocation, s.Remainder(s.EntrySide))
	}

	return &Result{
		PayerID:      s.PayerID,
		Participants: append([]string(nil), s.Participants...),
		Kind:         s.Kind(),
		HomeTotal:    s.HomeTotal,
		OriginTotal:  s.OriginTotal,
		HomeShares:   copyShares(s.HomeShares),
		OriginShares: copyShares(s.OriginShares),
	}, nil
}

func copyShares(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func filterBlank(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
