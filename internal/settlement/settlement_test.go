package settlement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuchialin/tripledger/internal/model"
)

func tripMembers() []model.Member {
	return []model.Member{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	}
}

func TestSummarizeSharedAndPersonal(t *testing.T) {
	members := tripMembers()

	// Worked scenario: A fronts 900 split three ways, then B spends 300 on
	// themselves.
	txns := []model.Transaction{
		{
			ID:         "t1",
			PayerID:    "a",
			HomeAmount: 900,
			IsSplit:    true,
			SplitWith:  []string{"a", "b", "c"},
		},
		{
			ID:         "t2",
			PayerID:    "b",
			HomeAmount: 300,
			IsSplit:    false,
		},
	}

	s := Summarize(txns, members)

	assert.InDelta(t, 300, s.Consumption["a"], 1e-9)
	assert.InDelta(t, 600, s.Consumption["b"], 1e-9)
	assert.InDelta(t, 300, s.Consumption["c"], 1e-9)

	assert.InDelta(t, 600, s.Balances["a"], 1e-9)
	assert.InDelta(t, -300, s.Balances["b"], 1e-9)
	assert.InDelta(t, -300, s.Balances["c"], 1e-9)
}

func TestSummarizeNonSplitLeavesBalancesUntouched(t *testing.T) {
	members := tripMembers()
	txns := []model.Transaction{
		{ID: "t1", PayerID: "b", HomeAmount: 512, IsSplit: false},
	}

	s := Summarize(txns, members)

	for id, balance := range s.Balances {
		assert.Zerof(t, balance, "member %s", id)
	}
	assert.InDelta(t, 512, s.Consumption["b"], 1e-9)
}

func TestSummarizeZeroSum(t *testing.T) {
	members := tripMembers()

	rng := rand.New(rand.NewSource(7))
	txns := make([]model.Transaction, 0, 50)
	ids := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		payer := ids[rng.Intn(len(ids))]
		split := ids[:1+rng.Intn(len(ids))]
		txns = append(txns, model.Transaction{
			PayerID:    payer,
			HomeAmount: float64(rng.Intn(100000)) / 7,
			IsSplit:    true,
			SplitWith:  append([]string(nil), split...),
		})
	}

	s := Summarize(txns, members)

	var total float64
	for _, balance := range s.Balances {
		total += balance
	}
	assert.InDelta(t, 0, total, 1e-6)
}

func TestSummarizeOrderIndependent(t *testing.T) {
	members := tripMembers()
	txns := []model.Transaction{
		{PayerID: "a", HomeAmount: 900, IsSplit: true, SplitWith: []string{"a", "b", "c"}},
		{PayerID: "b", HomeAmount: 450, IsSplit: true, SplitWith: []string{"b", "c"}},
		{PayerID: "c", HomeAmount: 120, IsSplit: false},
		{PayerID: "a", HomeAmount: 333, IsSplit: true, SplitWith: []string{"a", "c"}},
	}

	forward := Summarize(txns, members)

	reversed := make([]model.Transaction, len(txns))
	for i := range txns {
		reversed[len(txns)-1-i] = txns[i]
	}
	backward := Summarize(reversed, members)

	require.Equal(t, len(forward.Balances), len(backward.Balances))
	for id := range forward.Balances {
		assert.InDelta(t, forward.Balances[id], backward.Balances[id], 1e-9)
		assert.InDelta(t, forward.Consumption[id], backward.Consumption[id], 1e-9)
	}
}

func TestSummarizeSinglePrivateParticipant(t *testing.T) {
	members := tripMembers()

	// A split with exactly one participant is a private expense: payer is
	// credited and debited the same amount.
	txns := []model.Transaction{
		{PayerID: "a", HomeAmount: 700, IsSplit: true, SplitWith: []string{"a"}},
	}

	s := Summarize(txns, members)
	assert.InDelta(t, 0, s.Balances["a"], 1e-9)
	assert.InDelta(t, 700, s.Consumption["a"], 1e-9)
}

func TestSummarizeDanglingParticipant(t *testing.T) {
	members := tripMembers()

	// "ghost" was removed from the roster but still appears in history.
	txns := []model.Transaction{
		{PayerID: "a", HomeAmount: 600, IsSplit: true, SplitWith: []string{"a", "ghost"}},
	}

	s := Summarize(txns, members)
	assert.InDelta(t, 300, s.Balances["a"], 1e-9)
	assert.InDelta(t, -300, s.Balances["ghost"], 1e-9)

	var total float64
	for _, balance := range s.Balances {
		total += balance
	}
	assert.InDelta(t, 0, total, 1e-9)
}

func TestSummarizeBlankParticipantIDsFiltered(t *testing.T) {
	members := tripMembers()
	txns := []model.Transaction{
		{PayerID: "a", HomeAmount: 600, IsSplit: true, SplitWith: []string{"a", "", "b"}},
	}

	s := Summarize(txns, members)
	assert.InDelta(t, 300, s.Consumption["a"], 1e-9)
	assert.InDelta(t, 300, s.Consumption["b"], 1e-9)
	assert.False(t, math.IsNaN(s.Balances["a"]))
}
