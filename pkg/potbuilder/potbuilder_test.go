package potbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildNoAllIn(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 10)
	b.AddBet(0, 2, 10)
	b.AddBet(0, 3, 10)

	pots, sidePotIndex := b.Build(map[int64]bool{}, map[int64]int64{})
	require.Len(t, pots, 1)
	require.EqualValues(t, 30, pots[0].Amount)
	for _, serial := range []int64{1, 2, 3} {
		require.True(t, pots[0].Eligible[serial])
		require.Equal(t, 0, sidePotIndex[serial])
	}
}

// Three players, one short all-in, mirrors spec.md's canonical side-pot
// example: a 50-chip all-in splits the pot into a main pot (capped at 50
// per player) and a side pot holding the excess between the two bigger
// stacks.
func TestBuildSidePotSplit(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 50)  // short stack, all-in
	b.AddBet(0, 2, 100)
	b.AddBet(0, 3, 100)

	folded := map[int64]bool{}
	allIn := map[int64]int64{1: 50}
	pots, sidePotIndex := b.Build(folded, allIn)

	require.Len(t, pots, 2)
	require.EqualValues(t, 150, pots[0].Amount) // 50 * 3
	require.True(t, pots[0].Eligible[1])
	require.True(t, pots[0].Eligible[2])
	require.True(t, pots[0].Eligible[3])

	require.EqualValues(t, 100, pots[1].Amount) // (100-50) * 2
	require.False(t, pots[1].Eligible[1])
	require.True(t, pots[1].Eligible[2])
	require.True(t, pots[1].Eligible[3])

	require.Equal(t, 1, sidePotIndex[2])
	require.Equal(t, 1, sidePotIndex[3])
	require.Equal(t, 0, sidePotIndex[1])

	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	require.EqualValues(t, b.GrandTotal(), total)
}

func TestFoldedPlayerExcludedFromEligibility(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 20)
	b.AddBet(0, 2, 20)
	b.AddBet(0, 3, 20)

	pots, _ := b.Build(map[int64]bool{2: true}, map[int64]int64{})
	require.Len(t, pots, 1)
	require.EqualValues(t, 60, pots[0].Amount)
	require.False(t, pots[0].Eligible[2])
	require.True(t, pots[0].Eligible[1])
	require.True(t, pots[0].Eligible[3])
}

func TestReturnUncalled(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 100)
	b.AddBet(0, 2, 40)

	serial, amount, ok := b.ReturnUncalled(0, map[int64]bool{})
	require.True(t, ok)
	require.EqualValues(t, 1, serial)
	require.EqualValues(t, 60, amount)
	require.EqualValues(t, 40, b.TotalBySerial()[1])
}

func TestReturnUncalledNoExcess(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 40)
	b.AddBet(0, 2, 40)

	_, _, ok := b.ReturnUncalled(0, map[int64]bool{})
	require.False(t, ok)
}

// TestBuildReportsPerSerialContributions exercises the Contributions
// breakdown rake apportionment needs: each pot must know exactly how much
// of its Amount came from each serial, not just the aggregate.
func TestBuildReportsPerSerialContributions(t *testing.T) {
	b := New()
	b.AddBet(0, 1, 50) // short stack, all-in
	b.AddBet(0, 2, 100)
	b.AddBet(0, 3, 100)

	pots, _ := b.Build(map[int64]bool{}, map[int64]int64{1: 50})
	require.Len(t, pots, 2)

	require.EqualValues(t, 50, pots[0].Contributions[1])
	require.EqualValues(t, 50, pots[0].Contributions[2])
	require.EqualValues(t, 50, pots[0].Contributions[3])

	require.EqualValues(t, 0, pots[1].Contributions[1])
	require.EqualValues(t, 50, pots[1].Contributions[2])
	require.EqualValues(t, 50, pots[1].Contributions[3])

	for _, pot := range pots {
		var sum int64
		for _, amt := range pot.Contributions {
			sum += amt
		}
		require.EqualValues(t, pot.Amount, sum)
	}
}

func TestDeadMoneyJoinsFinalPot(t *testing.T) {
	b := New()
	b.AddDead(5)
	b.AddBet(0, 1, 20)
	b.AddBet(0, 2, 20)

	pots, _ := b.Build(map[int64]bool{}, map[int64]int64{})
	require.Len(t, pots, 1)
	require.EqualValues(t, 45, pots[0].Amount)
}
