package liquiditypool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffer(t *testing.T) {
	keyAB := NewPairKey("A", "B")
	keyBA := NewPairKey("B", "A")

	testCases := []struct {
		name              string
		old               []PoolView
		new               []PoolView
		expectedAdditions int
		expectedUpdates   int
		expectedDeletions int
	}{
		{
			name: "no changes",
			old:  []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
			new:  []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
		},
		{
			name:              "addition",
			old:               []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
			new:               []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}, {Key: keyBA, ReserveA: 5, ReserveB: 5}},
			expectedAdditions: 1,
		},
		{
			name:            "reserve update",
			old:             []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
			new:             []PoolView{{Key: keyAB, ReserveA: 1100, ReserveB: 909}},
			expectedUpdates: 1,
		},
		{
			name:              "deletion",
			old:               []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}, {Key: keyBA, ReserveA: 5, ReserveB: 5}},
			new:               []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
			expectedDeletions: 1,
		},
		{
			name: "reverse key is a distinct pool, not an update",
			old:  []PoolView{{Key: keyAB, ReserveA: 1000, ReserveB: 1000}},
			new:  []PoolView{{Key: keyBA, ReserveA: 1000, ReserveB: 1000}},
			// The old pool vanishes and the reversed one appears.
			expectedAdditions: 1,
			expectedDeletions: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			diff := Differ(tc.old, tc.new)
			assert.Len(t, diff.Additions, tc.expectedAdditions)
			assert.Len(t, diff.Updates, tc.expectedUpdates)
			assert.Len(t, diff.Deletions, tc.expectedDeletions)
			assert.Equal(t,
				tc.expectedAdditions+tc.expectedUpdates+tc.expectedDeletions == 0,
				diff.IsEmpty(),
			)
		})
	}
}

func TestDifferPatcherRoundTrip(t *testing.T) {
	old := []PoolView{
		{Key: NewPairKey("DAI", "WETH"), ReserveA: 500, ReserveB: 500},
		{Key: NewPairKey("WETH", "USDC"), ReserveA: 1000, ReserveB: 1000},
	}
	new := []PoolView{
		{Key: NewPairKey("DAI", "WETH"), ReserveA: 550, ReserveB: 455},
		{Key: NewPairKey("USDC", "DAI"), ReserveA: 10, ReserveB: 10},
		{Key: NewPairKey("WETH", "USDC"), ReserveA: 1000, ReserveB: 1000},
	}

	diff := Differ(old, new)
	patched, err := Patcher(old, diff)
	require.NoError(t, err)

	// The patched state must reproduce the new state exactly, including order.
	assert.Equal(t, new, patched)
}

func TestPatcherDoesNotMutatePrevState(t *testing.T) {
	key := NewPairKey("A", "B")
	prev := []PoolView{{Key: key, ReserveA: 1000, ReserveB: 1000}}
	diff := PoolViewDiff{Updates: []PoolView{{Key: key, ReserveA: 1100, ReserveB: 909}}}

	patched, err := Patcher(prev, diff)
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), prev[0].ReserveA)
	assert.Equal(t, uint64(1100), patched[0].ReserveA)
	assert.Equal(t, uint64(909), patched[0].ReserveB)
}
