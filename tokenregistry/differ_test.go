package tokenregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffer(t *testing.T) {
	testCases := []struct {
		name              string
		old               []TokenView
		new               []TokenView
		expectedAdditions int
		expectedUpdates   int
		expectedDeletions int
	}{
		{
			name:              "no changes",
			old:               []TokenView{{Name: "WETH", Balance: 100}},
			new:               []TokenView{{Name: "WETH", Balance: 100}},
			expectedAdditions: 0,
			expectedUpdates:   0,
			expectedDeletions: 0,
		},
		{
			name:              "addition",
			old:               []TokenView{{Name: "WETH", Balance: 100}},
			new:               []TokenView{{Name: "WETH", Balance: 100}, {Name: "USDC", Balance: 0}},
			expectedAdditions: 1,
		},
		{
			name:            "balance update",
			old:             []TokenView{{Name: "WETH", Balance: 100}},
			new:             []TokenView{{Name: "WETH", Balance: 250}},
			expectedUpdates: 1,
		},
		{
			name:              "deletion",
			old:               []TokenView{{Name: "WETH", Balance: 100}, {Name: "USDC", Balance: 5}},
			new:               []TokenView{{Name: "WETH", Balance: 100}},
			expectedDeletions: 1,
		},
		{
			name:              "from empty",
			old:               nil,
			new:               []TokenView{{Name: "WETH", Balance: 0}},
			expectedAdditions: 1,
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
	old := []TokenView{
		{Name: "DAI", Balance: 500},
		{Name: "WETH", Balance: 100},
	}
	new := []TokenView{
		{Name: "DAI", Balance: 750},
		{Name: "USDC", Balance: 10},
		{Name: "WETH", Balance: 100},
	}

	diff := Differ(old, new)
	patched, err := Patcher(old, diff)
	require.NoError(t, err)

	// The patched state must reproduce the new state exactly, including order.
	assert.Equal(t, new, patched)
}

func TestPatcherDoesNotMutatePrevState(t *testing.T) {
	prev := []TokenView{{Name: "WETH", Balance: 100}}
	diff := TokenViewDiff{Updates: []TokenView{{Name: "WETH", Balance: 42}}}

	patched, err := Patcher(prev, diff)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), prev[0].Balance)
	assert.Equal(t, uint64(42), patched[0].Balance)
}
