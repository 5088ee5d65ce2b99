package liquiditypool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKeyIsDirectional(t *testing.T) {
	forward := NewPairKey("A", "B")
	reverse := NewPairKey("B", "A")

	assert.NotEqual(t, forward, reverse)
	assert.Equal(t, forward, reverse.Reversed())

	// Distinct keys must address distinct map entries.
	pools := map[PairKey]int{forward: 1}
	_, exists := pools[reverse]
	assert.False(t, exists)
}

func TestPairKeyAvoidsDelimiterCollision(t *testing.T) {
	// A token literally named "A-B" paired with "C" renders the same string
	// as "A" paired with "B-C", but the structured keys stay distinct.
	first := NewPairKey("A-B", "C")
	second := NewPairKey("A", "B-C")

	assert.Equal(t, first.String(), second.String())
	assert.NotEqual(t, first, second)
}

func TestPairKeyJSON(t *testing.T) {
	key := NewPairKey("WETH", "USDC")

	encoded, err := json.Marshal(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokenA":"WETH","tokenB":"USDC"}`, string(encoded))

	var decoded PairKey
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, key, decoded)
}
