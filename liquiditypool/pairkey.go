package liquiditypool

// PairKey is the structured identity of a liquidity pool: the ordered pair of
// its two token names.
//
// Motivation:
// The obvious alternative, concatenating "tokenA-tokenB" into a single string,
// makes identity ambiguous as soon as a token name itself contains the
// delimiter (a token literally named "A-B" colliding with the pair "A","B").
// PairKey keeps the two names separate, is directly comparable, and is usable
// as a map key without any parsing.
//
// Identity is directional: ("A","B") and ("B","A") are distinct keys, and a
// lookup in the reverse order is a miss, never an alias.
type PairKey struct {
	TokenA string `json:"tokenA"`
	TokenB string `json:"tokenB"`
}

// NewPairKey builds the key for the ordered pair (tokenA, tokenB).
func NewPairKey(tokenA, tokenB string) PairKey {
	return PairKey{TokenA: tokenA, TokenB: tokenB}
}

// String renders the conventional "A-B" form for display and logging.
// Output: A human-readable label. It MUST NOT be parsed back into a key.
func (k PairKey) String() string {
	return k.TokenA + "-" + k.TokenB
}

// Reversed returns the key with the pair order flipped.
func (k PairKey) Reversed() PairKey {
	return PairKey{TokenA: k.TokenB, TokenB: k.TokenA}
}
