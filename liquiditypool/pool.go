package liquiditypool

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/constantswap/constantswap-go/tokenregistry"
)

// PriceScale is the fixed-point multiplier applied by Price. A price of
// 1.5 tokenB per tokenA is reported as 1_500_000_000.
const PriceScale uint64 = 1_000_000_000

// Pool holds the two reserves of a token pair and implements the
// constant-product pricing invariant: across any accepted swap the product
// reserveA*reserveB is preserved up to integer truncation. The retained
// reserve is the truncated quotient, so the post-swap product never exceeds
// the pre-swap product and trails it by less than one denominator.
//
// The pool holds non-owning pointers to its two token records and adjusts
// their balances symmetrically with its reserves. It performs no locking;
// mutations are serialized by the owning exchange.System.
type Pool struct {
	key    PairKey
	tokenA *tokenregistry.Token
	tokenB *tokenregistry.Token

	reserveA uint64
	reserveB uint64
}

// PoolView is a safe, structured representation of a pool's data for external use.
type PoolView struct {
	Key      PairKey `json:"key"`
	ReserveA uint64  `json:"reserveA"`
	ReserveB uint64  `json:"reserveB"`
}

// New creates an empty pool over two already-registered tokens. The key must
// name exactly the two tokens, in order.
func New(key PairKey, tokenA, tokenB *tokenregistry.Token) (*Pool, error) {
	if tokenA == nil || tokenB == nil {
		return nil, ErrNilToken
	}
	if tokenA.Name() == tokenB.Name() {
		return nil, ErrIdenticalTokens
	}
	if key.TokenA != tokenA.Name() || key.TokenB != tokenB.Name() {
		return nil, fmt.Errorf("%w: key %s over tokens %s, %s", ErrKeyMismatch, key, tokenA.Name(), tokenB.Name())
	}

	return &Pool{
		key:    key,
		tokenA: tokenA,
		tokenB: tokenB,
	}, nil
}

func (p *Pool) Key() PairKey {
	return p.key
}

func (p *Pool) ReserveA() uint64 {
	return p.reserveA
}

func (p *Pool) ReserveB() uint64 {
	return p.reserveB
}

// Seeded reports whether the pool can price and execute swaps. A pool with a
// zero reserve on either side can only receive liquidity.
func (p *Pool) Seeded() bool {
	return p.reserveA > 0 && p.reserveB > 0
}

// View returns the external representation of the pool.
func (p *Pool) View() PoolView {
	return PoolView{
		Key:      p.key,
		ReserveA: p.reserveA,
		ReserveB: p.reserveB,
	}
}

// AddLiquidity increases the reserves and the two token balances by exactly
// (amountA, amountB). All four counters are overflow-checked before any of
// them is touched, so a rejected deposit leaves the pool unchanged.
//
// The pool performs no ratio check on the deposit: it accepts whatever
// amounts the facade supplies, including contributions that move the implied
// price. Rejecting deposits whose ratio deviates from reserveA:reserveB is a
// hardening left to the caller.
func (p *Pool) AddLiquidity(amountA, amountB uint64) error {
	if amountA > math.MaxUint64-p.reserveA {
		return fmt.Errorf("%w: %s reserveA %d + %d", ErrReserveOverflow, p.key, p.reserveA, amountA)
	}
	if amountB > math.MaxUint64-p.reserveB {
		return fmt.Errorf("%w: %s reserveB %d + %d", ErrReserveOverflow, p.key, p.reserveB, amountB)
	}
	if amountA > math.MaxUint64-p.tokenA.Balance() {
		return fmt.Errorf("%w: depositing %d %s", ErrReserveOverflow, amountA, p.tokenA.Name())
	}
	if amountB > math.MaxUint64-p.tokenB.Balance() {
		return fmt.Errorf("%w: depositing %d %s", ErrReserveOverflow, amountB, p.tokenB.Name())
	}

	// All checks passed; the four updates below cannot fail.
	p.reserveA += amountA
	p.reserveB += amountB
	if err := p.tokenA.Credit(amountA); err != nil {
		return err
	}
	return p.tokenB.Credit(amountB)
}

// Price returns the exchange rate of tokenA in terms of tokenB as a
// fixed-point value: reserveB * PriceScale / reserveA. The division
// truncates, so fractional price information below 1/PriceScale is lost;
// callers needing the exact rate should use PriceFraction.
//
// An unseeded pool cannot be priced and returns ErrZeroReserve.
func (p *Pool) Price() (uint64, error) {
	if !p.Seeded() {
		return 0, fmt.Errorf("%w: pool %s is unseeded", ErrZeroReserve, p.key)
	}

	// reserveB * PriceScale may exceed 64 bits; run the intermediate in
	// 256-bit space and reject results that do not fit the caller's uint64.
	num := new(uint256.Int).Mul(uint256.NewInt(p.reserveB), uint256.NewInt(PriceScale))
	price := num.Div(num, uint256.NewInt(p.reserveA))
	if !price.IsUint64() {
		return 0, fmt.Errorf("%w: pool %s", ErrPriceOverflow, p.key)
	}
	return price.Uint64(), nil
}

// PriceFraction returns the exact exchange rate of tokenA in terms of tokenB
// as the pair (reserveB, reserveA), with no precision loss.
func (p *Pool) PriceFraction() (numerator, denominator uint64, err error) {
	if !p.Seeded() {
		return 0, 0, fmt.Errorf("%w: pool %s is unseeded", ErrZeroReserve, p.key)
	}
	return p.reserveB, p.reserveA, nil
}

// Quote computes the output of swapping amountIn of the from token without
// mutating any state. It applies the same validation as Swap.
func (p *Pool) Quote(from, to string, amountIn uint64) (uint64, error) {
	reserveIn, reserveOut, err := p.reserves(from, to)
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, nil
	}
	return swapOutput(p.key, reserveIn, reserveOut, amountIn)
}

// Swap executes a constant-product swap of amountIn units of the from token
// for the to token:
//
//	amountOut = reserveOut - (reserveIn * reserveOut) / (reserveIn + amountIn)
//
// then reserveIn += amountIn, reserveOut -= amountOut, and the two token
// balances move symmetrically (amountIn enters the pool, amountOut leaves).
// The division truncates, so the post-swap reserve product stays within one
// denominator of the pre-swap product, never above it.
//
// TODO: apply a swap fee (the Uniswap V1 cut is 0.3%) so the truncation
// remainder handed to the out side can never be recovered by the return leg
// of a round trip.
//
// A zero amountIn is a no-op returning zero output. A swap whose computed
// output would empty the out-side reserve fails with ErrInsufficientLiquidity:
// a pool, once seeded, can never be drained back to empty through swaps.
func (p *Pool) Swap(from, to string, amountIn uint64) (uint64, error) {
	reserveIn, reserveOut, inIsA, err := p.reservesDirected(from, to)
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, nil
	}

	amountOut, err := swapOutput(p.key, reserveIn, reserveOut, amountIn)
	if err != nil {
		return 0, err
	}

	// Validate the balance moves before mutating anything: a failure below
	// must leave reserves and balances exactly as they were.
	tokenIn, tokenOut := p.tokenA, p.tokenB
	if !inIsA {
		tokenIn, tokenOut = p.tokenB, p.tokenA
	}
	if amountIn > math.MaxUint64-tokenIn.Balance() {
		return 0, fmt.Errorf("%w: depositing %d %s", ErrReserveOverflow, amountIn, tokenIn.Name())
	}
	if amountOut > tokenOut.Balance() {
		// Reserves never exceed the token balance attributable to the pool,
		// so this only fires if an external caller corrupted the registry.
		return 0, fmt.Errorf("%w: pool %s holds more %s than the registry", ErrInsufficientLiquidity, p.key, tokenOut.Name())
	}

	if inIsA {
		p.reserveA += amountIn
		p.reserveB -= amountOut
	} else {
		p.reserveB += amountIn
		p.reserveA -= amountOut
	}
	if err := tokenIn.Credit(amountIn); err != nil {
		return 0, err
	}
	if err := tokenOut.Debit(amountOut); err != nil {
		return 0, err
	}

	return amountOut, nil
}

// reserves resolves (from, to) against the pool's pair in either order and
// returns the matching (reserveIn, reserveOut).
func (p *Pool) reserves(from, to string) (reserveIn, reserveOut uint64, err error) {
	reserveIn, reserveOut, _, err = p.reservesDirected(from, to)
	return reserveIn, reserveOut, err
}

func (p *Pool) reservesDirected(from, to string) (reserveIn, reserveOut uint64, inIsA bool, err error) {
	switch {
	case from == p.tokenA.Name() && to == p.tokenB.Name():
		return p.reserveA, p.reserveB, true, nil
	case from == p.tokenB.Name() && to == p.tokenA.Name():
		return p.reserveB, p.reserveA, false, nil
	}
	return 0, 0, false, fmt.Errorf("%w: pool %s does not contain the pair %s -> %s", ErrTokenMismatch, p.key, from, to)
}

// swapOutput computes the constant-product output amount. amountIn must be
// non-zero; the caller handles the zero no-op.
func swapOutput(key PairKey, reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, fmt.Errorf("%w: pool %s is unseeded", ErrZeroReserve, key)
	}
	if amountIn > math.MaxUint64-reserveIn {
		return 0, fmt.Errorf("%w: %s reserveIn %d + %d", ErrReserveOverflow, key, reserveIn, amountIn)
	}

	// reserveIn * reserveOut exceeds 64 bits for realistic reserves, so the
	// intermediate product runs in 256-bit space.
	k := new(uint256.Int).Mul(uint256.NewInt(reserveIn), uint256.NewInt(reserveOut))
	denominator := new(uint256.Int).AddUint64(uint256.NewInt(reserveIn), amountIn)
	floor := k.Div(k, denominator)

	// floor = k / (reserveIn + amountIn) < reserveOut whenever amountIn > 0,
	// so the subtraction below cannot underflow.
	amountOut := reserveOut - floor.Uint64()
	if amountOut >= reserveOut {
		return 0, fmt.Errorf("%w: %d of %d would drain pool %s", ErrInsufficientLiquidity, amountOut, reserveOut, key)
	}
	return amountOut, nil
}
