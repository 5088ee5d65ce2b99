package liquiditypool

import "errors"

var (
	// ErrNilToken is returned when a pool is constructed without both token records.
	ErrNilToken = errors.New("pool requires both token records")
	// ErrIdenticalTokens is returned when a pool is constructed over a single token.
	ErrIdenticalTokens = errors.New("pool tokens are identical")
	// ErrKeyMismatch is returned when a pool's key does not name its two tokens.
	ErrKeyMismatch = errors.New("pair key does not match pool tokens")
	// ErrTokenMismatch is returned when a swap names tokens that do not belong to the pool, in either order.
	ErrTokenMismatch = errors.New("token mismatch")
	// ErrZeroReserve is returned when a price or swap is requested on an unseeded pool.
	ErrZeroReserve = errors.New("pool reserve is zero")
	// ErrInsufficientLiquidity is returned when a swap would drain a reserve to zero or below.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for swap")
	// ErrReserveOverflow is returned when a deposit or swap would overflow a uint64 reserve.
	ErrReserveOverflow = errors.New("pool reserve overflow")
	// ErrPriceOverflow is returned when the fixed-point price does not fit in a uint64.
	ErrPriceOverflow = errors.New("scaled price overflows uint64")
)
