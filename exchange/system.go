package exchange

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/constantswap/constantswap-go/engine"
	"github.com/constantswap/constantswap-go/liquiditypool"
	"github.com/constantswap/constantswap-go/tokenregistry"
)

// Subsystem identities published in exchange views. The schemas of the
// subsystem data are declared by the subsystem packages themselves.
const (
	TokenSubsystem engine.SubsystemID = "tokens"
	PoolSubsystem  engine.SubsystemID = "pools"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the dependencies for the exchange system.
type Config struct {
	Logger   Logger
	Registry prometheus.Registerer // Required for metrics.
}

// validate checks if the configuration is valid, ensuring required dependencies are present.
func (c *Config) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	return nil
}

// System is the swap facade: it owns the token registry and all liquidity
// pools, dispatches name-keyed requests to them, and maintains a
// read-optimized snapshot of the whole exchange.
//
// Every operation is a serialized state transition: a sync.RWMutex admits one
// in-flight mutation at a time, which preserves the constant-product
// invariant under concurrent swap requests. Snapshot reads are lock-free via
// an atomic.Pointer to the cached view.
//
// Failed mutations are surfaced as explicit errors, never silent no-ops: a
// deposit or swap against an unknown pool reports ErrPoolNotFound rather
// than returning early with no signal. Read-only queries keep the softer
// zero-on-absent semantics where documented.
type System struct {
	mu      sync.RWMutex
	logger  Logger
	metrics *Metrics

	tokens *tokenregistry.Registry
	pools  map[liquiditypool.PairKey]*liquiditypool.Pool

	// sequence counts accepted mutations; it stamps every published view.
	sequence   uint64
	cachedView atomic.Pointer[engine.View]
}

// NewSystem creates an empty, concurrency-safe exchange system.
func NewSystem(cfg *Config) (*System, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &System{
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
		tokens:  tokenregistry.NewRegistry(),
		pools:   make(map[liquiditypool.PairKey]*liquiditypool.Pool),
	}
	// Initialize the cached view with an empty, non-nil snapshot.
	s.updateCachedView()
	return s, nil
}

// --- Write Methods ---

// AddToken registers a new token with a zero balance. Duplicate names are
// rejected with tokenregistry.ErrTokenExists.
func (s *System) AddToken(access Access, name string) (err error) {
	defer func() { s.metrics.observe("add_token", err) }()
	if !access.CanWrite() {
		return fmt.Errorf("%w: add token %q", ErrWriteAccessRequired, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err = s.tokens.AddToken(name); err != nil {
		return err
	}
	s.bumpSequence()

	s.logger.Debug("token registered", "name", name)
	return nil
}

// AddPool registers a liquidity pool for the ordered pair (tokenA, tokenB)
// and deposits the initial reserves. Both tokens must already exist, the
// names must differ, and the directional pair key must be unregistered.
// Registering "B-A" after "A-B" creates a distinct pool: keys are
// order-sensitive and never aliased.
func (s *System) AddPool(access Access, tokenA, tokenB string, reserveA, reserveB uint64) (err error) {
	defer func() { s.metrics.observe("add_pool", err) }()
	if !access.CanWrite() {
		return fmt.Errorf("%w: add pool %s-%s", ErrWriteAccessRequired, tokenA, tokenB)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordA, exists := s.tokens.Token(tokenA)
	if !exists {
		return fmt.Errorf("%w: %q", ErrTokenNotFound, tokenA)
	}
	recordB, exists := s.tokens.Token(tokenB)
	if !exists {
		return fmt.Errorf("%w: %q", ErrTokenNotFound, tokenB)
	}

	key := liquiditypool.NewPairKey(tokenA, tokenB)
	if _, exists := s.pools[key]; exists {
		return fmt.Errorf("%w: %s", ErrPoolExists, key)
	}

	pool, err := liquiditypool.New(key, recordA, recordB)
	if err != nil {
		return err
	}
	// Deposit before publishing the pool: a failed initial deposit must not
	// leave an empty pool registered.
	if err = pool.AddLiquidity(reserveA, reserveB); err != nil {
		return err
	}

	s.pools[key] = pool
	s.bumpSequence()

	s.logger.Info("pool registered", "key", key.String(), "reserveA", reserveA, "reserveB", reserveB)
	return nil
}

// AddLiquidity deposits (amountA, amountB) into the pool registered under the
// ordered pair (tokenA, tokenB). An unknown pair fails with ErrPoolNotFound.
func (s *System) AddLiquidity(access Access, tokenA, tokenB string, amountA, amountB uint64) (err error) {
	defer func() { s.metrics.observe("add_liquidity", err) }()
	if !access.CanWrite() {
		return fmt.Errorf("%w: add liquidity %s-%s", ErrWriteAccessRequired, tokenA, tokenB)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.pool(tokenA, tokenB)
	if err != nil {
		return err
	}
	if err = pool.AddLiquidity(amountA, amountB); err != nil {
		return err
	}
	s.bumpSequence()

	s.logger.Debug("liquidity added", "key", pool.Key().String(), "amountA", amountA, "amountB", amountB)
	return nil
}

// Swap executes a swap of amountIn units of the from token for the to token
// against the pool registered under (tokenA, tokenB), and returns the output
// amount. A zero amountIn is a no-op returning zero.
func (s *System) Swap(access Access, tokenA, tokenB, from, to string, amountIn uint64) (amountOut uint64, err error) {
	defer func() { s.metrics.observe("swap", err) }()
	if !access.CanWrite() {
		return 0, fmt.Errorf("%w: swap on %s-%s", ErrWriteAccessRequired, tokenA, tokenB)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.pool(tokenA, tokenB)
	if err != nil {
		return 0, err
	}
	amountOut, err = pool.Swap(from, to, amountIn)
	if err != nil {
		return 0, err
	}
	if amountIn > 0 {
		s.bumpSequence()
	}

	s.logger.Debug("swap executed",
		"key", pool.Key().String(),
		"from", from, "to", to,
		"amountIn", amountIn, "amountOut", amountOut,
	)
	return amountOut, nil
}

// --- Read Methods ---

// Balance returns the total balance of the named token. Unknown names
// resolve to zero rather than an error, matching query semantics.
func (s *System) Balance(name string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Balance(name)
}

// Price returns the fixed-point exchange rate of tokenA in terms of tokenB
// for the pool registered under the ordered pair (tokenA, tokenB). See
// liquiditypool.PriceScale for the scaling.
func (s *System) Price(tokenA, tokenB string) (price uint64, err error) {
	defer func() { s.metrics.observe("price", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, err := s.pool(tokenA, tokenB)
	if err != nil {
		return 0, err
	}
	return pool.Price()
}

// PriceFraction returns the exact exchange rate of tokenA in terms of tokenB
// as a (numerator, denominator) pair, with no precision loss.
func (s *System) PriceFraction(tokenA, tokenB string) (numerator, denominator uint64, err error) {
	defer func() { s.metrics.observe("price_fraction", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, err := s.pool(tokenA, tokenB)
	if err != nil {
		return 0, 0, err
	}
	return pool.PriceFraction()
}

// Quote computes the output of a prospective swap without mutating state.
func (s *System) Quote(tokenA, tokenB, from, to string, amountIn uint64) (amountOut uint64, err error) {
	defer func() { s.metrics.observe("quote", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, err := s.pool(tokenA, tokenB)
	if err != nil {
		return 0, err
	}
	return pool.Quote(from, to, amountIn)
}

// View returns a deep copy of the latest exchange snapshot. The copy is
// served from an atomically cached view, so concurrent readers never contend
// with writers, and callers may mutate the result freely.
func (s *System) View() *engine.View {
	cached := s.cachedView.Load()
	if cached == nil {
		return &engine.View{}
	}

	subsystems := make(map[engine.SubsystemID]engine.SubsystemState, len(cached.Subsystems))
	for id, sub := range cached.Subsystems {
		copied := sub
		switch data := sub.Data.(type) {
		case []tokenregistry.TokenView:
			views := make([]tokenregistry.TokenView, len(data))
			copy(views, data)
			copied.Data = views
		case []liquiditypool.PoolView:
			views := make([]liquiditypool.PoolView, len(data))
			copy(views, data)
			copied.Data = views
		}
		subsystems[id] = copied
	}

	return &engine.View{
		Sequence:   cached.Sequence,
		Timestamp:  cached.Timestamp,
		Checksum:   cached.Checksum,
		Subsystems: subsystems,
	}
}

// --- Internals ---

// pool resolves the directional pair key. Looking up "B-A" when only "A-B"
// was registered is a miss by design, not an alias.
func (s *System) pool(tokenA, tokenB string) (*liquiditypool.Pool, error) {
	key := liquiditypool.NewPairKey(tokenA, tokenB)
	pool, exists := s.pools[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, key)
	}
	return pool, nil
}

// bumpSequence records one accepted mutation and refreshes the cached view.
// It MUST be called from within a write lock (s.mu.Lock).
func (s *System) bumpSequence() {
	s.sequence++
	s.updateCachedView()
}

// updateCachedView generates a fresh view from the registries and atomically
// updates the pointer. It MUST be called from within a write lock, except
// during construction before the system is shared.
func (s *System) updateCachedView() {
	timer := prometheus.NewTimer(s.metrics.snapshotDuration.WithLabelValues())
	defer timer.ObserveDuration()

	poolViews := make([]liquiditypool.PoolView, 0, len(s.pools))
	for _, pool := range s.pools {
		poolViews = append(poolViews, pool.View())
	}
	sort.Slice(poolViews, func(i, j int) bool {
		if poolViews[i].Key.TokenA != poolViews[j].Key.TokenA {
			return poolViews[i].Key.TokenA < poolViews[j].Key.TokenA
		}
		return poolViews[i].Key.TokenB < poolViews[j].Key.TokenB
	})

	subsystems := map[engine.SubsystemID]engine.SubsystemState{
		TokenSubsystem: {Schema: tokenregistry.Schema, Data: s.tokens.View()},
		PoolSubsystem:  {Schema: liquiditypool.Schema, Data: poolViews},
	}

	checksum, err := engine.ComputeChecksum(subsystems)
	if err != nil {
		// TokenView and PoolView always JSON-encode; reaching this means a
		// subsystem published an unencodable type.
		s.logger.Error("failed to checksum exchange view", "error", err)
		sub := subsystems[TokenSubsystem]
		sub.Error = err.Error()
		subsystems[TokenSubsystem] = sub
	}

	s.cachedView.Store(&engine.View{
		Sequence:   s.sequence,
		Timestamp:  uint64(time.Now().UnixNano()),
		Checksum:   checksum,
		Subsystems: subsystems,
	})
}
