package exchange

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constantswap/constantswap-go/engine"
	"github.com/constantswap/constantswap-go/liquiditypool"
	"github.com/constantswap/constantswap-go/tokenregistry"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()

	system, err := NewSystem(&Config{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return system
}

// seedPool registers tokens A and B and a pool over them with the given reserves.
func seedPool(t *testing.T, system *System, reserveA, reserveB uint64) {
	t.Helper()
	require.NoError(t, system.AddToken(WriteAccess, "A"))
	require.NoError(t, system.AddToken(WriteAccess, "B"))
	require.NoError(t, system.AddPool(WriteAccess, "A", "B", reserveA, reserveB))
}

func TestNewSystemValidation(t *testing.T) {
	_, err := NewSystem(&Config{Registry: prometheus.NewRegistry()})
	require.Error(t, err)

	_, err = NewSystem(&Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.Error(t, err)
}

func TestWriteAccessEnforcement(t *testing.T) {
	system := newTestSystem(t)
	seedPool(t, system, 1000, 1000)

	require.ErrorIs(t, system.AddToken(ReadAccess, "C"), ErrWriteAccessRequired)
	require.ErrorIs(t, system.AddPool(ReadAccess, "A", "B", 1, 1), ErrWriteAccessRequired)
	require.ErrorIs(t, system.AddLiquidity(ReadAccess, "A", "B", 1, 1), ErrWriteAccessRequired)
	_, err := system.Swap(ReadAccess, "A", "B", "A", "B", 1)
	require.ErrorIs(t, err, ErrWriteAccessRequired)

	// Read queries carry no access requirement.
	assert.Equal(t, uint64(1000), system.Balance("A"))
	_, err = system.Price("A", "B")
	require.NoError(t, err)
}

func TestAddToken(t *testing.T) {
	system := newTestSystem(t)

	require.NoError(t, system.AddToken(WriteAccess, "WETH"))
	require.ErrorIs(t, system.AddToken(WriteAccess, "WETH"), tokenregistry.ErrTokenExists)
	assert.Equal(t, uint64(0), system.Balance("WETH"))
}

func TestAddPool(t *testing.T) {
	system := newTestSystem(t)
	require.NoError(t, system.AddToken(WriteAccess, "A"))
	require.NoError(t, system.AddToken(WriteAccess, "B"))

	t.Run("unregistered token is rejected", func(t *testing.T) {
		err := system.AddPool(WriteAccess, "A", "C", 10, 10)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("registration deposits the initial reserves", func(t *testing.T) {
		require.NoError(t, system.AddPool(WriteAccess, "A", "B", 1000, 500))
		assert.Equal(t, uint64(1000), system.Balance("A"))
		assert.Equal(t, uint64(500), system.Balance("B"))
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		err := system.AddPool(WriteAccess, "A", "B", 1, 1)
		require.ErrorIs(t, err, ErrPoolExists)
	})

	t.Run("reversed key registers a distinct pool", func(t *testing.T) {
		require.NoError(t, system.AddPool(WriteAccess, "B", "A", 10, 10))

		// The two pools price independently.
		price, err := system.Price("B", "A")
		require.NoError(t, err)
		assert.Equal(t, liquiditypool.PriceScale, price)
	})
}

func TestDirectionalPoolLookup(t *testing.T) {
	system := newTestSystem(t)
	seedPool(t, system, 1000, 1000)

	// Only "A-B" is registered; the reverse order is a miss everywhere, and
	// mutating operations report it loudly instead of returning a no-op.
	err := system.AddLiquidity(WriteAccess, "B", "A", 10, 10)
	require.ErrorIs(t, err, ErrPoolNotFound)

	_, err = system.Swap(WriteAccess, "B", "A", "A", "B", 10)
	require.ErrorIs(t, err, ErrPoolNotFound)

	_, err = system.Price("B", "A")
	require.ErrorIs(t, err, ErrPoolNotFound)

	// The registered pool itself answers swaps in either token direction.
	_, err = system.Swap(WriteAccess, "A", "B", "B", "A", 10)
	require.NoError(t, err)
}

func TestSwapEndToEnd(t *testing.T) {
	system := newTestSystem(t)
	seedPool(t, system, 1000, 1000)

	quoted, err := system.Quote("A", "B", "A", "B", 100)
	require.NoError(t, err)

	amountOut, err := system.Swap(WriteAccess, "A", "B", "A", "B", 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(91), amountOut)
	assert.Equal(t, quoted, amountOut)

	assert.Equal(t, uint64(1100), system.Balance("A"))
	assert.Equal(t, uint64(909), system.Balance("B"))

	// The price moved with the reserves: 909 * scale / 1100.
	price, err := system.Price("A", "B")
	require.NoError(t, err)
	assert.Equal(t, uint64(826_363_636), price)

	numerator, denominator, err := system.PriceFraction("A", "B")
	require.NoError(t, err)
	assert.Equal(t, uint64(909), numerator)
	assert.Equal(t, uint64(1100), denominator)
}

func TestBalanceUnknownTokenIsZero(t *testing.T) {
	system := newTestSystem(t)
	assert.Equal(t, uint64(0), system.Balance("GHOST"))
}

func TestViewSequenceAndChecksum(t *testing.T) {
	system := newTestSystem(t)

	view := system.View()
	assert.Equal(t, uint64(0), view.Sequence)

	seedPool(t, system, 1000, 1000)
	view = system.View()
	// Two token registrations plus one pool registration.
	assert.Equal(t, uint64(3), view.Sequence)

	t.Run("rejected mutation does not advance the sequence", func(t *testing.T) {
		require.ErrorIs(t, system.AddToken(WriteAccess, "A"), tokenregistry.ErrTokenExists)
		assert.Equal(t, uint64(3), system.View().Sequence)
	})

	t.Run("zero-amount swap is a no-op", func(t *testing.T) {
		amountOut, err := system.Swap(WriteAccess, "A", "B", "A", "B", 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), amountOut)
		assert.Equal(t, uint64(3), system.View().Sequence)
	})

	t.Run("accepted swap advances the sequence", func(t *testing.T) {
		_, err := system.Swap(WriteAccess, "A", "B", "A", "B", 100)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), system.View().Sequence)
	})

	t.Run("checksum matches a recomputation over the subsystems", func(t *testing.T) {
		view := system.View()
		require.False(t, view.HasErrors())

		checksum, err := engine.ComputeChecksum(view.Subsystems)
		require.NoError(t, err)
		assert.Equal(t, view.Checksum, checksum)
	})
}

func TestViewIsDetached(t *testing.T) {
	system := newTestSystem(t)
	seedPool(t, system, 1000, 1000)

	view := system.View()
	tokens, ok := view.Subsystems[TokenSubsystem].Data.([]tokenregistry.TokenView)
	require.True(t, ok)
	require.NotEmpty(t, tokens)
	tokens[0].Balance = 424242

	pools, ok := view.Subsystems[PoolSubsystem].Data.([]liquiditypool.PoolView)
	require.True(t, ok)
	require.Len(t, pools, 1)
	pools[0].ReserveA = 424242

	// The cached snapshot and the registries are untouched.
	fresh := system.View()
	freshTokens := fresh.Subsystems[TokenSubsystem].Data.([]tokenregistry.TokenView)
	assert.Equal(t, uint64(1000), freshTokens[0].Balance)
	assert.Equal(t, uint64(1000), system.Balance("A"))
}

func TestConcurrentSwapsKeepPoolConsistent(t *testing.T) {
	system := newTestSystem(t)
	seedPool(t, system, 1_000_000, 1_000_000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(forward bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				from, to := "A", "B"
				if !forward {
					from, to = "B", "A"
				}
				// Drain rejections are acceptable; corruption is not.
				_, _ = system.Swap(WriteAccess, "A", "B", from, to, 1000)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	// Reserves and registry balances must still agree exactly.
	view := system.View()
	pools := view.Subsystems[PoolSubsystem].Data.([]liquiditypool.PoolView)
	require.Len(t, pools, 1)
	assert.Equal(t, pools[0].ReserveA, system.Balance("A"))
	assert.Equal(t, pools[0].ReserveB, system.Balance("B"))
	assert.Positive(t, system.Balance("A"))
	assert.Positive(t, system.Balance("B"))
}
