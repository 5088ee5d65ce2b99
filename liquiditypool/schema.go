package liquiditypool

import "github.com/constantswap/constantswap-go/engine"

// Schema is the decode contract for liquidity pool view data.
const Schema engine.Schema = "constantswap/liquiditypool/PoolView@v1"
