package tokenregistry

import "github.com/constantswap/constantswap-go/engine"

// Schema is the decode contract for token registry view data.
const Schema engine.Schema = "constantswap/tokenregistry/TokenView@v1"
