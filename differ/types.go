package differ

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/constantswap/constantswap-go/engine"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SubsystemDiff carries one subsystem's changes inside a ViewDiff.
type SubsystemDiff struct {
	// Schema is the decode contract for Data.
	// Examples:
	// "constantswap/tokenregistry/TokenView@v1"
	// "constantswap/liquiditypool/PoolView@v1"
	Schema engine.Schema `json:"schema"`

	// Data is the subsystem diff, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this subsystem failed to diff.
	Error string `json:"error,omitempty"`
}

// ViewDiff represents a summary of changes FromSequence to ToSequence.
type ViewDiff struct {
	Timestamp    uint64 `json:"timestamp"`
	FromSequence uint64 `json:"fromSequence"`
	ToSequence   uint64 `json:"toSequence"`

	// Checksums of the base and target views. The patcher refuses to apply a
	// diff whose FromChecksum does not match the view it is given.
	FromChecksum common.Hash `json:"fromChecksum"`
	ToChecksum   common.Hash `json:"toChecksum"`

	Subsystems map[engine.SubsystemID]SubsystemDiff `json:"subsystems"`
}
