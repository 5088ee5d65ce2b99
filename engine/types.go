package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type SubsystemID string

// Schema defines the decode contract for a subsystem's data
type Schema string

// SubsystemState carries one subsystem's snapshot inside a View.
type SubsystemState struct {
	// Schema is the decode contract for Data.
	// Example:
	// "constantswap/tokenregistry/TokenView@v1"
	Schema Schema `json:"schema"`

	// Data is the subsystem view, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this subsystem failed to snapshot.
	Error string `json:"error,omitempty"`
}

// View is the main data structure handed to consumers. It is an immutable
// snapshot of the exchange at a single sequence number: every accepted
// mutation produces exactly one new View.
type View struct {
	// Sequence increases by one per accepted mutation. A View with sequence N
	// reflects the first N mutations and nothing else.
	Sequence  uint64 `json:"sequence"`
	Timestamp uint64 `json:"timestamp"`

	// Checksum is the Keccak-256 digest of the canonical subsystem encoding,
	// used by the patcher to verify a diff is applied to the right base.
	Checksum common.Hash `json:"checksum"`

	Subsystems map[SubsystemID]SubsystemState `json:"subsystems"`
}

func (view *View) HasErrors() bool {
	// Check subsystem-level errors
	for _, sub := range view.Subsystems {
		if sub.Error != "" {
			return true
		}
	}
	return false
}

// ComputeChecksum derives the canonical digest of a subsystem map.
// Subsystems are folded in ascending SubsystemID order so the digest is
// independent of map iteration order. Subsystem Data must JSON-encode
// deterministically (slices sorted by the producer).
func ComputeChecksum(subsystems map[SubsystemID]SubsystemState) (common.Hash, error) {
	ids := make([]string, 0, len(subsystems))
	for id := range subsystems {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var canonical []byte
	for _, id := range ids {
		sub := subsystems[SubsystemID(id)]
		data, err := json.Marshal(sub.Data)
		if err != nil {
			return common.Hash{}, fmt.Errorf("checksum: failed to encode subsystem %q: %w", id, err)
		}
		canonical = append(canonical, []byte(id)...)
		canonical = append(canonical, []byte(sub.Schema)...)
		canonical = append(canonical, data...)
	}

	return crypto.Keccak256Hash(canonical), nil
}
