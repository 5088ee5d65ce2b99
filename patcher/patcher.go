package patcher

import (
	"errors"
	"fmt"

	"github.com/constantswap/constantswap-go/differ"
	"github.com/constantswap/constantswap-go/engine"
)

// --- Type Definitions ---

// PatcherFunc applies a diff to a previous state to produce a new state.
//
// CONTRACT:
// 1. Immutability: Implementations MUST NOT mutate 'prevState'. They must create a copy.
// 2. nil Handling: 'prevState' may be nil if this is a newly added subsystem.
type PatcherFunc func(prevState any, diffData any) (newState any, err error)

// --- Config and Main Struct ---

type ViewPatcherConfig struct {
	// Map Schema -> Patcher Function
	// Example: "constantswap/tokenregistry/TokenView@v1" -> tokenregistry.Patcher
	Patchers map[engine.Schema]PatcherFunc
}

func (c *ViewPatcherConfig) validate() error {
	for _, patcherFunc := range c.Patchers {
		if patcherFunc == nil {
			return errors.New("patcher cannot be nil")
		}
	}
	return nil
}

// ViewPatcher is the generic engine for applying view updates.
type ViewPatcher struct {
	patchers map[engine.Schema]PatcherFunc
}

// NewViewPatcher constructs a new patcher from a configuration.
func NewViewPatcher(cfg *ViewPatcherConfig) (*ViewPatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Copy map to ensure immutability
	patchers := make(map[engine.Schema]PatcherFunc, len(cfg.Patchers))
	for k, v := range cfg.Patchers {
		patchers[k] = v
	}

	return &ViewPatcher{
		patchers: patchers,
	}, nil
}

// --- Implementation ---

// Patch creates a new View by applying the Diff to the old View.
// It uses "Structural Sharing": parts of the view that didn't change are shared
// by reference. Parts that changed are replaced by the PatcherFunc.
func (p *ViewPatcher) Patch(oldView *engine.View, diff *differ.ViewDiff) (*engine.View, error) {
	// 1. Integrity Checks
	// The diff must have been computed from exactly the view we are holding.
	if oldView.Sequence != diff.FromSequence {
		return nil, fmt.Errorf("patcher: mismatch fromSequence (view=%d, diff=%d)", oldView.Sequence, diff.FromSequence)
	}
	if oldView.Checksum != diff.FromChecksum {
		return nil, fmt.Errorf("patcher: checksum mismatch at sequence %d (view=%s, diff=%s)",
			oldView.Sequence, oldView.Checksum, diff.FromChecksum)
	}

	// 2. Initialize New Subsystems Map
	// We start with a shallow copy of the old map. This preserves all "Unchanged" data efficiently.
	newSubsystems := make(map[engine.SubsystemID]engine.SubsystemState, len(oldView.Subsystems))
	for k, v := range oldView.Subsystems {
		newSubsystems[k] = v
	}

	// 3. Apply Diffs
	// We iterate only over the subsystems that have changes.
	for subsystemID, subsystemDiff := range diff.Subsystems {

		// A. Find the Patcher logic for this specific data type
		patcherFunc, ok := p.patchers[subsystemDiff.Schema]
		if !ok {
			return nil, fmt.Errorf("patcher: no patcher registered for schema %q (subsystem=%s)", subsystemDiff.Schema, subsystemID)
		}

		// B. Retrieve Old Data (if it exists)
		var oldData any
		if oldState, exists := oldView.Subsystems[subsystemID]; exists {
			// Safety check: Schema migration is complex; for now, assume schemas must match.
			if oldState.Schema != subsystemDiff.Schema {
				return nil, fmt.Errorf("patcher: schema mismatch for subsystem %s (old=%s, diff=%s)", subsystemID, oldState.Schema, subsystemDiff.Schema)
			}
			oldData = oldState.Data
		}

		// C. Execute the Patch
		// The PatcherFunc is responsible for deep-copying oldData + applying diffData
		newData, err := patcherFunc(oldData, subsystemDiff.Data)
		if err != nil {
			return nil, fmt.Errorf("patcher: failed to patch subsystem %s: %w", subsystemID, err)
		}

		// D. Update the map
		newSubsystems[subsystemID] = engine.SubsystemState{
			Schema: subsystemDiff.Schema,
			Data:   newData,
			Error:  subsystemDiff.Error,
		}
	}

	// 4. Verify the result against the diff's target checksum. A mismatch
	// means a patcher func diverged from its differ counterpart.
	checksum, err := engine.ComputeChecksum(newSubsystems)
	if err != nil {
		return nil, fmt.Errorf("patcher: failed to checksum patched view: %w", err)
	}
	if checksum != diff.ToChecksum {
		return nil, fmt.Errorf("patcher: patched view checksum %s does not match diff target %s", checksum, diff.ToChecksum)
	}

	// 5. Return Final View
	return &engine.View{
		Sequence:   diff.ToSequence,
		Timestamp:  diff.Timestamp,
		Checksum:   checksum,
		Subsystems: newSubsystems,
	}, nil
}
