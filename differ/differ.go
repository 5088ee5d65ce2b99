package differ

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/constantswap/constantswap-go/engine"
)

// --- Config and Main Struct ---

// SubsystemDiffer computes the delta between two snapshots of one subsystem.
type SubsystemDiffer func(old, new any) (diff any, err error)

// ViewDifferConfig holds all the individual differ functions and dependencies.
type ViewDifferConfig struct {
	// One differ per schema (data contract), not per subsystem identity.
	SubsystemDiffers map[engine.Schema]SubsystemDiffer
	Registry         prometheus.Registerer // Required for metrics.
	Logger           Logger                // Required for logging.
}

// validate checks if the configuration is valid, ensuring required dependencies are present.
func (c *ViewDifferConfig) validate() error {
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// ViewDiffer is the main differ engine, with metrics and logging.
type ViewDiffer struct {
	metrics          *Metrics
	logger           Logger
	subsystemDiffers map[engine.Schema]SubsystemDiffer
}

// NewViewDiffer constructs a new differ from a configuration, returning an error if the config is invalid.
func NewViewDiffer(cfg *ViewDifferConfig) (*ViewDiffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	subsystemDiffers := make(map[engine.Schema]SubsystemDiffer, len(cfg.SubsystemDiffers))
	for schema, subsystemDiffer := range cfg.SubsystemDiffers {
		subsystemDiffers[schema] = subsystemDiffer
	}

	return &ViewDiffer{
		metrics:          NewMetrics(cfg.Registry),
		logger:           cfg.Logger,
		subsystemDiffers: subsystemDiffers,
	}, nil
}

// Diff is the main orchestrator method. It operates under the guarantee that
// it will only receive valid, error-free views to compare.
func (d *ViewDiffer) Diff(old, new *engine.View) (*ViewDiff, error) {
	totalTimer := prometheus.NewTimer(d.metrics.diffDuration.WithLabelValues())
	defer totalTimer.ObserveDuration()

	// we still ensure old and new views have no errors
	if old.HasErrors() || new.HasErrors() {
		return nil, errors.New("ViewDiffer received view with error")
	}
	// Sequences are monotonic: diffing backwards is a caller bug.
	if new.Sequence < old.Sequence {
		return nil, fmt.Errorf("differ: sequence went backwards (old=%d, new=%d)", old.Sequence, new.Sequence)
	}

	subsystemDiffs := make(map[engine.SubsystemID]SubsystemDiff)
	for subsystemID, newSubsystemState := range new.Subsystems {
		oldSubsystemState, ok := old.Subsystems[subsystemID]
		if !ok {
			return nil, fmt.Errorf("subsystem %s does not exist in old view", subsystemID)
		}

		differFunc, exists := d.subsystemDiffers[newSubsystemState.Schema]
		if !exists {
			return nil, fmt.Errorf("no differ registered for schema %q", newSubsystemState.Schema)
		}

		subsystemTimer := prometheus.NewTimer(d.metrics.subsystemDuration.WithLabelValues(string(subsystemID)))
		diffData, err := differFunc(oldSubsystemState.Data, newSubsystemState.Data)
		subsystemTimer.ObserveDuration()
		if err != nil {
			d.metrics.diffsTotal.WithLabelValues(string(subsystemID), "error").Inc()
			return nil, err
		}
		d.metrics.diffsTotal.WithLabelValues(string(subsystemID), "success").Inc()

		subsystemDiffs[subsystemID] = SubsystemDiff{
			Schema: newSubsystemState.Schema,
			Data:   diffData,
		}
	}

	viewDiff := &ViewDiff{
		Timestamp:    uint64(time.Now().UnixNano()),
		FromSequence: old.Sequence,
		ToSequence:   new.Sequence,
		FromChecksum: old.Checksum,
		ToChecksum:   new.Checksum,
		Subsystems:   subsystemDiffs,
	}

	return viewDiff, nil
}
