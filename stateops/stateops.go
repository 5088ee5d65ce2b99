package stateops

import (
	"encoding/json"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/constantswap/constantswap-go/differ"
	"github.com/constantswap/constantswap-go/engine"
	"github.com/constantswap/constantswap-go/liquiditypool"
	"github.com/constantswap/constantswap-go/patcher"
	"github.com/constantswap/constantswap-go/tokenregistry"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StateOps encapsulates the view-processing logic for the exchange.
//
// It acts as a unified facade for two operations:
// 1. Differ: Calculating the delta between two exchange views.
// 2. Patcher: Applying a delta to a previous view to reconstruct the present.
type StateOps struct {
	*differ.ViewDiffer
	*patcher.ViewPatcher
}

func NewStateOps(
	logger Logger,
	prometheusRegistry prometheus.Registerer,
) (*StateOps, error) {
	subsystemDiffers := map[engine.Schema]differ.SubsystemDiffer{
		tokenregistry.Schema: func(old, new any) (diff any, err error) {
			return tokenregistry.Differ(old.([]tokenregistry.TokenView), new.([]tokenregistry.TokenView)), nil
		},
		liquiditypool.Schema: func(old, new any) (diff any, err error) {
			return liquiditypool.Differ(old.([]liquiditypool.PoolView), new.([]liquiditypool.PoolView)), nil
		},
	}

	subsystemPatchers := map[engine.Schema]patcher.PatcherFunc{
		tokenregistry.Schema: func(prevState, diff any) (newState any, err error) {
			prev, _ := prevState.([]tokenregistry.TokenView)
			return tokenregistry.Patcher(prev, diff.(tokenregistry.TokenViewDiff))
		},
		liquiditypool.Schema: func(prevState, diff any) (newState any, err error) {
			prev, _ := prevState.([]liquiditypool.PoolView)
			return liquiditypool.Patcher(prev, diff.(liquiditypool.PoolViewDiff))
		},
	}

	viewDiffer, err := differ.NewViewDiffer(&differ.ViewDifferConfig{
		SubsystemDiffers: subsystemDiffers,
		Logger:           logger,
		Registry:         prometheusRegistry,
	})
	if err != nil {
		return nil, err
	}

	viewPatcher, err := patcher.NewViewPatcher(&patcher.ViewPatcherConfig{
		Patchers: subsystemPatchers,
	})
	if err != nil {
		return nil, err
	}

	return &StateOps{
		ViewDiffer:  viewDiffer,
		ViewPatcher: viewPatcher,
	}, nil
}

// DecodeViewJSON decodes raw subsystem view data into its schema type.
// JSON unmarshals subsystem Data into map[string]any by default; a consumer
// that shipped a view across a process boundary uses this to restore the
// typed slices the differ and patcher expect.
func (ops *StateOps) DecodeViewJSON(
	schema engine.Schema,
	data json.RawMessage,
) (any, error) {
	switch schema {
	case tokenregistry.Schema:
		var typedData []tokenregistry.TokenView
		if err := json.Unmarshal(data, &typedData); err != nil {
			return nil, err
		}
		return typedData, nil

	case liquiditypool.Schema:
		var typedData []liquiditypool.PoolView
		if err := json.Unmarshal(data, &typedData); err != nil {
			return nil, err
		}
		return typedData, nil

	default:
		return nil, errors.New("unknown schema")
	}
}

// DecodeViewDiffJSON decodes raw subsystem diff data into its schema type.
func (ops *StateOps) DecodeViewDiffJSON(
	schema engine.Schema,
	data json.RawMessage,
) (any, error) {
	switch schema {
	case tokenregistry.Schema:
		var typedData tokenregistry.TokenViewDiff
		if err := json.Unmarshal(data, &typedData); err != nil {
			return nil, err
		}
		return typedData, nil

	case liquiditypool.Schema:
		var typedData liquiditypool.PoolViewDiff
		if err := json.Unmarshal(data, &typedData); err != nil {
			return nil, err
		}
		return typedData, nil

	default:
		return nil, errors.New("unknown schema")
	}
}
