package liquiditypool

import "sort"

// Patcher constructs a new pool view state by applying a diff to a previous
// state. The previous state is never mutated: PoolView contains no pointer
// fields, so copying records into a fresh map is safe.
//
// The result is sorted by key so that a patched view is byte-identical to a
// view produced directly by the exchange.
func Patcher(prevState []PoolView, diff PoolViewDiff) ([]PoolView, error) {
	newStateMap := make(map[PairKey]PoolView, len(prevState))
	for _, pool := range prevState {
		newStateMap[pool.Key] = pool
	}

	for _, key := range diff.Deletions {
		delete(newStateMap, key)
	}

	for _, updatedPool := range diff.Updates {
		newStateMap[updatedPool.Key] = updatedPool
	}

	for _, addedPool := range diff.Additions {
		newStateMap[addedPool.Key] = addedPool
	}

	finalState := make([]PoolView, 0, len(newStateMap))
	for _, pool := range newStateMap {
		finalState = append(finalState, pool)
	}
	sort.Slice(finalState, func(i, j int) bool {
		if finalState[i].Key.TokenA != finalState[j].Key.TokenA {
			return finalState[i].Key.TokenA < finalState[j].Key.TokenA
		}
		return finalState[i].Key.TokenB < finalState[j].Key.TokenB
	})

	return finalState, nil
}
