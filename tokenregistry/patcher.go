package tokenregistry

import "sort"

// Patcher constructs a new token view state by applying a diff to a previous
// state. The previous state is never mutated: TokenView contains no pointer
// fields, so copying records into a fresh map is safe.
//
// The result is sorted by name so that a patched view is byte-identical to a
// view produced directly by the registry.
func Patcher(prevState []TokenView, diff TokenViewDiff) ([]TokenView, error) {
	newStateMap := make(map[string]TokenView, len(prevState))
	for _, token := range prevState {
		newStateMap[token.Name] = token
	}

	for _, name := range diff.Deletions {
		delete(newStateMap, name)
	}

	for _, updatedToken := range diff.Updates {
		newStateMap[updatedToken.Name] = updatedToken
	}

	for _, addedToken := range diff.Additions {
		newStateMap[addedToken.Name] = addedToken
	}

	finalState := make([]TokenView, 0, len(newStateMap))
	for _, token := range newStateMap {
		finalState = append(finalState, token)
	}
	sort.Slice(finalState, func(i, j int) bool {
		return finalState[i].Name < finalState[j].Name
	})

	return finalState, nil
}
