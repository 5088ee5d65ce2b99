package tokenregistry

// TokenViewDiff describes the changes between two token view snapshots.
type TokenViewDiff struct {
	Additions []TokenView `json:"additions,omitempty"`
	Updates   []TokenView `json:"updates,omitempty"`
	Deletions []string    `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d TokenViewDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// Differ calculates the difference between two states of the token registry.
// The logic uses maps for O(1) average time complexity lookups to ensure performance.
func Differ(old, new []TokenView) TokenViewDiff {
	// The key is the token's unique name.
	oldTokensMap := make(map[string]TokenView, len(old))
	for _, token := range old {
		oldTokensMap[token.Name] = token
	}

	newTokensMap := make(map[string]TokenView, len(new))
	for _, token := range new {
		newTokensMap[token.Name] = token
	}

	var additions []TokenView
	var updates []TokenView
	var deletions []string

	// Identify additions and updates by walking the new set.
	for name, newToken := range newTokensMap {
		oldToken, exists := oldTokensMap[name]
		if !exists {
			additions = append(additions, newToken)
		} else if oldToken.Balance != newToken.Balance {
			// Balance is the only mutable field of a token record.
			updates = append(updates, newToken)
		}
	}

	// Identify deletions by walking the old set. The registry defines no
	// token-removal operation, so this only fires for hand-built views.
	for name := range oldTokensMap {
		if _, exists := newTokensMap[name]; !exists {
			deletions = append(deletions, name)
		}
	}

	return TokenViewDiff{
		Additions: additions,
		Updates:   updates,
		Deletions: deletions,
	}
}
