package liquiditypool

// PoolViewDiff describes the changes between two pool view snapshots.
type PoolViewDiff struct {
	Additions []PoolView `json:"additions,omitempty"`
	Updates   []PoolView `json:"updates,omitempty"`
	Deletions []PairKey  `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d PoolViewDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// Differ calculates the difference between two states of the pool registry.
// PairKey is a comparable struct, so it keys the lookup maps directly.
func Differ(old, new []PoolView) PoolViewDiff {
	oldPoolsMap := make(map[PairKey]PoolView, len(old))
	for _, pool := range old {
		oldPoolsMap[pool.Key] = pool
	}

	newPoolsMap := make(map[PairKey]PoolView, len(new))
	for _, pool := range new {
		newPoolsMap[pool.Key] = pool
	}

	var additions []PoolView
	var updates []PoolView
	var deletions []PairKey

	for key, newPool := range newPoolsMap {
		oldPool, exists := oldPoolsMap[key]
		if !exists {
			additions = append(additions, newPool)
		} else if oldPool.ReserveA != newPool.ReserveA || oldPool.ReserveB != newPool.ReserveB {
			// Reserves are the only mutable fields of a pool record.
			updates = append(updates, newPool)
		}
	}

	// No pool-deletion operation is defined, so deletions only fire for
	// hand-built views.
	for key := range oldPoolsMap {
		if _, exists := newPoolsMap[key]; !exists {
			deletions = append(deletions, key)
		}
	}

	return PoolViewDiff{
		Additions: additions,
		Updates:   updates,
		Deletions: deletions,
	}
}
