package core

// Urn draws items with probability proportional to their weight. Items keep
// their insertion order, which makes draws reproducible for a given RNG.
type Urn[T any] struct {
	rng   *RNG
	sum   float64
	items []urnItem[T]
}

type urnItem[T any] struct {
	item   T
	weight float64
}

// NewUrn returns an empty urn drawing from rng.
func NewUrn[T any](rng *RNG) *Urn[T] {
	return &Urn[T]{rng: rng}
}

// Add places item in the urn. Non-positive weights are ignored.
func (u *Urn[T]) Add(item T, weight float64) {
	if weight <= 0 {
		return
	}
	u.sum += weight
	u.items = append(u.items, urnItem[T]{item: item, weight: weight})
}

// Len reports the number of items in the urn.
func (u *Urn[T]) Len() int { return len(u.items) }

// Pick draws one item. ok is false when the urn is empty.
func (u *Urn[T]) Pick() (item T, ok bool) {
	if len(u.items) == 0 {
		return item, false
	}
	target := u.rng.Float64() * u.sum
	acc := 0.0
	for _, it := range u.items {
		acc += it.weight
		if acc > target {
			return it.item, true
		}
	}
	// Rounding can leave target at the very top of the range.
	return u.items[len(u.items)-1].item, true
}
