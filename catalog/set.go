package catalog

import (
	"slices"
)

// OrderedSet keeps unique strings in order of first insertion. Zero value is
// ready to use.
type OrderedSet struct {
	items []string
	index map[string]int
}

// Add inserts s unless already present, returns true if set was changed.
func (set *OrderedSet) Add(s string) bool {
	if set.index == nil {
		set.index = make(map[string]int)
	}
	if _, ok := set.index[s]; ok {
		return false
	}
	set.index[s] = len(set.items)
	set.items = append(set.items, s)
	return true
}

// Remove deletes s keeping order of remaining items, returns true if set was
// changed.
func (set *OrderedSet) Remove(s string) bool {
	i, ok := set.index[s]
	if !ok {
		return false
	}
	set.items = slices.Delete(set.items, i, i+1)
	delete(set.index, s)
	for j := i; j < len(set.items); j++ {
		set.index[set.items[j]] = j
	}
	return true
}

func (set *OrderedSet) Has(s string) bool {
	_, ok := set.index[s]
	return ok
}

func (set *OrderedSet) Len() int {
	return len(set.items)
}

// Items returns copy of the set content in insertion order.
func (set *OrderedSet) Items() []string {
	return slices.Clone(set.items)
}
