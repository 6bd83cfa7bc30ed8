package dimension

import (
	"slices"
	"strings"
)

// Set is the sorted collection of dimension names known at a point in time.
type Set struct {
	names []string
}

// NewSet builds a set from names, dropping duplicates.
func NewSet(names ...string) Set {
	var s Set
	s.Add(names...)
	return s
}

// Union returns the set of all names carried by vectors.
func Union(vectors ...Vector) Set {
	var s Set
	for _, v := range vectors {
		for _, e := range v.entries {
			s.Add(e.Name)
		}
	}
	return s
}

// Add inserts names keeping the set sorted.
func (s *Set) Add(names ...string) {
	for _, n := range names {
		if i, ok := slices.BinarySearch(s.names, n); !ok {
			s.names = slices.Insert(s.names, i, n)
		}
	}
}

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := slices.BinarySearch(s.names, name)
	return ok
}

// Resolve maps a configured name onto a member of the set, trying an exact
// match first and a case-insensitive one second.
func (s Set) Resolve(name string) (string, bool) {
	if s.Contains(name) {
		return name, true
	}
	for _, n := range s.names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

// Len returns the number of names.
func (s Set) Len() int { return len(s.names) }

// Names returns a copy of the names in order.
func (s Set) Names() []string { return slices.Clone(s.names) }

// Equal reports whether both sets hold the same names.
func (s Set) Equal(o Set) bool { return slices.Equal(s.names, o.names) }

// Similarity compares a and b over set.
//
// It is the mean of 1-|a-b| across every name in set, with absent values
// read as Default. Two vectors are fully similar (1) when they agree on every
// known dimension. An empty set carries no information and yields 0.
func Similarity(a, b Vector, set Set) float64 {
	if len(set.names) == 0 {
		return 0
	}
	var total float64
	for _, n := range set.names {
		d := a.Value(n) - b.Value(n)
		if d < 0 {
			d = -d
		}
		total += 1 - d
	}
	return total / float64(len(set.names))
}
