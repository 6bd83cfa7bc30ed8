package dimension

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// Default is the value assumed for a dimension a vector does not carry.
const Default = 0.5

// Entry is a single named dimension value.
type Entry struct {
	Name  string
	Value float64
}

// Vector is an ordered association of dimension name to normalized value.
// The zero value is an empty vector. Vectors are immutable; With returns a copy.
type Vector struct {
	entries []Entry
}

// Sanitize clamps x into [0, 1]. NaN and infinities become Default.
// ok is false when x had to be changed.
func Sanitize(x float64) (v float64, ok bool) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return Default, false
	case x < 0:
		return 0, false
	case x > 1:
		return 1, false
	}
	return x, true
}

// FromMap builds a vector from m, sanitizing every value.
func FromMap(m map[string]float64) Vector {
	if len(m) == 0 {
		return Vector{}
	}
	entries := make([]Entry, 0, len(m))
	for name, raw := range m {
		v, _ := Sanitize(raw)
		entries = append(entries, Entry{Name: name, Value: v})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return Vector{entries: entries}
}

// Len returns the number of dimensions carried by v.
func (v Vector) Len() int { return len(v.entries) }

func (v Vector) index(name string) (int, bool) {
	return slices.BinarySearchFunc(v.entries, name, func(e Entry, n string) int {
		return strings.Compare(e.Name, n)
	})
}

// Get returns the value stored under name.
func (v Vector) Get(name string) (float64, bool) {
	if i, ok := v.index(name); ok {
		return v.entries[i].Value, true
	}
	return 0, false
}

// Lookup is Get with a case-insensitive fallback, used where dimension names
// come from user configuration ("Category" vs "category").
func (v Vector) Lookup(name string) (float64, bool) {
	if x, ok := v.Get(name); ok {
		return x, true
	}
	for _, e := range v.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return 0, false
}

// Value returns the value under name, or Default when absent.
func (v Vector) Value(name string) float64 {
	if x, ok := v.Get(name); ok {
		return x
	}
	return Default
}

// With returns a copy of v with name set to value (sanitized).
func (v Vector) With(name string, value float64) Vector {
	value, _ = Sanitize(value)
	entries := slices.Clone(v.entries)
	if i, ok := v.index(name); ok {
		entries[i].Value = value
	} else {
		entries = slices.Insert(entries, i, Entry{Name: name, Value: value})
	}
	return Vector{entries: entries}
}

// Names returns the dimension names in order.
func (v Vector) Names() []string {
	names := make([]string, len(v.entries))
	for i, e := range v.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the ordered entries.
func (v Vector) Entries() []Entry { return slices.Clone(v.entries) }

// Sum returns the sum of all carried values.
func (v Vector) Sum() float64 {
	var s float64
	for _, e := range v.entries {
		s += e.Value
	}
	return s
}

// Map converts v back to a plain map.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.entries))
	for _, e := range v.entries {
		m[e.Name] = e.Value
	}
	return m
}

// Equal reports whether v and o carry the same names and values.
func (v Vector) Equal(o Vector) bool {
	return slices.Equal(v.entries, o.entries)
}

// MarshalJSON encodes v as a JSON object with keys in order.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range v.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of numbers.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*v = FromMap(m)
	return nil
}
