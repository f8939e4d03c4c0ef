package renumber

import "texnumber/internal/model"

// Dictionary maps brace groups such as "{eqnFoo}" to the number they were
// assigned, remembering assignment order. It is filled by Index and only read
// afterwards.
type Dictionary struct {
	index map[string]int
	keys  []string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// insert assigns the next number to key unless it is already present.
// It reports the key's number and whether it was new.
func (d *Dictionary) insert(key string) (int, bool) {
	if n, ok := d.index[key]; ok {
		return n, false
	}
	d.keys = append(d.keys, key)
	n := len(d.keys)
	d.index[key] = n
	return n, true
}

// Lookup returns the number assigned to key.
func (d *Dictionary) Lookup(key string) (int, bool) {
	n, ok := d.index[key]
	return n, ok
}

// Len is the number of distinct labels.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Keys returns the labels in assignment order.
func (d *Dictionary) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Mappings lists every entry with the canonical form it receives under replacement.
func (d *Dictionary) Mappings(replacement string) []model.Mapping {
	out := make([]model.Mapping, 0, len(d.keys))
	for i, k := range d.keys {
		canon := Canonical(replacement, i+1)
		out = append(out, model.Mapping{
			Label:     k,
			Canonical: canon,
			Number:    i + 1,
			Modified:  canon != k,
		})
	}
	return out
}
