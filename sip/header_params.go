package sip

import (
	"io"
	"slices"
	"strings"
)

// Param is a single ;name[=value] pair of header or URI.
// Zero Value means param without value, like ;lr
type Param struct {
	Name  string
	Value GenericValue
}

// HasValue reports whether param carries value.
func (p Param) HasValue() bool {
	return !p.Value.IsZero()
}

// Params are ordered key value params. Keys are unique and case sensitive.
type Params []Param

// NewParams creates an empty set of parameters.
func NewParams() Params {
	// Typical number of params:
	// URI: 1-2
	// Contact: 2-3
	return make(Params, 0, 4)
}

// Items returns the entire parameter map with values in wire form.
func (hp Params) Items() map[string]string {
	m := make(map[string]string, len(hp))
	for _, kv := range hp {
		m[kv.Name] = kv.Value.String()
	}
	return m
}

// Keys return a slice of keys, in order of appearance.
func (hp Params) Keys() []string {
	s := make([]string, 0, len(hp))
	for _, kv := range hp {
		s = append(s, kv.Name)
	}
	return s
}

func (hp Params) index(key string) int {
	for i, kv := range hp {
		if kv.Name == key {
			return i
		}
	}
	return -1
}

// Get returns a value for a given key, if it exists.
func (hp Params) Get(key string) (GenericValue, bool) {
	if i := hp.index(key); i >= 0 {
		return hp[i].Value, true
	}
	return GenericValue{}, false
}

// GetOr returns unquoted value for a given key, or a default, if it doesn't exist.
func (hp Params) GetOr(key, def string) string {
	if i := hp.index(key); i >= 0 {
		return hp[i].Value.Unquote()
	}
	return def
}

// Set will add new key-value. If key exists value is replaced keeping its position.
func (hp *Params) Set(key string, val GenericValue) Params {
	if i := hp.index(key); i >= 0 {
		(*hp)[i].Value = val
	} else {
		*hp = append(*hp, Param{Name: key, Value: val})
	}
	return *hp
}

// SetFlag sets param without value.
func (hp *Params) SetFlag(key string) Params {
	return hp.Set(key, GenericValue{})
}

// Remove removes value with a given key.
func (hp *Params) Remove(key string) Params {
	if i := hp.index(key); i >= 0 {
		*hp = slices.Delete(*hp, i, i+1)
	}
	return *hp
}

// Has checks does key exists
func (hp Params) Has(key string) bool {
	return hp.index(key) >= 0
}

// Clone returns underneath params copied
func (hp Params) Clone() Params {
	return slices.Clone(hp)
}

// ToString renders params to a string.
// Values are written in their wire form, no escaping is done here.
func (hp Params) ToString(sep byte) string {
	if len(hp) == 0 {
		return ""
	}

	var buffer strings.Builder
	hp.ToStringWrite(sep, &buffer)
	return buffer.String()
}

// ToStringWrite is same as ToString but it stores to defined buffer instead returning string
func (hp Params) ToStringWrite(sep byte, buffer io.StringWriter) {
	sepstr := string(sep)
	for i, kv := range hp {
		if i > 0 {
			buffer.WriteString(sepstr)
		}

		buffer.WriteString(kv.Name)
		// Params can be without value like ;lr;
		if kv.Value.IsZero() {
			continue
		}
		buffer.WriteString("=")
		kv.Value.StringWrite(buffer)
	}
}

// String returns params joined with ';' char.
func (hp Params) String() string {
	return hp.ToString(';')
}

// Length returns number of params.
func (hp Params) Length() int {
	return len(hp)
}

// hasQuoted reports is any value quoted string
func (hp Params) hasQuoted() bool {
	return slices.ContainsFunc(hp, func(p Param) bool { return p.Value.Quoted })
}

// Equals check if two sets of parameters are equal in the sense of having the same keys with the same values.
// This does not rely on ordering of params.
func (hp Params) Equals(other interface{}) bool {
	q, ok := other.(Params)
	if !ok {
		return false
	}

	if hp.Length() != q.Length() {
		return false
	}

	for _, kv := range hp {
		qVal, ok := q.Get(kv.Name)
		if !ok {
			return false
		}
		if kv.Value != qVal {
			return false
		}
	}

	return true
}
