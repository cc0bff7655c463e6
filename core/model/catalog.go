package model

import "sort"

// Catalog maps vehicle codes to their specification. It is treated as
// read-only once built.
type Catalog map[string]VehicleType

// Lookup returns the vehicle registered under code. The boolean is false when
// the code is unknown.
func (c Catalog) Lookup(code string) (VehicleType, bool) {
	v, ok := c[code]
	if !ok {
		return VehicleType{}, false
	}
	if v.Code == "" {
		v.Code = code
	}
	return v, true
}

// Codes returns the vehicle codes in lexical order.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c))
	for k := range c {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v.Clone()
	}
	return out
}
