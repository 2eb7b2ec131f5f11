package model

import "maps"

// PropertySet is the string-to-string mapping a system reports about itself.
type PropertySet map[string]string

// Clone returns an independent copy. A nil set clones to an empty one.
func (p PropertySet) Clone() PropertySet {
	if p == nil {
		return PropertySet{}
	}
	return maps.Clone(p)
}

// Entry is one host in the inventory.
type Entry struct {
	Hostname   string      `json:"hostname" yaml:"hostname"`
	Properties PropertySet `json:"properties" yaml:"properties"`
}
