package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strings"
)

// Property is a raw value for a CSS property. For example, with
//
//     will-change: transform
//
// a property value of "transform" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// IsNone checks wether a property is empty or has value "none".
func (p Property) IsNone() bool {
	return p == "" || p == "none"
}

// Fields splits a property value into whitespace- or comma-separated words.
func (p Property) Fields() []string {
	return strings.FieldsFunc(string(p), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// PropertyMap is a collection of raw properties, keyed by property name.
type PropertyMap struct {
	propsDict map[string]Property
}

// NewPropertyMap creates an empty property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{}
}

// Property returns a property's value.
func (pmap *PropertyMap) Property(key string) (Property, bool) {
	if pmap == nil || pmap.propsDict == nil {
		return NullStyle, false
	}
	p, ok := pmap.propsDict[key]
	return p, ok
}

// Get is a shortcut for Property, dropping the found-flag.
func (pmap *PropertyMap) Get(key string) Property {
	p, _ := pmap.Property(key)
	return p
}

// Set a property's value. Overwrites an existing value, if present.
//
// Style property values are always converted to lower case.
func (pmap *PropertyMap) Set(key string, p Property) {
	p = Property(strings.ToLower(strings.TrimSpace(string(p))))
	key = strings.ToLower(strings.TrimSpace(key))
	if pmap.propsDict == nil {
		pmap.propsDict = make(map[string]Property)
	}
	pmap.propsDict[key] = p
}

// IsSet is a predicated wether a property is set within this map.
func (pmap *PropertyMap) IsSet(key string) bool {
	p, ok := pmap.Property(key)
	return ok && !p.IsEmpty()
}

// Properties returns all properties, sorted by key.
func (pmap *PropertyMap) Properties() []KeyValue {
	if pmap == nil {
		return nil
	}
	r := make([]KeyValue, 0, len(pmap.propsDict))
	for k, v := range pmap.propsDict {
		r = append(r, KeyValue{k, v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// Stringer for property maps; used for debugging.
func (pmap *PropertyMap) String() string {
	var b strings.Builder
	for _, kv := range pmap.Properties() {
		b.WriteString(fmt.Sprintf("%s: %s; ", kv.Key, kv.Value))
	}
	return strings.TrimSpace(b.String())
}
