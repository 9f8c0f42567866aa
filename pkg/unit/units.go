/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package unit

import "iter"

// Item is one key/entry pair of an ordered mapping.
type Item struct {
	Key   string
	Entry *Entry
}

// Units is an ordered mapping of unit keys to entries. Keys keep the order
// in which they were added. A key added twice keeps both items so that
// duplicates can be reported; Get returns the first.
//
// The zero value and a nil *Units are empty mappings.
type Units struct {
	items []Item
	index map[string]int
}

// NewUnits creates an ordered mapping from items.
func NewUnits(items ...Item) *Units {
	u := &Units{}
	for _, it := range items {
		u.Add(it.Key, it.Entry)
	}
	return u
}

// Add appends key to the mapping.
func (u *Units) Add(key string, entry *Entry) {
	if u.index == nil {
		u.index = make(map[string]int)
	}
	if _, ok := u.index[key]; !ok {
		u.index[key] = len(u.items)
	}
	u.items = append(u.items, Item{Key: key, Entry: entry})
}

// Get returns the entry stored under key.
func (u *Units) Get(key string) (*Entry, bool) {
	if u == nil {
		return nil, false
	}
	i, ok := u.index[key]
	if !ok {
		return nil, false
	}
	return u.items[i].Entry, true
}

// Has reports whether key is in the mapping.
func (u *Units) Has(key string) bool {
	_, ok := u.Get(key)
	return ok
}

// Len returns the number of items, duplicates included.
func (u *Units) Len() int {
	if u == nil {
		return 0
	}
	return len(u.items)
}

// Keys returns the keys in declaration order.
func (u *Units) Keys() []string {
	if u == nil {
		return nil
	}
	keys := make([]string, 0, len(u.items))
	for _, it := range u.items {
		keys = append(keys, it.Key)
	}
	return keys
}

// All iterates the mapping in declaration order.
func (u *Units) All() iter.Seq2[string, *Entry] {
	return func(yield func(string, *Entry) bool) {
		if u == nil {
			return
		}
		for _, it := range u.items {
			if !yield(it.Key, it.Entry) {
				return
			}
		}
	}
}

// Filter returns the sub-mapping of keys for which keep returns true,
// in declaration order.
func (u *Units) Filter(keep func(key string) bool) *Units {
	out := &Units{}
	for key, entry := range u.All() {
		if keep(key) {
			out.Add(key, entry)
		}
	}
	return out
}

// Groups iterates the Group units of the mapping in declaration order.
func (u *Units) Groups() iter.Seq2[string, *Group] {
	return func(yield func(string, *Group) bool) {
		for key, entry := range u.All() {
			g, ok := entry.Spec.(*Group)
			if !ok {
				continue
			}
			if !yield(key, g) {
				return
			}
		}
	}
}

// Walk visits every entry of the tree depth-first in pre-order. scope is the
// colon-joined path of the enclosing groups, empty at the root. Walk stops
// at the first error returned by fn.
func (u *Units) Walk(fn func(scope, key string, entry *Entry) error) error {
	return u.walk("", fn)
}

func (u *Units) walk(scope string, fn func(scope, key string, entry *Entry) error) error {
	for key, entry := range u.All() {
		if err := fn(scope, key, entry); err != nil {
			return err
		}
		if g, ok := entry.Spec.(*Group); ok {
			if err := g.Units.walk(Path(scope, key), fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Path joins a scope and a key with the selector separator.
func Path(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + ":" + key
}
