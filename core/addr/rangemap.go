// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package addr

import "sort"

// entry is one key/value pair of a RangeMap.
type entry[V any] struct {
	r Range
	v V
}

// RangeMap is a sorted mapping Range -> V with the invariant that keys are
// pairwise non-overlapping and held in ascending order. It is the generic
// engine behind sync/access's AccessMap; the split/infill/erase shape
// follows a sorted-slice binary-search merge/cut/splice algorithm,
// generalized from a plain interval list to a Range-keyed map of values.
type RangeMap[V any] struct {
	entries []entry[V]
}

// Len returns the number of entries currently in the map.
func (m *RangeMap[V]) Len() int { return len(m.entries) }

// At returns the range and value of the i'th entry, in ascending order.
func (m *RangeMap[V]) At(i int) (Range, V) { return m.entries[i].r, m.entries[i].v }

// ValueAt returns a pointer to the i'th entry's value, for in-place mutation.
func (m *RangeMap[V]) ValueAt(i int) *V { return &m.entries[i].v }

// LowerBound returns the index of the first entry whose range ends after
// addr (i.e. the first entry that could contain addr, or the first entry
// beginning after it if none does). Returns Len() if addr is past every
// entry.
func (m *RangeMap[V]) LowerBound(a ResourceAddress) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].r.End > a
	})
}

// Find returns the index of the entry containing addr, or (-1, false).
func (m *RangeMap[V]) Find(a ResourceAddress) (int, bool) {
	i := m.LowerBound(a)
	if i < len(m.entries) && m.entries[i].r.Begin <= a {
		return i, true
	}
	return -1, false
}

// Split turns the entry at index i into two entries at address `at`,
// duplicating its value into both halves. `at` must lie strictly inside
// the entry's range; if it does not, Split is a no-op and returns i.
// The right half receives cloneValue's copy of the value, so a value type
// with a Clone method (sync/access.State has one) never ends up aliased
// across the two halves.
func (m *RangeMap[V]) Split(i int, at ResourceAddress) int {
	e := m.entries[i]
	if at <= e.r.Begin || at >= e.r.End {
		return i
	}
	left := entry[V]{Range{e.r.Begin, at}, e.v}
	right := entry[V]{Range{at, e.r.End}, cloneValue(e.v)}
	m.entries = append(m.entries, entry[V]{})
	copy(m.entries[i+2:], m.entries[i+1:len(m.entries)-1])
	m.entries[i] = left
	m.entries[i+1] = right
	return i + 1
}

// cloner is implemented by value types that need a distinct copy on split
// rather than a shared shallow copy (sync/access.State implements it).
type cloner[V any] interface {
	Clone() V
}

func cloneValue[V any](v V) V {
	if c, ok := any(v).(cloner[V]); ok {
		return c.Clone()
	}
	return v
}

// Insert places a new entry with range r and value v at index hint,
// shifting later entries up. The caller must ensure r does not overlap any
// existing entry and that hint is the correct sorted position (normally
// obtained from LowerBound). Returns the index of the inserted entry.
func (m *RangeMap[V]) Insert(hint int, r Range, v V) int {
	m.entries = append(m.entries, entry[V]{})
	copy(m.entries[hint+1:], m.entries[hint:len(m.entries)-1])
	m.entries[hint] = entry[V]{r, v}
	return hint
}

// Erase removes the entry at index i.
func (m *RangeMap[V]) Erase(i int) {
	copy(m.entries[i:], m.entries[i+1:])
	m.entries = m.entries[:len(m.entries)-1]
}

// Ops is the pair of callbacks driving UpdateRange: Infill
// is invoked for a gap not covered by any existing entry, Update for an
// entry that lies entirely inside the walked range (after any necessary
// splitting at the range boundaries).
type Ops[V any] struct {
	// Infill is called with the map, an insertion hint, and the gap range.
	// It may insert a new entry to occupy the gap (returning its index, for
	// callers that want it) or leave the gap unfilled.
	Infill func(m *RangeMap[V], hint int, gap Range) int
	// Update is called once per entry intersecting the walked range, after
	// that entry has been split (if necessary) to lie entirely inside it.
	Update func(m *RangeMap[V], i int)
}

// UpdateRange walks r from LowerBound(r.Begin) forward, calling Infill for
// each gap not covered by an existing entry and Update for each entry that
// intersects r, splitting entries at r's boundaries first so every Update
// call sees an entry fully contained in r.
func (m *RangeMap[V]) UpdateRange(r Range, ops Ops[V]) {
	if r.Empty() {
		return
	}
	cursor := r.Begin
	for cursor < r.End {
		i := m.LowerBound(cursor)
		if i >= len(m.entries) || m.entries[i].r.Begin > cursor {
			gapEnd := r.End
			if i < len(m.entries) && m.entries[i].r.Begin < gapEnd {
				gapEnd = m.entries[i].r.Begin
			}
			ops.Infill(m, i, Range{cursor, gapEnd})
			cursor = gapEnd
			continue
		}
		// m.entries[i] starts at or before cursor and ends after it.
		if m.entries[i].r.Begin < cursor {
			i = m.Split(i, cursor)
		}
		if m.entries[i].r.End > r.End {
			m.Split(i, r.End)
		}
		ops.Update(m, i)
		cursor = m.entries[i].r.End
	}
}

// ForEachEntryInRangesUntil runs action(generatedRange, entryRange, i) at
// most once per (generated range, map entry) intersection, stopping early
// if action returns true. A skip-limit watermark (the end of the last
// visited entry) ensures an entry is never re-visited when successive
// generated ranges fall into it.
func (m *RangeMap[V]) ForEachEntryInRangesUntil(gen RangeGen, action func(gen, entryRange Range, i int) bool) {
	var skipLimit ResourceAddress
	for {
		gr := gen.Next()
		if gr.Empty() {
			return
		}
		i := m.LowerBound(gr.Begin)
		for i < len(m.entries) && m.entries[i].r.Begin < gr.End {
			er := m.entries[i].r
			if er.End > skipLimit && gr.Intersects(er) {
				skipLimit = er.End
				if action(gr, er, i) {
					return
				}
			}
			i++
		}
	}
}

// Clone returns a deep copy of the map; values are cloned via cloneValue
// when V implements cloner[V], matching init_from's deep-copy contract.
func (m *RangeMap[V]) Clone() *RangeMap[V] {
	out := &RangeMap[V]{entries: make([]entry[V], len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = entry[V]{e.r, cloneValue(e.v)}
	}
	return out
}
