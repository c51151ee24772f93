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

import "testing"

// checkInvariant asserts invariant 1: keys are pairwise
// non-overlapping and held in strictly ascending order.
func checkInvariant(t *testing.T, m *RangeMap[int]) {
	t.Helper()
	for i := 1; i < m.Len(); i++ {
		prev, _ := m.At(i - 1)
		cur, _ := m.At(i)
		if prev.End > cur.Begin {
			t.Fatalf("entries %d and %d overlap: %v, %v", i-1, i, prev, cur)
		}
		if cur.Begin < prev.Begin {
			t.Fatalf("entries %d and %d out of order: %v, %v", i-1, i, prev, cur)
		}
	}
}

func TestUpdateRangeInfillsEmptyMap(t *testing.T) {
	m := &RangeMap[int]{}
	var got []Range
	m.UpdateRange(Range{0, 16}, Ops[int]{
		Infill: func(m *RangeMap[int], hint int, gap Range) int {
			got = append(got, gap)
			return m.Insert(hint, gap, 1)
		},
		Update: func(m *RangeMap[int], i int) { t.Fatalf("unexpected update on empty map") },
	})
	if len(got) != 1 || got[0] != (Range{0, 16}) {
		t.Fatalf("expected one infill over [0,16), got %v", got)
	}
	checkInvariant(t, m)
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestUpdateRangeSplitsAtBoundaries(t *testing.T) {
	m := &RangeMap[int]{}
	m.Insert(0, Range{0, 32}, 5)

	var updated []Range
	m.UpdateRange(Range{8, 16}, Ops[int]{
		Infill: func(m *RangeMap[int], hint int, gap Range) int {
			t.Fatalf("unexpected infill over already-covered range: %v", gap)
			return hint
		},
		Update: func(m *RangeMap[int], i int) {
			r, _ := m.At(i)
			updated = append(updated, r)
		},
	})
	checkInvariant(t, m)
	if len(updated) != 1 || updated[0] != (Range{8, 16}) {
		t.Fatalf("expected update over exactly [8,16), got %v", updated)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 entries after split ([0,8) [8,16) [16,32)), got %d", m.Len())
	}
	r0, _ := m.At(0)
	r1, _ := m.At(1)
	r2, _ := m.At(2)
	if r0 != (Range{0, 8}) || r1 != (Range{8, 16}) || r2 != (Range{16, 32}) {
		t.Fatalf("unexpected split ranges: %v %v %v", r0, r1, r2)
	}
}

func TestUpdateRangeMixesGapAndExistingEntries(t *testing.T) {
	m := &RangeMap[int]{}
	m.Insert(0, Range{8, 16}, 5)

	var events []string
	m.UpdateRange(Range{0, 24}, Ops[int]{
		Infill: func(m *RangeMap[int], hint int, gap Range) int {
			events = append(events, "infill:"+gap.String())
			return m.Insert(hint, gap, 7)
		},
		Update: func(m *RangeMap[int], i int) {
			r, _ := m.At(i)
			events = append(events, "update:"+r.String())
		},
	})
	checkInvariant(t, m)
	want := []string{"infill:[0x0, 0x8)", "update:[0x8, 0x10)", "infill:[0x10, 0x18)"}
	if len(events) != len(want) {
		t.Fatalf("got events %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %q, want %q", i, events[i], want[i])
		}
	}
}

func TestEmptyRangeIsNoOp(t *testing.T) {
	m := &RangeMap[int]{}
	called := false
	m.UpdateRange(Range{5, 5}, Ops[int]{
		Infill: func(m *RangeMap[int], hint int, gap Range) int { called = true; return hint },
		Update: func(m *RangeMap[int], i int) { called = true },
	})
	if called {
		t.Fatalf("UpdateRange over an empty range must be a no-op")
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty map, got %d entries", m.Len())
	}
}

func TestForEachEntryInRangesUntilVisitsEachEntryOnce(t *testing.T) {
	m := &RangeMap[int]{}
	m.Insert(0, Range{0, 10}, 1)
	m.Insert(1, Range{10, 20}, 2)

	gen := NewSliceRangeGen([]Range{{0, 5}, {5, 10}, {10, 20}})
	visits := map[int]int{}
	m.ForEachEntryInRangesUntil(gen, func(gr, er Range, i int) bool {
		visits[i]++
		return false
	})
	if visits[0] != 1 {
		t.Fatalf("entry 0 visited %d times, want 1 (two generated ranges land in it)", visits[0])
	}
	if visits[1] != 1 {
		t.Fatalf("entry 1 visited %d times, want 1", visits[1])
	}
}

func TestForEachEntryInRangesUntilStopsEarly(t *testing.T) {
	m := &RangeMap[int]{}
	m.Insert(0, Range{0, 10}, 1)
	m.Insert(1, Range{10, 20}, 2)

	gen := NewSliceRangeGen([]Range{{0, 20}})
	count := 0
	m.ForEachEntryInRangesUntil(gen, func(gr, er Range, i int) bool {
		count++
		return true
	})
	if count != 1 {
		t.Fatalf("expected the walk to stop after the first hit, visited %d", count)
	}
}
