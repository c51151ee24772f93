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

package access

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"

// Map is an ordered range map keyed by address range over *State, built on
// core/addr.RangeMap's sorted-slice engine. Adjacent entries are not merged.
type Map = addr.RangeMap[*State]

// NewMap returns an empty access map.
func NewMap() *Map { return &Map{} }

// UpdateRangeWith walks r over m, calling update(state) on the (possibly
// freshly split) State entries that intersect r and infill(gap) to obtain
// a State for any uncovered sub-range.
func UpdateRangeWith(m *Map, r addr.Range, infill func(gap addr.Range) *State, update func(s *State)) {
	m.UpdateRange(r, addr.Ops[*State]{
		Infill: func(m *Map, hint int, gap addr.Range) int {
			st := infill(gap)
			if st == nil || st.IsEmpty() {
				return hint
			}
			return m.Insert(hint, gap, st)
		},
		Update: func(m *Map, i int) {
			_, st := m.At(i)
			update(st)
		},
	})
}
