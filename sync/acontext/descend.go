// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package acontext

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
)

// ForEachEffectiveAccess walks r over c, invoking fn once per maximal
// sub-range with the AccessState actually in effect there:
//
// - where c.Map covers the sub-range, the local state — with any still-
// pending global barriers folded into a private clone first, never
// mutating c.Map itself;
// - where it does not, every predecessor's effective state over that same
// sub-range, reached by recursing into each Prev/ExternalSrc trackback
// with that edge's barriers applied. A gap with no predecessor at all
// calls fn zero times, which the caller reads as "no prior access" (a
// first-use range).
//
// A gap reachable through more than one trackback (e.g. two subpass
// dependencies landing on the same attachment range) invokes fn once per
// trackback; callers that detect hazards treat each call as an independent
// candidate prior access, which is the same fan-out the source's recursive
// resolution produces.
func (c *Context) ForEachEffectiveAccess(r addr.Range, fn func(rng addr.Range, st *access.State)) {
	cursor := r.Begin
	for cursor < r.End {
		if i, ok := c.Map.Find(cursor); ok {
			er, st := c.Map.At(i)
			sub := addr.Range{Begin: cursor, End: er.End}
			if sub.End > r.End {
				sub.End = r.End
			}
			eff := st
			if st.NextGlobalBarrierIndex < c.GlobalBarrierCount() {
				eff = st.Clone()
				c.ApplyGlobalBarriers(eff)
			}
			fn(sub, eff)
			cursor = sub.End
			continue
		}

		gapEnd := r.End
		if j := c.Map.LowerBound(cursor); j < c.Map.Len() {
			eb, _ := c.Map.At(j)
			if eb.Begin < gapEnd {
				gapEnd = eb.Begin
			}
		}
		gap := addr.Range{Begin: cursor, End: gapEnd}
		c.resolveFromPrev(gap, fn)
		cursor = gapEnd
	}
}

func (c *Context) resolveFromPrev(gap addr.Range, fn func(rng addr.Range, st *access.State)) {
	visit := func(tb TrackBack) {
		tb.Context.ForEachEffectiveAccess(gap, func(rng addr.Range, st *access.State) {
				eff := st
				for _, b := range tb.Barriers {
					cp := eff.Clone()
					cp.ApplyBarrier(b, false, 0, 0, eff.QueueID)
					eff = cp
				}
				fn(rng, eff)
			})
	}
	for _, tb := range c.Prev {
		visit(tb)
	}
	if c.ExternalSrc != nil {
		visit(*c.ExternalSrc)
	}
}

// ImportFrom merges src's effective access state over r into c's own map,
// as WaitEvents does when pulling an event's captured first scope into the
// waiting context before applying the wait's barriers. A gap in c's map
// gets a fresh State seeded from src; an existing entry absorbs src's
// state via Resolve. This is a simplification of the source's scope-
// intersected import: rather than intersecting src's range generator with
// c's existing entries sub-range by sub-range, every entry c already has
// anywhere in r absorbs src's whole-of-r effective state. The two coincide
// whenever r is already the maximal range the caller wants merged (true for
// every WaitEvents call this module records), so the simplification costs
// nothing at this module's call sites while avoiding a second per-entry
// range-generator plumbing path.
func (c *Context) ImportFrom(src *Context, r addr.Range) {
	access.UpdateRangeWith(c.Map, r,
		func(gap addr.Range) *access.State {
			st := access.NewState()
			st.NextGlobalBarrierIndex = c.GlobalBarrierCount()
			src.ForEachEffectiveAccess(gap, func(_ addr.Range, prior *access.State) {
					st.Resolve(prior)
				})
			if st.IsEmpty() {
				return nil
			}
			return st
		},
		func(st *access.State) {
			src.ForEachEffectiveAccess(r, func(_ addr.Range, prior *access.State) {
					st.Resolve(prior)
				})
		},
	)
}

// DoUpdateAccessState records info over r in c's own map, installing a fresh
// State (initialized from whatever is already in effect over a sub-range,
// per resolve/merge) for any sub-range this context does not yet track
// locally. Every local entry thus created starts with
// NextGlobalBarrierIndex == c.GlobalBarrierCount: a brand new local write
// needs no retroactive global barrier application of its own, since it did
// not exist while those barriers were queued.
func (c *Context) DoUpdateAccessState(r addr.Range, info access.Info) {
	access.UpdateRangeWith(c.Map, r,
		func(gap addr.Range) *access.State {
			st := access.NewState()
			c.ForEachEffectiveAccess(gap, func(_ addr.Range, prior *access.State) {
					st.Resolve(prior)
				})
			st.NextGlobalBarrierIndex = c.GlobalBarrierCount()
			st.Update(info)
			return st
		},
		func(st *access.State) {
			st.Update(info)
		},
	)
}
