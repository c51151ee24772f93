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

// Package hazard implements the detector family (C5): named entry points
// over sync/access's raw Detect* methods. Plain, Ordered and Barrier are
// wrapped so they never see an AccessState that is behind on its owning
// context's global-barrier queue; Async and Marker inspect states without
// that wrapper. Grounded on original_source/layers/sync/sync_hazard_detection.cpp's
// DoDetect template and its HazardDetector/HazardDetectorWithOrdering
// classes, re-expressed as plain functions over *acontext.Context instead
// of a virtual-dispatch class tree — Go has no use for the indirection once
// applying pending barriers to a copy first is a single function.
package hazard

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/acontext"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
)

// doDetect runs run against the AccessState actually in effect at st within
// ctx: if st is behind ctx's global-barrier queue, run sees a private,
// barrier-caught-up clone; otherwise it borrows st directly. Plain, Ordered
// and Barrier are thin wrappers around doDetect plus one of sync/access's
// Detect* methods; Async and Marker do not go through doDetect.
func doDetect(ctx *acontext.Context, st *access.State, run func(*access.State) access.Result) access.Result {
	if st.NextGlobalBarrierIndex < ctx.GlobalBarrierCount() {
		cp := st.Clone()
		ctx.ApplyGlobalBarriers(cp)
		return run(cp)
	}
	return run(st)
}

// Plain runs the ordinary (non-ordered) hazard check at every sub-range of
// r that has an effective access recorded, descending through ctx's DAG for
// any gap.
func Plain(ctx *acontext.Context, r addr.Range, info access.Info) access.Result {
	var found access.Result
	ctx.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			if found.Hazard() {
				return
			}
			if res := doDetect(ctx, st, func(s *access.State) access.Result { return s.DetectHazard(info) }); res.Hazard() {
				found = res
			}
		})
	return found
}

// Ordered is Plain but additionally honors an ordering guarantee: certain
// source/destination usage pairs the ordering rule names are implicitly
// ordered and must never be reported.
func Ordered(ctx *acontext.Context, r addr.Range, info access.Info, ordering access.Ordering) access.Result {
	var found access.Result
	ctx.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			if found.Hazard() {
				return
			}
			if res := doDetect(ctx, st, func(s *access.State) access.Result { return s.DetectHazardOrdered(info, ordering) }); res.Hazard() {
				found = res
			}
		})
	return found
}

// Barrier reports whether the prior access recorded anywhere in r is
// outside src's scope, i.e. the barrier about to be applied would be
// insufficient.
func Barrier(ctx *acontext.Context, r addr.Range, queueID access.QueueID, src barrier.ExecScope) access.Result {
	var found access.Result
	ctx.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			if found.Hazard() {
				return
			}
			if res := doDetect(ctx, st, func(s *access.State) access.Result {
					return s.DetectBarrierHazard(info(s), queueID, src)
				}); res.Hazard() {
				found = res
			}
		})
	return found
}

// Async reports an asynchronous-queue conflict at any access recorded at or
// after startTag on a queue other than queueID, regardless of barrier
// state: no ordering is implied across async references.
func Async(ctx *acontext.Context, r addr.Range, startTag uint64, queueID access.QueueID) access.Result {
	var found access.Result
	ctx.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			if found.Hazard() {
				return
			}
			if res := st.DetectAsyncHazard(info(st), startTag, queueID); res.Hazard() {
				found = res
			}
		})
	for _, ref := range ctx.Async {
		ref.Context.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
				if found.Hazard() {
					return
				}
				if res := st.DetectAsyncHazard(info(st), uint64(ref.StartTag), ref.QueueID); res.Hazard() {
					found = res
				}
			})
	}
	return found
}

// Marker reports whether st holds a write that no barrier has yet been
// applied to, inspecting st as given (no global-barrier catch-up). Reuses
// the write-access bookkeeping pragmatically rather than inventing a
// dedicated marker record.
func Marker(st *access.State) bool {
	return st.DetectMarkerHazard()
}

// info extracts a representative access.Info from st for detectors that
// need one but are really testing st's recorded writes/reads as a whole;
// the most recent write (or, absent one, the most recent read) stands in,
// matching the source's practice of keying these detectors off whichever
// access is currently live.
func info(st *access.State) access.Info {
	var latest access.Info
	have := false
	for _, w := range st.LastWrites {
		if !have || w.Info.Tag > latest.Tag {
			latest = w.Info
			have = true
		}
	}
	if have {
		return latest
	}
	for _, r := range st.LastReads {
		if !have || r.Info.Tag > latest.Tag {
			latest = r.Info
			have = true
		}
	}
	return latest
}
