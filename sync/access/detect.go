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

package access

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// orderedBy reports whether ordering declares priorIdx and newIdx
// implicitly ordered, so a detector must not report a hazard between them.
// Framebuffer-space ordering guarantees (color/depth-stencil attachment
// writes to the same pixel happen in API order across draws and subpasses)
// and the raster-order guarantee between vertex and fragment stages of one
// draw are the cases the real API defines; this module models exactly
// those.
func orderedBy(ordering Ordering, priorIdx, newIdx Index) bool {
	switch ordering {
	case OrderingColorAttachment:
		return isColorAttachment(priorIdx) && isColorAttachment(newIdx)
	case OrderingDepthStencilAttachment:
		return isDepthStencilAttachment(priorIdx) && isDepthStencilAttachment(newIdx)
	case OrderingRaster:
		return isRasterOrdered(priorIdx) && isRasterOrdered(newIdx)
	}
	return false
}

func isColorAttachment(i Index) bool {
	return i == usage.IndexColorAttachmentOutputRead || i == usage.IndexColorAttachmentOutputWrite
}

func isDepthStencilAttachment(i Index) bool {
	switch i {
	case usage.IndexEarlyFragmentTestsRead, usage.IndexEarlyFragmentTestsWrite,
		usage.IndexLateFragmentTestsRead, usage.IndexLateFragmentTestsWrite:
		return true
	}
	return false
}

func isRasterOrdered(i Index) bool {
	switch i {
	case usage.IndexVertexShaderRead, usage.IndexFragmentShaderRead, usage.IndexFragmentShaderWrite:
		return true
	}
	return isColorAttachment(i) || isDepthStencilAttachment(i)
}

// DetectHazard classifies info against the recorded writes/reads with no
// ordering rule and no barrier scope consulted beyond what has already
// been folded into Barriers/AccessBarriers by ApplyBarrier.
func (s *State) DetectHazard(info Info) Result {
	return s.detectHazard(info, OrderingNone)
}

// DetectHazardOrdered is the ordering-aware variant: accesses that
// orderedBy declares implicitly ordered under the given ordering rule are
// not reported.
func (s *State) DetectHazardOrdered(info Info, ordering Ordering) Result {
	return s.detectHazard(info, ordering)
}

func (s *State) detectHazard(info Info, ordering Ordering) Result {
	stage, acc := info.Stage(), info.Access()
	if acc.IsWrite() {
		for _, w := range s.LastWrites {
			if w.Info.Tag == info.Tag {
				continue
			}
			if orderedBy(ordering, w.Info.Index, info.Index) {
				continue
			}
			if !w.covers(stage, acc) {
				return Hazard(WriteAfterWrite, info.Tag, w.Info)
			}
		}
		for _, r := range s.LastReads {
			if r.Info.Tag == info.Tag {
				continue
			}
			if orderedBy(ordering, r.Info.Index, info.Index) {
				continue
			}
			if !r.covers(stage) {
				return Hazard(WriteAfterRead, info.Tag, r.Info)
			}
		}
		return NoHazard
	}
	// A read never hazards against another read (RaR is not a hazard).
	for _, w := range s.LastWrites {
		if w.Info.Tag == info.Tag {
			continue
		}
		if orderedBy(ordering, w.Info.Index, info.Index) {
			continue
		}
		if !w.covers(stage, acc) {
			return Hazard(ReadAfterWrite, info.Tag, w.Info)
		}
	}
	return NoHazard
}

// DetectBarrierHazard reports a hazard iff some prior-recorded write is not
// covered by the given source execution+access scope, i.e. the offered
// barrier is insufficient to synchronize against it. Used by
// PipelineBarrier to validate that an image layout transition's src scope
// actually covers whatever was recorded before it.
func (s *State) DetectBarrierHazard(info Info, queueID QueueID, src barrier.ExecScope) Result {
	for _, w := range s.LastWrites {
		if queueID != InvalidQueueID && w.Info.QueueID != InvalidQueueID && w.Info.QueueID != queueID {
			continue // writes on another real queue are async accesses, not this detector's concern
		}
		if !src.Covers(w.Info.Stage(), w.Info.Access()) {
			return Hazard(BarrierInsufficient, info.Tag, w.Info)
		}
	}
	return NoHazard
}

// DetectAsyncHazard reports a hazard iff an access on another queue at
// startTag or later conflicts with info, regardless of any barrier —
// crossing queues without an explicit semaphore implies no synchronization
// at all.
func (s *State) DetectAsyncHazard(info Info, startTag uint64, queueID QueueID) Result {
	conflicts := func(otherQueue QueueID, otherTag uint64, otherAccess usage.AccessMask) bool {
		if otherQueue == queueID || otherQueue == InvalidQueueID {
			return false
		}
		if otherTag < startTag {
			return false
		}
		return info.Access().IsWrite() || otherAccess.IsWrite()
	}
	for _, w := range s.LastWrites {
		if conflicts(w.Info.QueueID, uint64(w.Info.Tag), w.Info.Access()) {
			return Hazard(AsyncRace, info.Tag, w.Info)
		}
	}
	for _, r := range s.LastReads {
		if conflicts(r.Info.QueueID, uint64(r.Info.Tag), r.Info.Access()) {
			return Hazard(AsyncRace, info.Tag, r.Info)
		}
	}
	return NoHazard
}

// DetectMarkerHazard reports whether this range was written without ever
// having a synchronization marker (a barrier whose destination scope was
// recorded against it) applied. Pragmatic rather than principled — it
// reuses the same write-access bookkeeping as DetectHazard rather than a
// dedicated marker record, mirroring the source's own shortcut here.
func (s *State) DetectMarkerHazard() bool {
	for _, w := range s.LastWrites {
		if w.Barriers == 0 {
			return true
		}
	}
	return false
}
