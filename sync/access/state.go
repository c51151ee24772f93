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

// Package access implements AccessState (C2): the per-range record of
// writes, reads, pending barriers and first-use trace that an AccessMap
// (core/addr.RangeMap) stores at every tracked range, and the hazard
// classification these records feed. Grounded on
// original_source/layers/sync/sync_access_state.h's ResourceAccessState,
// re-expressed without inheritance: one flat struct with explicit maps and
// slices instead of bitset-indexed fixed arrays.
package access

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// Re-exported so callers of this package don't also need to import
// sync/usage for the common vocabulary.
type (
	Index    = usage.Index
	Info     = usage.Info
	Ordering = usage.Ordering
	Flags    = usage.Flags
	QueueID  = usage.QueueID
	Handle   = barrier.Handle
)

const (
	OrderingNone                   = usage.OrderingNone
	OrderingColorAttachment        = usage.OrderingColorAttachment
	OrderingDepthStencilAttachment = usage.OrderingDepthStencilAttachment
	OrderingRaster                 = usage.OrderingRaster

	IndexColorAttachmentOutputRead  = usage.IndexColorAttachmentOutputRead
	IndexColorAttachmentOutputWrite = usage.IndexColorAttachmentOutputWrite
	IndexLateFragmentTestsRead      = usage.IndexLateFragmentTestsRead
	IndexLateFragmentTestsWrite     = usage.IndexLateFragmentTestsWrite
	IndexLayoutTransition           = usage.IndexLayoutTransition

	FlagNone      = usage.FlagNone
	FlagLoadOp    = usage.FlagLoadOp
	FlagStoreOp   = usage.FlagStoreOp
	FlagResolveOp = usage.FlagResolveOp

	InvalidQueueID = usage.InvalidQueueID
)

// WriteRecord is one entry of State.LastWrites: the most recent write of a
// given usage index, and the destination stage/access scopes that have
// already been synchronized against it by applied barriers.
type WriteRecord struct {
	Info           Info
	Barriers       usage.StageMask
	AccessBarriers usage.AccessMask
}

// covers reports whether a prior write is already synchronized against the
// given stage+access, i.e. some applied barrier's destination scope
// included it.
func (w *WriteRecord) covers(stage usage.StageMask, acc usage.AccessMask) bool {
	return w.Barriers&stage != 0 && w.AccessBarriers&acc != 0
}

// ReadRecord is one entry of State.LastReads: a read at a given stage, and
// the destination stages already synchronized against it.
type ReadRecord struct {
	Stage    usage.StageMask
	Info     Info
	Barriers usage.StageMask
}

func (r *ReadRecord) covers(stage usage.StageMask) bool { return r.Barriers&stage != 0 }

// State is the per-range access record. The zero value is a valid, empty
// State (no accesses recorded).
type State struct {
	LastWrites map[Index]*WriteRecord
	LastReads  []*ReadRecord

	// PendingLayoutTransition holds a layout-transition write installed by
	// a barrier whose destination scope is not yet fulfilled. This
	// simplified model treats it as already folded into LastWrites under
	// usage.IndexLayoutTransition by ApplyBarrier; the field is carried
	// along by Clone but no method of State reads it.
	PendingLayoutTransition bool

	FirstAccessRange      tag.Range
	firstAccessRangeValid bool

	// NextGlobalBarrierIndex is this state's cursor into the owning
	// context's global-barrier queue.
	NextGlobalBarrierIndex int

	// QueueID is the queue identity of the context this state currently
	// belongs to, stamped by SetQueueID when a recorded context is
	// assigned to a real queue at submission.
	QueueID QueueID
}

// NewState returns an empty access state.
func NewState() *State { return &State{LastWrites: map[Index]*WriteRecord{}} }

// Clone returns a deep copy of s, satisfying core/addr's cloner interface
// so RangeMap.Split and RangeMap.Clone never let two map entries alias the
// same State.
func (s *State) Clone() *State {
	out := &State{
		LastWrites:              make(map[Index]*WriteRecord, len(s.LastWrites)),
		LastReads:                make([]*ReadRecord, len(s.LastReads)),
		PendingLayoutTransition:  s.PendingLayoutTransition,
		FirstAccessRange:        s.FirstAccessRange,
		firstAccessRangeValid:    s.firstAccessRangeValid,
		NextGlobalBarrierIndex:   s.NextGlobalBarrierIndex,
		QueueID:                  s.QueueID,
	}
	for k, w := range s.LastWrites {
		cp := *w
		out.LastWrites[k] = &cp
	}
	for i, r := range s.LastReads {
		cp := *r
		out.LastReads[i] = &cp
	}
	return out
}

// IsEmpty reports whether the state has no recorded accesses and a
// global-barrier cursor of zero, i.e. it carries no information and need
// not occupy an AccessMap entry.
func (s *State) IsEmpty() bool {
	return len(s.LastWrites) == 0 && len(s.LastReads) == 0 && s.NextGlobalBarrierIndex == 0
}

// ClampGlobalBarrierIndex clamps NextGlobalBarrierIndex to max, applied
// whenever a state is cloned across an AccessContext boundary so that
// barriers queued in one context never apply in another.
func (s *State) ClampGlobalBarrierIndex(max int) {
	if s.NextGlobalBarrierIndex > max {
		s.NextGlobalBarrierIndex = max
	}
}

// SetQueueID stamps id on this state and on every access recorded with
// InvalidQueueID (i.e. recorded before the owning command buffer was known
// to be submitted to a specific queue).
func (s *State) SetQueueID(id QueueID) {
	s.QueueID = id
	for _, w := range s.LastWrites {
		if w.Info.QueueID == InvalidQueueID {
			w.Info.QueueID = id
		}
	}
	for _, r := range s.LastReads {
		if r.Info.QueueID == InvalidQueueID {
			r.Info.QueueID = id
		}
	}
}

// OffsetTag shifts every tag recorded in this state by delta, as replay
// does when splicing a recorded command buffer's tags into a queue
// batch's tag space.
func (s *State) OffsetTag(delta tag.Tag) {
	for _, w := range s.LastWrites {
		w.Info.Tag += delta
	}
	for _, r := range s.LastReads {
		r.Info.Tag += delta
	}
	if s.firstAccessRangeValid {
		s.FirstAccessRange.Begin += delta
		s.FirstAccessRange.End += delta
	}
}

// GatherReferencedTags adds every tag referenced by this state into set.
func (s *State) GatherReferencedTags(set map[tag.Tag]bool) {
	for _, w := range s.LastWrites {
		set[w.Info.Tag] = true
	}
	for _, r := range s.LastReads {
		set[r.Info.Tag] = true
	}
}

// HasFirstAccess reports whether any access has been recorded against this
// state, i.e. FirstAccessRange is meaningful.
func (s *State) HasFirstAccess() bool { return s.firstAccessRangeValid }

// FirstAccessInTagRange reports whether this state's first-access tag
// range intersects r; used by the first-use hazard pass.
func (s *State) FirstAccessInTagRange(r tag.Range) bool {
	return s.firstAccessRangeValid && s.FirstAccessRange.Intersects(r)
}

func (s *State) recordFirstAccess(t tag.Tag) {
	if !s.firstAccessRangeValid {
		s.FirstAccessRange = tag.Single(t)
		s.firstAccessRangeValid = true
		return
	}
	s.FirstAccessRange = s.FirstAccessRange.Union(tag.Single(t))
}
