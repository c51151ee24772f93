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
	"github.com/pkg/errors"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/log"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
)

// GlobalBarrierCount returns the length of the global-barrier queue, the
// value every AccessState's NextGlobalBarrierIndex converges to once fully
// caught up.
func (c *Context) GlobalBarrierCount() int { return len(c.queue) }

// RegisterGlobalBarrier queues a whole-memory barrier with no associated
// buffer/image range. All global barriers registered against
// one context must share a single queue; a mismatched queueID is a caller
// bug and returns an error rather than silently misattributing the barrier.
//
// An equal-scope barrier already present in the def table is reused: its
// existing table index is re-pushed onto the queue without recomputing its
// chainMask against defs added since it was first installed. This mirrors
// the source's def-table reuse; since ApplyGlobalBarriers does not read
// chainMask, the stale mask has no effect on which defs are applied.
func (c *Context) RegisterGlobalBarrier(b barrier.Barrier, queueID access.QueueID) error {
	if c.haveQID && c.queueQID != queueID {
		return errors.Errorf("acontext: global barrier queue mismatch: have %v, got %v", c.queueQID, queueID)
	}
	c.queueQID = queueID
	c.haveQID = true

	for i := 0; i < c.defCount; i++ {
		if c.defs[i].b.Equal(b) {
			c.queue = append(c.queue, i)
			return nil
		}
	}

	if c.defCount == maxGlobalBarrierDefs {
		c.flush()
	}

	idx := c.defCount
	var mask uint8
	for i := 0; i < c.defCount; i++ {
		// Bit i is set iff the existing def i's destination stages chain
		// into the new def's source stages. The mask is recorded only:
		// ApplyGlobalBarriers does not consult it and retries every
		// still-pending def on each pass.
		if c.defs[i].b.Dst.ExpandStage&b.Src.ExpandStage != 0 {
			mask |= 1 << uint(i)
		}
	}
	c.defs[idx] = globalBarrierDef{b: b, chainMask: mask}
	c.defCount++
	c.queue = append(c.queue, idx)
	return nil
}

// flush applies every currently queued global barrier to every AccessState
// in the map, then resets the def table and queue (and each state's cursor
// into it) so new defs can be installed once the table fills.
func (c *Context) flush() {
	for i := 0; i < c.Map.Len(); i++ {
		_, st := c.Map.At(i)
		c.ApplyGlobalBarriers(st)
		st.NextGlobalBarrierIndex = 0
	}
	c.defCount = 0
	c.queue = nil
	log.D(nil, "acontext: flushed global barrier table")
}

// ApplyGlobalBarriers brings s up to date with every global barrier queued
// since s.NextGlobalBarrierIndex. A def can fail to change s
// on an early pass because s.ApplyBarrier's write coverage test also
// considers barriers already folded into a write's accumulated Barriers
// mask (sync/access/apply.go) — so a def whose source scope only becomes
// reachable once an earlier def's destination scope has landed keeps
// getting retried. Looping at most defCount+1 times over the still-pending
// defs is enough to reach a fixpoint since each pass that changes anything
// strictly grows some write's Barriers mask, and there are at most defCount
// distinct defs to land (defCount <= 8, hence O(defs^2)).
// s.NextGlobalBarrierIndex always advances to the full queue length when
// this returns, satisfying invariant 3 even when no def
// actually applied.
func (c *Context) ApplyGlobalBarriers(s *access.State) {
	start := s.NextGlobalBarrierIndex
	if start < 0 {
		start = 0
	}
	if start >= len(c.queue) {
		s.NextGlobalBarrierIndex = len(c.queue)
		return
	}
	pending := c.queue[start:]

	applied := make([]bool, len(pending))
	for pass := 0; pass <= c.defCount; pass++ {
		changedThisPass := false
		for k, defIdx := range pending {
			if applied[k] {
				continue
			}
			def := c.defs[defIdx]
			if s.ApplyBarrier(def.b, false, 0, 0, s.QueueID) {
				applied[k] = true
				changedThisPass = true
			}
		}
		if !changedThisPass {
			break
		}
	}
	s.NextGlobalBarrierIndex = len(c.queue)
}
