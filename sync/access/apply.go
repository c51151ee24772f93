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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// ApplyBarrier folds scope into s: every recorded write/read whose stage is
// within scope.Src is marked as synchronized against scope.Dst. If
// layoutTransition is set and queueID == InvalidQueueID (i.e. this barrier
// is being applied while still recording, not at submit time), an implicit
// write access is installed for the transition. Submit-time application
// elides that write — the transition already happened at record time and
// is not replayed.
//
// Returns whether the barrier changed any state, used by
// AccessContext.ApplyGlobalBarriers to drive its chain-mask fixpoint.
func (s *State) ApplyBarrier(scope barrier.Barrier, layoutTransition bool, handle Handle, execTag tag.Tag, queueID QueueID) bool {
	changed := false
	for _, w := range s.LastWrites {
		// A write is reachable by this barrier either directly (its own
		// stage/access is within scope.Src) or transitively, once an
		// earlier-applied barrier's destination scope already landed on it
		// (w.Barriers/w.AccessBarriers) and that landing intersects this
		// barrier's source scope.
		reachable := scope.Src.Covers(w.Info.Stage(), w.Info.Access()) ||
			(scope.Src.ExpandStage&w.Barriers != 0 && scope.Src.Access&w.AccessBarriers != 0)
		if !reachable {
			continue
		}
		if w.Barriers&scope.Dst.ExpandStage != scope.Dst.ExpandStage || w.AccessBarriers&scope.Dst.Access != scope.Dst.Access {
			w.Barriers |= scope.Dst.ExpandStage
			w.AccessBarriers |= scope.Dst.Access
			changed = true
		}
	}
	for _, r := range s.LastReads {
		reachable := scope.Src.ExpandStage&r.Stage != 0 || scope.Src.ExpandStage&r.Barriers != 0
		if !reachable {
			continue
		}
		if r.Barriers&scope.Dst.ExpandStage != scope.Dst.ExpandStage {
			r.Barriers |= scope.Dst.ExpandStage
			changed = true
		}
	}
	if layoutTransition && queueID == InvalidQueueID {
		s.LastWrites[usage.IndexLayoutTransition] = &WriteRecord{
			Info: Info{Index: usage.IndexLayoutTransition, Tag: execTag, QueueID: queueID},
			Barriers: scope.Dst.ExpandStage,
			AccessBarriers: scope.Dst.Access,
		}
		s.LastReads = nil
		s.PendingLayoutTransition = true
		changed = true
	}
	return changed
}

// pendingBarrier is one collected-but-not-yet-applied barrier effect.
type pendingBarrier struct {
	state *State
	scope barrier.Barrier
	layoutTransition bool
	handle Handle
	queueID QueueID
}

// PendingBarriers accumulates the effect of every barrier in one
// PipelineBarrier/WaitEvents call before applying any of them, so the
// barriers within a single call are mutually independent: none of them
// sees any of the others already applied.
type PendingBarriers struct {
	items []pendingBarrier
}

// Collect records scope's effect on state without mutating it yet.
func (p *PendingBarriers) Collect(state *State, scope barrier.Barrier, layoutTransition bool, handle Handle, queueID QueueID) {
	p.items = append(p.items, pendingBarrier{state, scope, layoutTransition, handle, queueID})
}

// Apply folds every collected barrier into its target state, stamping
// execTag on any layout transition installed in the process.
func (p *PendingBarriers) Apply(execTag tag.Tag) {
	for _, it := range p.items {
		it.state.ApplyBarrier(it.scope, it.layoutTransition, it.handle, execTag, it.queueID)
	}
	p.items = nil
}
