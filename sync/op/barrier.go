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

package op

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/event"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/hazard"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// PipelineBarrier is the recorded form of a PipelineBarrier call.
type PipelineBarrier struct {
	Set barrier.Set
}

// Validate reports the first hazard found: a layout transition whose source
// scope does not cover whatever was recorded before it.
func (op *PipelineBarrier) Validate(cb *CommandBuffer) access.Result {
	for _, ib := range op.Set.ImageBarriers {
		if !ib.LayoutTransition {
			continue
		}
		ranges := ib.Ranges.Clone()
		for {
			r := ranges.Next()
			if r.Empty() {
				break
			}
			if res := hazard.Barrier(cb.Ctx, r, cb.QueueID, ib.Barrier.Src); res.Hazard() {
				return res
			}
		}
	}
	return access.NoHazard
}

// Record applies op to cb and returns the assigned tag. A set with exactly one memory barrier and no buffer/image
// barriers takes the fast path of applying that one barrier over the whole
// address space; otherwise the markup+collect+apply pattern folds every
// memory/buffer/image barrier's effect into PendingBarriers first so the
// barriers within this one call are mutually independent, then applies them
// all at once.
func (op *PipelineBarrier) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()

	if len(op.Set.Memory) == 1 && len(op.Set.BufferBarriers) == 0 && len(op.Set.ImageBarriers) == 0 {
		var pending access.PendingBarriers
		cb.Ctx.CollectBarrier(addr.FullRange, op.Set.Memory[0], false, 0, &pending)
		pending.Apply(execTag)
		op.registerEventScopeChain(cb)
		return execTag
	}

	var pending access.PendingBarriers
	for _, b := range op.Set.Memory {
		cb.Ctx.CollectBarrier(addr.FullRange, b, false, 0, &pending)
	}
	for _, bb := range op.Set.BufferBarriers {
		cb.Ctx.CollectBarrier(bb.Range, bb.Barrier, false, bb.Buffer, &pending)
	}
	for _, ib := range op.Set.ImageBarriers {
		ranges := ib.Ranges.Clone()
		for {
			r := ranges.Next()
			if r.Empty() {
				break
			}
			cb.Ctx.CollectBarrier(r, ib.Barrier, ib.LayoutTransition, ib.Image, &pending)
		}
	}
	pending.Apply(execTag)
	op.registerEventScopeChain(cb)
	return execTag
}

// registerEventScopeChain folds every memory barrier's scope into every
// tracked event's accumulated-barrier bookkeeping.
func (op *PipelineBarrier) registerEventScopeChain(cb *CommandBuffer) {
	for _, b := range op.Set.Memory {
		cb.Events.ForEach(func(es *event.State) {
			es.NoteBarrier(b.Src, b.Dst.ExpandStage)
		})
	}
}

// ReplayValidate re-checks the same layout-transition hazards against the
// executing context.
func (op *PipelineBarrier) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	for _, ib := range op.Set.ImageBarriers {
		if !ib.LayoutTransition {
			continue
		}
		ranges := ib.Ranges.Clone()
		for {
			r := ranges.Next()
			if r.Empty() {
				break
			}
			if res := hazard.Barrier(replay.Ctx, r, replay.QueueID, ib.Barrier.Src); res.Hazard() {
				return res
			}
		}
	}
	return access.NoHazard
}

// ReplayRecord applies op's barriers to the executing context, suppressing
// layout-transition writes: at submit time the transition already happened
// when this command buffer was recorded and must not be replayed
// ("Layout-transition semantics").
func (op *PipelineBarrier) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {
	var pending access.PendingBarriers
	for _, b := range op.Set.Memory {
		exec.Ctx.CollectBarrier(addr.FullRange, b, false, 0, &pending)
	}
	for _, bb := range op.Set.BufferBarriers {
		exec.Ctx.CollectBarrier(bb.Range, bb.Barrier, false, bb.Buffer, &pending)
	}
	for _, ib := range op.Set.ImageBarriers {
		ranges := ib.Ranges.Clone()
		for {
			r := ranges.Next()
			if r.Empty() {
				break
			}
			// layoutTransition=false: submit-time application elides the
			// implicit write.
			exec.Ctx.CollectBarrier(r, ib.Barrier, false, ib.Image, &pending)
		}
	}
	pending.Apply(execTag)
}
