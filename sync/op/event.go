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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/log"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/event"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// WaitEvents is the recorded form of a WaitEvents call against one or more
// events sharing one barrier set.
type WaitEvents struct {
	Handles []barrier.Handle
	Set barrier.Set
	SrcStageMask usage.StageMask
	Kind event.SyncKind
}

// Validate has nothing to check ahead of Record: WaitEvents' hazards only
// arise from the event's own state machine, which Record discovers and
// diagnoses per-event by logging a diagnostic and ignoring the wait rather
// than returning a HazardResult.
func (op *WaitEvents) Validate(cb *CommandBuffer) access.Result { return access.NoHazard }

// Record consults each event's sync state and, for every
// event whose wait may proceed, imports the event's captured first scope
// into cb and applies op's barrier set, then folds the destination scope
// into the event's accumulated Barriers mask.
func (op *WaitEvents) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	var pending access.PendingBarriers
	var maxDst usage.StageMask
	srcScope := barrier.NewExecScope(op.SrcStageMask, 0)

	for _, h := range op.Handles {
		st := cb.Events.Get(h)
		diag := st.CheckWait(srcScope, op.Kind)
		if diag != event.WaitOK {
			log.W(nil, "WaitEvents against event %d ignored: %s", h, diag)
			continue
		}

		for _, b := range op.Set.Memory {
			cb.Ctx.ImportFrom(st.FirstScope, addr.FullRange)
			cb.Ctx.CollectBarrier(addr.FullRange, b, false, 0, &pending)
			maxDst |= b.Dst.ExpandStage
		}
		for _, bb := range op.Set.BufferBarriers {
			cb.Ctx.ImportFrom(st.FirstScope, bb.Range)
			cb.Ctx.CollectBarrier(bb.Range, bb.Barrier, false, bb.Buffer, &pending)
			maxDst |= bb.Barrier.Dst.ExpandStage
		}
		for _, ib := range op.Set.ImageBarriers {
			ranges := ib.Ranges.Clone()
			for {
				r := ranges.Next()
				if r.Empty() {
					break
				}
				cb.Ctx.ImportFrom(st.FirstScope, r)
				cb.Ctx.CollectBarrier(r, ib.Barrier, ib.LayoutTransition, ib.Image, &pending)
			}
			maxDst |= ib.Barrier.Dst.ExpandStage
		}
		st.ConsumeWait(maxDst, execTag)
	}
	pending.Apply(execTag)
	return execTag
}

// ReplayValidate re-runs the same per-event state checks at submit time; a
// wait ignored at record time for a usage-error reason (SetRace,
// MissingStageBits,...) was already diagnosed then and is not re-reported
// here — replay only adds the cross-batch hazards first-use replay exists
// for ("first-use").
func (op *WaitEvents) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}

// ReplayRecord re-applies op's barrier set to the executing context. The
// event-state bookkeeping itself is a recording-time, command-buffer-local
// concept — the queue-batch replay context has no event table of its own —
// so only the barrier effect is replayed.
func (op *WaitEvents) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {
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
			exec.Ctx.CollectBarrier(r, ib.Barrier, false, ib.Image, &pending)
		}
	}
	pending.Apply(execTag)
}

// SetEvent is the recorded form of a SetEvent call. SrcStageMask is the
// stage mask the event is set with, captured as the event's Scope so a
// later WaitEvents omitting one of these stages is caught as
// MissingStageBits instead of silently treated as fully covered.
type SetEvent struct {
	Handle barrier.Handle
	Kind event.SyncKind
	SrcStageMask usage.StageMask
}

func (op *SetEvent) Validate(cb *CommandBuffer) access.Result { return access.NoHazard }

// Record snapshots cb's current AccessContext via acontext.InitFrom and
// stores it as the event's first scope.
func (op *SetEvent) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	scope := barrier.NewExecScope(op.SrcStageMask, 0)
	cb.Events.Get(op.Handle).Set(cb.Ctx, op.Kind, scope, execTag)
	return execTag
}

func (op *SetEvent) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}

// ReplayRecord has no replay-time effect: the event's first scope is a
// recording-time snapshot already fully captured at Record; replaying a
// queue batch does not re-run the command stream that produced it.
func (op *SetEvent) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {}

// ResetEvent is the recorded form of a ResetEvent call. StageMask is the
// source stage mask the reset itself is scoped to, checked the same way a
// SetEvent's would be against whatever barrier has been seen since the
// event was last touched.
type ResetEvent struct {
	Handle barrier.Handle
	StageMask usage.StageMask
}

// Validate reports nothing via HazardResult: a ResetEvent's own race
// condition (no barrier since the prior Set/Wait) is a usage-error
// diagnostic, not a memory hazard, distinct from the RaW/WaW/WaR taxonomy.
func (op *ResetEvent) Validate(cb *CommandBuffer) access.Result { return access.NoHazard }

// Record clears the event's first scope and barrier mask, logging a
// diagnostic if no barrier separated it from the prior Set/Wait.
func (op *ResetEvent) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	scope := barrier.NewExecScope(op.StageMask, 0)
	if err := cb.Events.Get(op.Handle).Reset(scope, execTag); err != nil {
		log.W(nil, "%s", err)
	}
	return execTag
}

func (op *ResetEvent) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}

func (op *ResetEvent) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {}
