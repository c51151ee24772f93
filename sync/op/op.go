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

// Package op implements SyncOps: the recorded-command model each
// validated API call becomes, exposing the four-entry-point shape
// (validate / record / replay_validate / replay_record). Grounded on
// original_source/layers/sync/sync_op.h's SyncOpBase hierarchy, re-expressed
// as a Go interface over *CommandBuffer/*ReplayContext instead of a virtual
// base class — each concrete op (PipelineBarrier, WaitEvents, SetEvent,
// ResetEvent, BeginRenderPass/NextSubpass/EndRenderPass) is a plain struct
// satisfying SyncOp.
package op

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/acontext"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/event"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/renderpass"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// CommandBuffer is the recording-time context a SyncOp validates and
// records against: one AccessContext, one TagAllocator (threaded through
// explicitly rather than a package-level counter), the event states this
// recording has touched so far, and the render pass currently active, if
// any.
type CommandBuffer struct {
	Ctx        *acontext.Context
	Tags       tag.Allocator
	Events     *event.Context
	QueueID    access.QueueID
	RenderPass *renderpass.Context
}

// NewCommandBuffer returns a fresh recording context starting at tag 0.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		Ctx:     acontext.New(0),
		Events:  event.NewContext(),
		QueueID: access.InvalidQueueID,
	}
}

// ReplayContext is the queue-batch-time context a recorded SyncOp replays
// against: the executing AccessContext, the tag offset this command
// buffer's recorded tags are shifted by when spliced into the batch's tag
// space, and the queue it is executing on.
type ReplayContext struct {
	Ctx       *acontext.Context
	TagOffset tag.Tag
	QueueID   access.QueueID
}

// SyncOp is one recorded command's validation/recording/replay behavior.
type SyncOp interface {
	// Validate checks the op against cb's current state, returning the
	// first hazard found (the zero Result if none).
	Validate(cb *CommandBuffer) access.Result
	// Record applies the op's effect to cb and returns the tag it was
	// assigned.
	Record(cb *CommandBuffer) tag.Tag
	// ReplayValidate re-checks the op at submit time, now that its
	// recorded tag is known to be recordedTag within the executing batch.
	ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result
	// ReplayRecord applies the op's effect to the executing context at
	// execTag.
	ReplayRecord(exec *ReplayContext, execTag tag.Tag)
}
