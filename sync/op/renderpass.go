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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/renderpass"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// BeginRenderPass is the recorded form of a BeginRenderPass call. Validate
// has nothing of its own to check: render-pass hazards only arise once a
// subpass records against its attachments.
type BeginRenderPass struct {
	Descr renderpass.Description
	Attachments []renderpass.AttachmentViewGen
}

func (op *BeginRenderPass) Validate(cb *CommandBuffer) access.Result { return access.NoHazard }

// Record creates the per-subpass AccessContext graph (renderpass.Begin),
// installs it as cb's active render pass, and returns the assigned tag. Any
// hazard subpass 0's implicit layout transitions and loads produce is
// surfaced by the Plain/Ordered detectors the caller runs against
// cb.RenderPass.Current before recording draws, exactly as a non-renderpass
// subpass's first access would be.
func (op *BeginRenderPass) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	cb.RenderPass = renderpass.Begin(cb.Ctx, op.Descr, op.Attachments, &cb.Tags)
	return execTag
}

// ReplayValidate/ReplayRecord are no-ops: a render pass's internal subpass
// graph is a recording-time structure never threaded into replay — by the
// time a command buffer is submitted, EndRenderPass has already resolved
// every subpass's effective state into the external context that first-use
// replay actually walks.
func (op *BeginRenderPass) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}
func (op *BeginRenderPass) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {}

// NextSubpass is the recorded form of a NextSubpass call.
type NextSubpass struct{}

// Validate runs the outgoing subpass's resolve/store checks
// without mutating cb.RenderPass, so a hazard can be reported before Record
// commits to advancing the subpass index. renderpass.Context.NextSubpass
// validates and records together, so Validate here is a dry-run duplicate
// of the same checks; Record is what actually advances the subpass.
func (op *NextSubpass) Validate(cb *CommandBuffer) access.Result {
	rp := cb.RenderPass
	if result := rp.ValidateResolvesAndStores(); result.Hazard() {
		return result
	}
	return access.NoHazard
}

// Record advances cb.RenderPass to the next subpass, validating and
// recording the outgoing subpass's resolve/store operations and recording
// (without validating) the incoming subpass's layout transitions and loads.
func (op *NextSubpass) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	cb.RenderPass.NextSubpass()
	return execTag
}

func (op *NextSubpass) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}
func (op *NextSubpass) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {}

// EndRenderPass is the recorded form of an EndRenderPass call.
type EndRenderPass struct{}

func (op *EndRenderPass) Validate(cb *CommandBuffer) access.Result {
	rp := cb.RenderPass
	if result := rp.ValidateResolvesAndStores(); result.Hazard() {
		return result
	}
	return access.NoHazard
}

// Record validates and records the final subpass's resolve/store/transition
// operations, merges every subpass context into the render pass's external
// context (cb.Ctx, unchanged), and clears cb.RenderPass.
func (op *EndRenderPass) Record(cb *CommandBuffer) tag.Tag {
	execTag := cb.Tags.Next()
	cb.RenderPass.End()
	cb.RenderPass = nil
	return execTag
}

func (op *EndRenderPass) ReplayValidate(replay *ReplayContext, recordedTag tag.Tag) access.Result {
	return access.NoHazard
}
func (op *EndRenderPass) ReplayRecord(exec *ReplayContext, execTag tag.Tag) {}
