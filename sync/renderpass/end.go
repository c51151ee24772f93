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

package renderpass

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/hazard"
)

// validateFinalTransitions checks the subpass-to-external dependency barrier
// (if any) recorded at Begin against whatever the last subpass using each
// attachment wrote, i.e. the render pass's final layout transition.
func (rp *Context) validateFinalTransitions(subpass int) access.Result {
	ctx := rp.Subpasses[subpass]
	if ctx.ExternalDst == nil {
		return access.NoHazard
	}
	sp := rp.Descr.Subpasses[subpass]
	check := func(ai int) access.Result {
		if ai < 0 {
			return access.NoHazard
		}
		gen := rp.Attachments[ai].Whole.Clone()
		for {
			r := gen.Next()
			if r.Empty() {
				break
			}
			for _, b := range ctx.ExternalDst.Barriers {
				if res := hazard.Barrier(ctx, r, access.InvalidQueueID, b.Src); res.Hazard() {
					return res
				}
			}
		}
		return access.NoHazard
	}
	for _, ai := range sp.ColorAttachments {
		if res := check(ai); res.Hazard() {
			return res
		}
	}
	return check(sp.DepthStencilAttachment)
}

// End validates the last subpass's resolve, store, and final-transition
// operations, records the resolve/store, merges every subpass context's
// effective state into the external context, and applies the final
// transitions there as barrier ops. It returns the first hazard found
// across all three validations.
func (rp *Context) End() access.Result {
	last := rp.current

	result := rp.validateResolves(last)
	if !result.Hazard() {
		if res := rp.validateStores(last); res.Hazard() {
			result = res
		}
	}
	if !result.Hazard() {
		if res := rp.validateFinalTransitions(last); res.Hazard() {
			result = res
		}
	}

	rp.recordResolvesAndStores(last)

	for _, ctx := range rp.Subpasses {
		rp.External.ImportFrom(ctx, addr.FullRange)
	}

	if ctx := rp.Subpasses[last]; ctx.ExternalDst != nil {
		execTag := rp.tags.Next()
		var pending access.PendingBarriers
		for _, b := range ctx.ExternalDst.Barriers {
			rp.External.CollectBarrier(addr.FullRange, b, true, 0, &pending)
		}
		pending.Apply(execTag)
	}

	return result
}
