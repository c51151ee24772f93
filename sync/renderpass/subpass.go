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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/acontext"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/hazard"
)

// walkValidate runs hazard.Plain over every range gen produces and returns
// the first hazard found, or access.NoHazard if none.
func (rp *Context) walkValidate(ctx *acontext.Context, gen addr.RangeGen, info access.Info) access.Result {
	g := gen.Clone()
	for {
		r := g.Next()
		if r.Empty() {
			break
		}
		if res := hazard.Plain(ctx, r, info); res.Hazard() {
			return res
		}
	}
	return access.NoHazard
}

// validateResolves checks, for the subpass about to end, that each color
// (and optional depth-stencil) resolve's read on the source attachment and
// write on the destination attachment do not hazard.
func (rp *Context) validateResolves(subpass int) access.Result {
	ctx := rp.Subpasses[subpass]
	sp := rp.Descr.Subpasses[subpass]
	for i, dst := range sp.ResolveAttachments {
		if dst < 0 {
			continue
		}
		src := sp.ColorAttachments[i]
		if res := rp.walkValidate(ctx, rp.Attachments[src].RenderArea, access.Info{Index: access.IndexColorAttachmentOutputRead, Flags: access.FlagResolveOp}); res.Hazard() {
			return res
		}
		if res := rp.walkValidate(ctx, rp.Attachments[dst].RenderArea, access.Info{Index: access.IndexColorAttachmentOutputWrite, Flags: access.FlagResolveOp}); res.Hazard() {
			return res
		}
	}
	if dst := sp.DepthStencilResolve; dst >= 0 && sp.DepthStencilAttachment >= 0 {
		src := sp.DepthStencilAttachment
		if res := rp.walkValidate(ctx, rp.Attachments[src].RenderArea, access.Info{Index: access.IndexLateFragmentTestsRead, Flags: access.FlagResolveOp}); res.Hazard() {
			return res
		}
		if res := rp.walkValidate(ctx, rp.Attachments[dst].RenderArea, access.Info{Index: access.IndexLateFragmentTestsWrite, Flags: access.FlagResolveOp}); res.Hazard() {
			return res
		}
	}
	return access.NoHazard
}

// validateStores checks that each attachment's store op does not hazard
// against whatever the subpass itself wrote. The check runs under the
// color-attachment (or depth-stencil-attachment) ordering rule, so the
// subpass's own attachment accesses are implicitly ordered before the store.
func (rp *Context) validateStores(subpass int) access.Result {
	ctx := rp.Subpasses[subpass]
	sp := rp.Descr.Subpasses[subpass]
	checkOne := func(ai int, depthStencil bool) access.Result {
		if ai < 0 {
			return access.NoHazard
		}
		idx, ok := storeAccessInfo(rp.Descr.Attachments[ai].StoreOp, depthStencil)
		if !ok {
			return access.NoHazard
		}
		ordering := access.OrderingColorAttachment
		if depthStencil {
			ordering = access.OrderingDepthStencilAttachment
		}
		g := rp.Attachments[ai].RenderArea.Clone()
		for r := g.Next(); !r.Empty(); r = g.Next() {
			if res := hazard.Ordered(ctx, r, access.Info{Index: idx, Flags: access.FlagStoreOp}, ordering); res.Hazard() {
				return res
			}
		}
		return access.NoHazard
	}
	for _, ai := range sp.ColorAttachments {
		if res := checkOne(ai, false); res.Hazard() {
			return res
		}
	}
	if res := checkOne(sp.DepthStencilAttachment, true); res.Hazard() {
		return res
	}
	return access.NoHazard
}

// ValidateResolvesAndStores runs the current subpass's resolve and store
// checks without recording anything, for callers (the NextSubpass/
// EndRenderPass SyncOps) that want to validate ahead of a separate Record
// call.
func (rp *Context) ValidateResolvesAndStores() access.Result {
	if result := rp.validateResolves(rp.current); result.Hazard() {
		return result
	}
	return rp.validateStores(rp.current)
}

// recordResolvesAndStores performs the writes validateResolves/
// validateStores only checked.
func (rp *Context) recordResolvesAndStores(subpass int) {
	ctx := rp.Subpasses[subpass]
	sp := rp.Descr.Subpasses[subpass]

	resolveAt := rp.tags.Next()
	for i, dst := range sp.ResolveAttachments {
		if dst < 0 {
			continue
		}
		src := sp.ColorAttachments[i]
		rp.walkRecord(ctx, rp.Attachments[src].RenderArea, access.Info{Index: access.IndexColorAttachmentOutputRead, Tag: resolveAt, Flags: access.FlagResolveOp})
		rp.walkRecord(ctx, rp.Attachments[dst].RenderArea, access.Info{Index: access.IndexColorAttachmentOutputWrite, Tag: resolveAt, Flags: access.FlagResolveOp})
	}
	if dst := sp.DepthStencilResolve; dst >= 0 && sp.DepthStencilAttachment >= 0 {
		src := sp.DepthStencilAttachment
		rp.walkRecord(ctx, rp.Attachments[src].RenderArea, access.Info{Index: access.IndexLateFragmentTestsRead, Tag: resolveAt, Flags: access.FlagResolveOp})
		rp.walkRecord(ctx, rp.Attachments[dst].RenderArea, access.Info{Index: access.IndexLateFragmentTestsWrite, Tag: resolveAt, Flags: access.FlagResolveOp})
	}

	storeAt := rp.tags.Next()
	recordOne := func(ai int, depthStencil bool) {
		if ai < 0 {
			return
		}
		if idx, ok := storeAccessInfo(rp.Descr.Attachments[ai].StoreOp, depthStencil); ok {
			rp.walkRecord(ctx, rp.Attachments[ai].RenderArea, access.Info{Index: idx, Tag: storeAt, Flags: access.FlagStoreOp})
		}
	}
	for _, ai := range sp.ColorAttachments {
		recordOne(ai, false)
	}
	recordOne(sp.DepthStencilAttachment, true)
}

// NextSubpass validates the outgoing subpass's resolve and store operations,
// records them, then records the incoming subpass's layout transitions and
// loads. The incoming layout transitions are recorded without a hazard
// check of their own. It returns the first hazard found; recording proceeds
// regardless, matching the source's validate-then-record split where
// validation never blocks recording.
func (rp *Context) NextSubpass() access.Result {
	prev := rp.current
	result := rp.validateResolves(prev)
	if !result.Hazard() {
		if res := rp.validateStores(prev); res.Hazard() {
			result = res
		}
	}
	rp.recordResolvesAndStores(prev)

	rp.current++
	rp.recordLayoutTransitions(rp.current)
	rp.recordLoads(rp.current)
	return result
}
