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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// Context is RenderPassAccessContext (C7): one AccessContext per subpass,
// linked to its predecessors and async peers via trackbacks derived from
// the renderpass's subpass dependencies.
type Context struct {
	Descr Description
	Subpasses []*acontext.Context
	Attachments []AttachmentViewGen
	External *acontext.Context

	tags *tag.Allocator
	current int
	loaded []bool // per attachment: has its load op already been recorded
}

// Begin creates the per-subpass AccessContext graph, wires every subpass
// dependency as a TrackBack (or an AsyncRef, for a dependency explicitly
// marked concurrent), and records subpass 0's layout transitions followed
// by its load operations.
func Begin(external *acontext.Context, descr Description, attachments []AttachmentViewGen, tags *tag.Allocator) *Context {
	rp := &Context{
		Descr: descr,
		Attachments: attachments,
		External: external,
		tags: tags,
		loaded: make([]bool, len(descr.Attachments)),
	}
	for range descr.Subpasses {
		rp.Subpasses = append(rp.Subpasses, acontext.New(tags.Peek()))
	}

	for _, dep := range descr.Dependencies {
		switch {
		case dep.SrcSubpass == ExternalSubpass:
			if dep.Async {
				rp.Subpasses[dep.DstSubpass].AddAsync(acontext.AsyncRef{Context: external, StartTag: tags.Peek(), QueueID: access.InvalidQueueID})
				continue
			}
			rp.Subpasses[dep.DstSubpass].ExternalSrc = &acontext.TrackBack{Context: external, Barriers: []barrier.Barrier{dep.Barrier}}
		case dep.DstSubpass == ExternalSubpass:
			rp.Subpasses[dep.SrcSubpass].ExternalDst = &acontext.TrackBack{Context: external, Barriers: []barrier.Barrier{dep.Barrier}}
		default:
			if dep.Async {
				rp.Subpasses[dep.DstSubpass].AddAsync(acontext.AsyncRef{
					Context: rp.Subpasses[dep.SrcSubpass],
					StartTag: rp.Subpasses[dep.SrcSubpass].StartTag,
					QueueID: access.InvalidQueueID,
				})
				continue
			}
			idx := rp.Subpasses[dep.DstSubpass].AddPrev(rp.Subpasses[dep.SrcSubpass], []barrier.Barrier{dep.Barrier})
			rp.Subpasses[dep.DstSubpass].SetPrevForSubpass(dep.SrcSubpass, idx)
		}
	}

	rp.current = 0
	rp.recordLayoutTransitions(0)
	rp.recordLoads(0)
	return rp
}

// Current returns the AccessContext of the subpass currently being
// recorded.
func (rp *Context) Current() *acontext.Context { return rp.Subpasses[rp.current] }

// loadAccessInfo maps an attachment's load op to the usage index the load
// installs, or false if the load op performs no access.
func loadAccessInfo(op LoadOp) (access.Index, bool) {
	switch op {
	case LoadOpLoad:
		return access.IndexColorAttachmentOutputRead, true
	case LoadOpClear, LoadOpDontCare:
		return access.IndexColorAttachmentOutputWrite, true
	}
	return 0, false // LoadOpNone
}

// storeAccessInfo is the store-op analogue of loadAccessInfo: StoreOpNone
// performs no access, otherwise a depth/stencil store writes late fragment
// tests and a color store writes color attachment output.
func storeAccessInfo(op StoreOp, depthStencil bool) (access.Index, bool) {
	if op == StoreOpNone {
		return 0, false
	}
	if depthStencil {
		return access.IndexLateFragmentTestsWrite, true
	}
	return access.IndexColorAttachmentOutputWrite, true
}

func (rp *Context) recordLayoutTransitions(subpass int) {
	sp := rp.Descr.Subpasses[subpass]
	ctx := rp.Subpasses[subpass]
	at := rp.tags.Next()
	visit := func(ai int) {
		if ai < 0 || rp.loaded[ai] {
			return
		}
		gen := rp.Attachments[ai].Whole.Clone()
		for {
			r := gen.Next()
			if r.Empty() {
				break
			}
			ctx.DoUpdateAccessState(r, access.Info{Index: access.IndexLayoutTransition, Tag: at, QueueID: access.InvalidQueueID})
		}
	}
	for _, ai := range sp.ColorAttachments {
		visit(ai)
	}
	visit(sp.DepthStencilAttachment)
}

func (rp *Context) recordLoads(subpass int) {
	sp := rp.Descr.Subpasses[subpass]
	ctx := rp.Subpasses[subpass]
	at := rp.tags.Next()

	for _, ai := range sp.ColorAttachments {
		if ai < 0 || rp.loaded[ai] {
			continue
		}
		rp.loaded[ai] = true
		idx, ok := loadAccessInfo(rp.Descr.Attachments[ai].LoadOp)
		if !ok {
			continue
		}
		rp.walkRecord(ctx, rp.Attachments[ai].RenderArea, access.Info{Index: idx, Tag: at, Flags: access.FlagLoadOp, QueueID: access.InvalidQueueID})
	}

	if ai := sp.DepthStencilAttachment; ai >= 0 && !rp.loaded[ai] {
		rp.loaded[ai] = true
		att := rp.Descr.Attachments[ai]
		if att.HasDepth {
			if idx, ok := loadAccessInfo(att.LoadOp); ok {
				rp.walkRecord(ctx, rp.Attachments[ai].RenderArea, access.Info{Index: idx, Tag: at, Flags: access.FlagLoadOp, QueueID: access.InvalidQueueID})
			}
		}
		if att.HasStencil {
			if idx, ok := loadAccessInfo(att.StencilLoad); ok {
				rp.walkRecord(ctx, rp.Attachments[ai].StencilOnlyArea, access.Info{Index: idx, Tag: at, Flags: access.FlagLoadOp, QueueID: access.InvalidQueueID})
			}
		}
	}
}

func (rp *Context) walkRecord(ctx *acontext.Context, gen addr.RangeGen, info access.Info) {
	g := gen.Clone()
	for {
		r := g.Next()
		if r.Empty() {
			break
		}
		ctx.DoUpdateAccessState(r, info)
	}
}
