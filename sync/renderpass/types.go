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

// Package renderpass implements RenderPassAccessContext (C7): the
// per-subpass AccessContext graph a BeginRenderPass/NextSubpass/EndRenderPass
// sequence drives, plus the load/store/resolve/layout-transition bookkeeping
// each subpass boundary performs on its attachments. Grounded on
// original_source/layers/sync/sync_renderpass.h's RenderPassAccessContext
// and AttachmentViewGen.
package renderpass

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"

// LoadOp is the attachment load operation at the start of the subpass that
// first uses an attachment.
type LoadOp int

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
	LoadOpNone
)

// StoreOp is the attachment store operation at the end of the subpass that
// last uses an attachment.
type StoreOp int

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
	StoreOpNone
)

// ExternalSubpass is the sentinel subpass index denoting a dependency
// to/from outside the render pass.
const ExternalSubpass = -1

// AttachmentDescription is one renderpass attachment's load/store ops and
// whether it carries a depth/stencil aspect.
type AttachmentDescription struct {
	HasDepth bool
	HasStencil bool
	LoadOp LoadOp
	StoreOp StoreOp
	StencilLoad LoadOp
	StencilStore StoreOp
}

// SubpassDescription names the attachments a subpass uses.
type SubpassDescription struct {
	ColorAttachments []int
	ResolveAttachments []int // parallel to ColorAttachments; -1 for "no resolve"
	DepthStencilAttachment int // -1 if none
	DepthStencilResolve int // -1 if none
}

// SubpassDependency is one edge of the renderpass DAG. SrcSubpass/DstSubpass
// may be ExternalSubpass.
type SubpassDependency struct {
	SrcSubpass int
	DstSubpass int
	Barrier barrier.Barrier
	// Async, if true, means this dependency carries no real ordering (the
	// API allows declaring a dependency with VK_DEPENDENCY_BY_REGION_BIT
	// style or none at all between subpasses that otherwise run
	// concurrently); modeled as an AsyncRef edge rather than a TrackBack.
	Async bool
}

// Description is the renderpass-level description consumed at
// BeginRenderPass.
type Description struct {
	Subpasses []SubpassDescription
	Dependencies []SubpassDependency
	Attachments []AttachmentDescription
}
