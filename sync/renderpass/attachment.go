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

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"

// AttachmentViewGen carries the four range generators load/store/resolve
// operations on one attachment need: the color/depth render
// area, restricted to the depth aspect only, restricted to the stencil
// aspect only, and the whole subresource range (used for the layout
// transition that precedes first use). Each is an opaque addr.RangeGen —
// deriving these from an image view's subresource range and the render
// area rectangle is the image-subresource-to-address encoding concern
// explicitly treats as an external collaborator.
type AttachmentViewGen struct {
	RenderArea addr.RangeGen
	DepthOnlyArea addr.RangeGen
	StencilOnlyArea addr.RangeGen
	Whole addr.RangeGen
}

// areaFor returns the range generator load/store should use for a given
// attachment's depth/stencil shape: color and depth-or-combined attachments
// use RenderArea; an attachment validated for its stencil aspect alone uses
// StencilOnlyArea ("depth/stencil uses
// kDepthOnlyRenderArea/kStencilOnlyRenderArea per attachment format").
func (g AttachmentViewGen) areaFor(stencilOnly bool) addr.RangeGen {
	if stencilOnly {
		return g.StencilOnlyArea
	}
	return g.RenderArea
}
