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

package barrier

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// Handle identifies the buffer or image a buffer/image barrier applies to.
// Resolving it to a tracked AccessContext range is an object-lifetime
// concern external to this module; a lookup miss is not an
// error here ("external-object lookups").
type Handle uint64

// BufferBarrier is one (buffer, scope, range) entry of a barrier set.
type BufferBarrier struct {
	Buffer Handle
	Barrier Barrier
	Range addr.Range // already shifted to the buffer's own offset space
}

// ImageBarrier is one (image, scope, subresource range, layout-transition)
// entry of a barrier set. Index is this entry's position in the
// originating API call, used to report which barrier a hazard came from.
type ImageBarrier struct {
	Image Handle
	Barrier Barrier
	Ranges addr.RangeGen
	LayoutTransition bool
	Index int
}

// Set is the canonical, API-version-independent representation of a
// PipelineBarrier/WaitEvents call's barriers.
type Set struct {
	Memory []Barrier
	BufferBarriers []BufferBarrier
	ImageBarriers []ImageBarrier

	// SingleExecScope is true for Sync1-style barriers where every memory
	// barrier in the set shares one (src, dst) stage pair. PipelineBarrier
	// does not read it: its fast-path choice depends only on the set holding
	// exactly one memory barrier and no buffer/image barriers.
	SingleExecScope bool
}

// Sync1Input is the raw shape of a single-scope (pre-synchronization2)
// barrier call: one (src, dst) stage/access pair shared by every buffer
// and image barrier in the call.
type Sync1Input struct {
	Src, Dst usage.StageMask
	SrcAccess, DstAccess usage.AccessMask
	Buffers []struct {
		Buffer Handle
		Range addr.Range
	}
	Images []struct {
		Image Handle
		Ranges addr.RangeGen
		OldLayout uint32
		NewLayout uint32
	}
}

// FromSync1 builds a Set from single-scope barrier inputs.
func FromSync1(in Sync1Input) Set {
	scope := New(in.Src, in.SrcAccess, in.Dst, in.DstAccess)
	s := Set{
		Memory: []Barrier{scope},
		SingleExecScope: true,
	}
	for _, b := range in.Buffers {
		s.BufferBarriers = append(s.BufferBarriers, BufferBarrier{Buffer: b.Buffer, Barrier: scope, Range: b.Range})
	}
	for i, im := range in.Images {
		s.ImageBarriers = append(s.ImageBarriers, ImageBarrier{
				Image: im.Image,
				Barrier: scope,
				Ranges: im.Ranges,
				LayoutTransition: im.OldLayout != im.NewLayout,
				Index: i,
			})
	}
	return s
}

// Sync2BufferInput is one per-barrier-scoped buffer entry of a
// synchronization2-shaped barrier call.
type Sync2BufferInput struct {
	Buffer Handle
	Range addr.Range
	SrcStage, DstStage usage.StageMask
	SrcAccess, DstAccess usage.AccessMask
}

// Sync2ImageInput is the image-barrier analogue of Sync2BufferInput.
type Sync2ImageInput struct {
	Image Handle
	Ranges addr.RangeGen
	SrcStage, DstStage usage.StageMask
	SrcAccess, DstAccess usage.AccessMask
	OldLayout, NewLayout uint32
}

// Sync2Input is the raw shape of a per-barrier-scoped (synchronization2)
// barrier call: each memory/buffer/image barrier carries its own scope.
type Sync2Input struct {
	Memory []Barrier
	Buffers []Sync2BufferInput
	Images []Sync2ImageInput
}

type stagePair struct{ src, dst usage.StageMask }

// FromSync2 builds a Set from per-barrier-scoped inputs. In addition to
// the explicit memory barriers, it collects the unique (src, dst) stage
// pairs used by buffer/image barriers and synthesizes execution-only
// SyncBarriers for them, so execution dependencies apply to memory the
// barrier would not otherwise scope.
func FromSync2(in Sync2Input) Set {
	s := Set{Memory: append([]Barrier(nil), in.Memory...)}

	seen := map[stagePair]bool{}
	addExecOnly := func(src, dst usage.StageMask) {
		p := stagePair{src, dst}
		if seen[p] {
			return
		}
		seen[p] = true
		s.Memory = append(s.Memory, New(src, 0, dst, 0))
	}

	for _, b := range in.Buffers {
		scope := New(b.SrcStage, b.SrcAccess, b.DstStage, b.DstAccess)
		s.BufferBarriers = append(s.BufferBarriers, BufferBarrier{Buffer: b.Buffer, Barrier: scope, Range: b.Range})
		addExecOnly(b.SrcStage, b.DstStage)
	}
	for i, im := range in.Images {
		scope := New(im.SrcStage, im.SrcAccess, im.DstStage, im.DstAccess)
		s.ImageBarriers = append(s.ImageBarriers, ImageBarrier{
				Image: im.Image,
				Barrier: scope,
				Ranges: im.Ranges,
				LayoutTransition: im.OldLayout != im.NewLayout,
				Index: i,
			})
		addExecOnly(im.SrcStage, im.DstStage)
	}
	return s
}
