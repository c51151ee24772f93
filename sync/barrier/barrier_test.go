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

package barrier

import (
	"testing"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

func TestExecScopeCovers(t *testing.T) {
	s := NewExecScope(usage.StageTransfer, usage.AccessTransferWrite)
	if !s.Covers(usage.StageTransfer, usage.AccessTransferWrite) {
		t.Fatalf("scope must cover the exact stage/access it was built from")
	}
	if s.Covers(usage.StageVertexShader, usage.AccessTransferWrite) {
		t.Fatalf("scope must not cover an unrelated stage")
	}
}

func TestBarrierChains(t *testing.T) {
	a := New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageVertexShader, usage.AccessShaderRead)
	b := New(usage.StageVertexShader, usage.AccessShaderRead, usage.StageFragmentShader, usage.AccessShaderRead)
	if !a.Chains(b) {
		t.Fatalf("a's destination stage matches b's source stage, expected Chains() true")
	}
	c := New(usage.StageHost, usage.AccessHostWrite, usage.StageFragmentShader, usage.AccessShaderRead)
	if a.Chains(c) {
		t.Fatalf("a's destination does not reach c's source, expected Chains() false")
	}
}

func TestBarrierEmpty(t *testing.T) {
	if !(Barrier{}).Empty() {
		t.Fatalf("zero-value barrier must be Empty")
	}
	nonEmpty := New(usage.StageTransfer, 0, usage.StageVertexShader, 0)
	if nonEmpty.Empty() {
		t.Fatalf("a barrier with nonzero stages must not be Empty")
	}
}

func TestBarrierEqual(t *testing.T) {
	a := New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageVertexShader, usage.AccessShaderRead)
	b := New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageVertexShader, usage.AccessShaderRead)
	if !a.Equal(b) {
		t.Fatalf("two barriers built from identical inputs must be Equal")
	}
	c := New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageFragmentShader, usage.AccessShaderRead)
	if a.Equal(c) {
		t.Fatalf("barriers with different destination scopes must not be Equal")
	}
}

func TestFromSync1BuildsSharedScope(t *testing.T) {
	set := FromSync1(Sync1Input{
		Src: usage.StageTransfer, SrcAccess: usage.AccessTransferWrite,
		Dst: usage.StageFragmentShader, DstAccess: usage.AccessShaderRead,
		Images: []struct {
			Image     Handle
			Ranges    addr.RangeGen
			OldLayout uint32
			NewLayout uint32
		}{
			{Image: 1, Ranges: addr.NewSingleRangeGen(addr.Range{Begin: 0, End: 16}), OldLayout: 1, NewLayout: 2},
			{Image: 2, Ranges: addr.NewSingleRangeGen(addr.Range{Begin: 0, End: 16}), OldLayout: 1, NewLayout: 1},
		},
	})
	if !set.SingleExecScope {
		t.Fatalf("FromSync1 must mark the set SingleExecScope")
	}
	if len(set.Memory) != 1 {
		t.Fatalf("expected exactly one shared memory barrier, got %d", len(set.Memory))
	}
	if !set.ImageBarriers[0].LayoutTransition {
		t.Fatalf("expected image 1's old/new layout mismatch to mark a layout transition")
	}
	if set.ImageBarriers[1].LayoutTransition {
		t.Fatalf("expected image 2's matching old/new layout to not mark a layout transition")
	}
}

func TestFromSync2SynthesizesExecOnlyBarriersOncePerStagePair(t *testing.T) {
	set := FromSync2(Sync2Input{
		Buffers: []Sync2BufferInput{
			{Buffer: 1, SrcStage: usage.StageTransfer, DstStage: usage.StageFragmentShader, SrcAccess: usage.AccessTransferWrite, DstAccess: usage.AccessShaderRead},
			{Buffer: 2, SrcStage: usage.StageTransfer, DstStage: usage.StageFragmentShader, SrcAccess: usage.AccessTransferWrite, DstAccess: usage.AccessShaderRead},
		},
	})
	if len(set.Memory) != 1 {
		t.Fatalf("expected the repeated (src,dst) stage pair to synthesize only one exec-only barrier, got %d", len(set.Memory))
	}
	if len(set.BufferBarriers) != 2 {
		t.Fatalf("expected both buffer barriers preserved, got %d", len(set.BufferBarriers))
	}
}
