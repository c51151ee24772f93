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

package acontext

import (
	"testing"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

func tagRange(begin, end uint64) tag.Range {
	return tag.Range{Begin: tag.Tag(begin), End: tag.Tag(end)}
}

func TestDoUpdateAccessStateRecordsLocally(t *testing.T) {
	c := New(0)
	r := addr.Range{Begin: 0, End: 16}
	c.DoUpdateAccessState(r, access.Info{Index: usage.IndexTransferWrite, Tag: 1})

	found := false
	c.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			found = true
			if st.LastWrites[usage.IndexTransferWrite] == nil {
				t.Fatalf("expected the recorded write present")
			}
		})
	if !found {
		t.Fatalf("expected ForEachEffectiveAccess to visit the local entry")
	}
}

func TestForEachEffectiveAccessDescendsIntoPrev(t *testing.T) {
	prev := New(0)
	r := addr.Range{Begin: 0, End: 16}
	prev.DoUpdateAccessState(r, access.Info{Index: usage.IndexTransferWrite, Tag: 1})

	cur := New(1)
	cur.AddPrev(prev, nil)

	visited := 0
	cur.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			visited++
			if st.LastWrites[usage.IndexTransferWrite] == nil {
				t.Fatalf("expected the predecessor's write visible through the trackback")
			}
		})
	if visited != 1 {
		t.Fatalf("expected exactly one visit descending through prev, got %d", visited)
	}
}

func TestForEachEffectiveAccessAppliesTrackbackBarrier(t *testing.T) {
	prev := New(0)
	r := addr.Range{Begin: 0, End: 16}
	prev.DoUpdateAccessState(r, access.Info{Index: usage.IndexTransferWrite, Tag: 1})

	b := barrier.New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageFragmentShader, usage.AccessShaderRead)
	cur := New(1)
	cur.AddPrev(prev, []barrier.Barrier{b})

	cur.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			w := st.LastWrites[usage.IndexTransferWrite]
			if w.Barriers&usage.StageFragmentShader == 0 {
				t.Fatalf("expected the trackback barrier applied to the descended-into state")
			}
		})

	// The predecessor's own map must be untouched: trackback barrier
	// application must operate on a private clone.
	prev.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			w := st.LastWrites[usage.IndexTransferWrite]
			if w.Barriers != 0 {
				t.Fatalf("expected prev's own state to remain unbarriered, got %x", w.Barriers)
			}
		})
}

func TestGlobalBarrierChainsAcrossTwoDefs(t *testing.T) {
	c := New(0)
	r := addr.Range{Begin: 0, End: 16}
	c.DoUpdateAccessState(r, access.Info{Index: usage.IndexTransferWrite, Tag: 1})

	def1 := barrier.New(usage.StageTransfer, usage.AccessTransferWrite, usage.StageVertexShader, usage.AccessShaderRead)
	def2 := barrier.New(usage.StageVertexShader, usage.AccessShaderRead, usage.StageFragmentShader, usage.AccessShaderRead)
	if err := c.RegisterGlobalBarrier(def1, access.InvalidQueueID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RegisterGlobalBarrier(def2, access.InvalidQueueID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.ForEachEffectiveAccess(r, func(_ addr.Range, st *access.State) {
			w := st.LastWrites[usage.IndexTransferWrite]
			if w.Barriers&usage.StageFragmentShader == 0 {
				t.Fatalf("expected the fixpoint loop to chain def2 through def1, got barriers %x", w.Barriers)
			}
		})
}

func TestRegisterGlobalBarrierQueueMismatch(t *testing.T) {
	c := New(0)
	if err := c.RegisterGlobalBarrier(barrier.Barrier{}, access.QueueID(1)); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := c.RegisterGlobalBarrier(barrier.Barrier{}, access.QueueID(2)); err == nil {
		t.Fatalf("expected an error registering a global barrier under a different queue id")
	}
}

func TestInitFromDoesNotCarryFinalizedOrIndices(t *testing.T) {
	src := New(0)
	r := addr.Range{Begin: 0, End: 16}
	src.DoUpdateAccessState(r, access.Info{Index: usage.IndexTransferWrite, Tag: 1})
	src.Finalize()
	if !src.Finalized() {
		t.Fatalf("expected src finalized after Finalize")
	}

	cp := InitFrom(src)
	if cp.Finalized() {
		t.Fatalf("InitFrom must not carry the finalized flag forward ")
	}
	if len(cp.FirstAccessesInTagRange(tagRange(0, 10))) != 0 {
		t.Fatalf("InitFrom must not carry the sorted first-access index forward")
	}
}

func TestFinalizeAndFirstAccessesInTagRange(t *testing.T) {
	c := New(0)
	r1 := addr.Range{Begin: 0, End: 16}
	r2 := addr.Range{Begin: 16, End: 32}
	c.DoUpdateAccessState(r1, access.Info{Index: usage.IndexTransferWrite, Tag: 1})
	c.DoUpdateAccessState(r2, access.Info{Index: usage.IndexTransferWrite, Tag: 5})
	c.Finalize()

	got := c.FirstAccessesInTagRange(tagRange(0, 2))
	if len(got) != 1 || got[0] != r1 {
		t.Fatalf("expected exactly r1 in tag range [0,2), got %v", got)
	}
	got2 := c.FirstAccessesInTagRange(tagRange(0, 10))
	if len(got2) != 2 {
		t.Fatalf("expected both ranges in tag range [0,10), got %v", got2)
	}
}
