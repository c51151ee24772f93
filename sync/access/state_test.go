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

package access

import (
	"testing"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

func tagRange(begin, end uint64) tag.Range {
	return tag.Range{Begin: tag.Tag(begin), End: tag.Tag(end)}
}

func TestUpdateWriteSupersedesPriorWritesAndReads(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferRead, Tag: 1})
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 2})
	if len(s.LastReads) != 0 {
		t.Fatalf("a write must clear outstanding reads, got %d", len(s.LastReads))
	}
	if len(s.LastWrites) != 1 {
		t.Fatalf("a write must clear prior writes from other indices, got %d entries", len(s.LastWrites))
	}
	if w := s.LastWrites[usage.IndexTransferWrite]; w == nil || w.Info.Tag != 2 {
		t.Fatalf("expected the new write recorded at tag 2, got %+v", w)
	}
}

func TestUpdateAccumulatesConcurrentReads(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexVertexShaderRead, Tag: 1})
	s.Update(Info{Index: usage.IndexFragmentShaderRead, Tag: 2})
	if len(s.LastReads) != 2 {
		t.Fatalf("expected both reads retained (RaR is never a hazard), got %d", len(s.LastReads))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	cp := s.Clone()
	cp.Update(Info{Index: usage.IndexTransferWrite, Tag: 2})
	if s.LastWrites[usage.IndexTransferWrite].Info.Tag != 1 {
		t.Fatalf("mutating the clone must not affect the original")
	}
}

func TestResolveKeepsLaterTagPerIndex(t *testing.T) {
	dst := NewState()
	dst.Update(Info{Index: usage.IndexTransferWrite, Tag: 5})
	src := NewState()
	src.Update(Info{Index: usage.IndexTransferWrite, Tag: 3})
	dst.Resolve(src)
	if dst.LastWrites[usage.IndexTransferWrite].Info.Tag != 5 {
		t.Fatalf("resolve must keep the later-tagged write, got tag %d", dst.LastWrites[usage.IndexTransferWrite].Info.Tag)
	}

	src2 := NewState()
	src2.Update(Info{Index: usage.IndexTransferWrite, Tag: 9})
	dst.Resolve(src2)
	if dst.LastWrites[usage.IndexTransferWrite].Info.Tag != 9 {
		t.Fatalf("resolve must adopt a later-tagged incoming write, got tag %d", dst.LastWrites[usage.IndexTransferWrite].Info.Tag)
	}
}

func TestFirstAccessRangeWidensAcrossUpdates(t *testing.T) {
	s := NewState()
	if s.HasFirstAccess() {
		t.Fatalf("a fresh state must report no first access")
	}
	s.Update(Info{Index: usage.IndexTransferRead, Tag: 10})
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 20})
	if !s.HasFirstAccess() {
		t.Fatalf("expected first access recorded")
	}
	if !s.FirstAccessInTagRange(tagRange(0, 11)) {
		t.Fatalf("expected range to include tag 10")
	}
	if !s.FirstAccessInTagRange(tagRange(20, 21)) {
		t.Fatalf("expected range widened to include tag 20")
	}
	if s.FirstAccessInTagRange(tagRange(21, 30)) {
		t.Fatalf("range must not extend past the latest recorded tag")
	}
}

func TestIsEmpty(t *testing.T) {
	s := NewState()
	if !s.IsEmpty() {
		t.Fatalf("a fresh state must be empty")
	}
	s.Update(Info{Index: usage.IndexTransferRead, Tag: 1})
	if s.IsEmpty() {
		t.Fatalf("a state with a recorded read must not be empty")
	}
}
