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

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

func TestDetectHazardWriteAfterWriteWithoutBarrier(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	res := s.DetectHazard(Info{Index: usage.IndexTransferWrite, Tag: 2})
	if res.Kind != WriteAfterWrite {
		t.Fatalf("expected WriteAfterWrite, got %v", res.Kind)
	}
}

func TestDetectHazardNoneAfterSufficientBarrier(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	s.ApplyBarrier(barrier.Barrier{
		Src: barrier.ExecScope{ExpandStage: usage.StageTransfer, Access: usage.AccessTransferWrite},
		Dst: barrier.ExecScope{ExpandStage: usage.StageTransfer, Access: usage.AccessTransferRead},
	}, false, 0, 0, InvalidQueueID)
	res := s.DetectHazard(Info{Index: usage.IndexTransferRead, Tag: 2})
	if res.Hazard() {
		t.Fatalf("expected no hazard once the prior write is barrier-covered, got %v", res.Kind)
	}
}

func TestDetectHazardReadAfterWrite(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	res := s.DetectHazard(Info{Index: usage.IndexTransferRead, Tag: 2})
	if res.Kind != ReadAfterWrite {
		t.Fatalf("expected ReadAfterWrite, got %v", res.Kind)
	}
}

func TestDetectHazardWriteAfterRead(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexVertexShaderRead, Tag: 1})
	res := s.DetectHazard(Info{Index: usage.IndexTransferWrite, Tag: 2})
	if res.Kind != WriteAfterRead {
		t.Fatalf("expected WriteAfterRead, got %v", res.Kind)
	}
}

func TestDetectHazardReadAfterReadNeverHazards(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexVertexShaderRead, Tag: 1})
	res := s.DetectHazard(Info{Index: usage.IndexFragmentShaderRead, Tag: 2})
	if res.Hazard() {
		t.Fatalf("RaR must never be reported as a hazard, got %v", res.Kind)
	}
}

func TestDetectHazardOrderedSuppressesColorAttachmentPair(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexColorAttachmentOutputWrite, Tag: 1})
	res := s.DetectHazardOrdered(Info{Index: usage.IndexColorAttachmentOutputWrite, Tag: 2}, OrderingColorAttachment)
	if res.Hazard() {
		t.Fatalf("color-attachment ordering must suppress this pair, got %v", res.Kind)
	}
	// Without the ordering rule the same pair is a hazard.
	s2 := NewState()
	s2.Update(Info{Index: usage.IndexColorAttachmentOutputWrite, Tag: 1})
	res2 := s2.DetectHazard(Info{Index: usage.IndexColorAttachmentOutputWrite, Tag: 2})
	if !res2.Hazard() {
		t.Fatalf("expected a hazard without the ordering rule")
	}
}

func TestDetectBarrierHazardInsufficientScope(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	res := s.DetectBarrierHazard(Info{Tag: 2}, InvalidQueueID, barrier.ExecScope{ExpandStage: usage.StageVertexShader, Access: usage.AccessShaderRead})
	if res.Kind != BarrierInsufficient {
		t.Fatalf("expected BarrierInsufficient, got %v", res.Kind)
	}
}

func TestDetectBarrierHazardSufficientScope(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	res := s.DetectBarrierHazard(Info{Tag: 2}, InvalidQueueID, barrier.ExecScope{ExpandStage: usage.StageTransfer, Access: usage.AccessTransferWrite})
	if res.Hazard() {
		t.Fatalf("expected no hazard, got %v", res.Kind)
	}
}

func TestDetectAsyncHazardCrossQueueRace(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 5, QueueID: 1})
	res := s.DetectAsyncHazard(Info{Index: usage.IndexTransferWrite, Tag: 6}, 0, 2)
	if res.Kind != AsyncRace {
		t.Fatalf("expected AsyncRace across distinct queues, got %v", res.Kind)
	}
}

func TestDetectAsyncHazardSameQueueNeverRaces(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 5, QueueID: 1})
	res := s.DetectAsyncHazard(Info{Index: usage.IndexTransferWrite, Tag: 6}, 0, 1)
	if res.Hazard() {
		t.Fatalf("same-queue accesses are never an async race, got %v", res.Kind)
	}
}

func TestDetectMarkerHazard(t *testing.T) {
	s := NewState()
	s.Update(Info{Index: usage.IndexTransferWrite, Tag: 1})
	if !s.DetectMarkerHazard() {
		t.Fatalf("an unbarriered write must report a marker hazard")
	}
	s.ApplyBarrier(barrier.Barrier{
		Src: barrier.ExecScope{ExpandStage: usage.StageTransfer, Access: usage.AccessTransferWrite},
		Dst: barrier.ExecScope{ExpandStage: usage.StageTransfer, Access: usage.AccessTransferRead},
	}, false, 0, 0, InvalidQueueID)
	if s.DetectMarkerHazard() {
		t.Fatalf("a barriered write must not report a marker hazard")
	}
}
