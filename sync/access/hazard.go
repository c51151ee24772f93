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

package access

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"

// Kind classifies a detected hazard. These are findings, not errors:
// detectors never panic or return a Go error for a hazard, only a Kind.
type Kind int

const (
	// None means no hazard was found.
	None Kind = iota
	// ReadAfterWrite: a read was not synchronized against a prior write.
	ReadAfterWrite
	// WriteAfterWrite: a write was not synchronized against a prior write.
	WriteAfterWrite
	// WriteAfterRead: a write was not synchronized against a prior read.
	WriteAfterRead
	// LayoutTransitionAfterStore: a layout transition raced a store op on
	// the same attachment. No detector in this module reports this kind.
	LayoutTransitionAfterStore
	// AsyncRace: a conflicting access on another queue, where no
	// cross-queue synchronization is implied regardless of barriers.
	AsyncRace
	// BarrierInsufficient: the prior access is not covered by the given
	// barrier's source scope.
	BarrierInsufficient
	// FirstUse: a recorded access's first-use tag range conflicts with the
	// live queue state found during replay.
	FirstUse
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case ReadAfterWrite:
		return "ReadAfterWrite"
	case WriteAfterWrite:
		return "WriteAfterWrite"
	case WriteAfterRead:
		return "WriteAfterRead"
	case LayoutTransitionAfterStore:
		return "LayoutTransitionAfterStore"
	case AsyncRace:
		return "AsyncRace"
	case BarrierInsufficient:
		return "BarrierInsufficient"
	case FirstUse:
		return "FirstUse"
	}
	return "?"
}

// Result is the outcome of a detector call: either no hazard (Kind ==
// None, and the other fields zero) or a structured description of the
// conflicting pair of accesses, carrying enough information for a caller
// to build a user-visible diagnostic.
type Result struct {
	Kind Kind
	Tag tag.Tag // the tag of the access that triggered detection
	PriorTag tag.Tag // the tag of the conflicting recorded access
	PriorInfo Info
}

// Hazard is shorthand to build a Result for a given kind and the
// conflicting recorded access.
func Hazard(k Kind, at tag.Tag, prior Info) Result {
	return Result{Kind: k, Tag: at, PriorTag: prior.Tag, PriorInfo: prior}
}

// NoHazard is the zero Result, meaning detection found nothing to report.
var NoHazard = Result{}

// Hazard reports whether the result describes an actual hazard.
func (r Result) Hazard() bool { return r.Kind != None }
