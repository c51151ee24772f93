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

// Package event implements the event synchronization state machine:
// idle/set/unsynchronized, and the first scope an event captures at
// SetEvent time for a later WaitEvents to synchronize against. Grounded on
// original_source/layers/sync/sync_op.h's SyncEventState (lines 38-99),
// with the shared_ptr<AccessContext> first-scope snapshot re-expressed as a
// plain Go pointer: the snapshot is never mutated after capture and this
// module's single-threaded recording model means ordinary GC-managed
// sharing already gives it the lifetime the source obtains via reference
// counting.
package event

import (
	"github.com/pkg/errors"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/acontext"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/usage"
)

// Phase is the event's synchronization state.
type Phase int

const (
	// Idle: no first scope has been captured (or it was cleared by Reset).
	Idle Phase = iota
	// Set: a first scope is present and was captured with a barrier
	// properly separating it from whatever came before.
	Set
	// Unsynchronized: a first scope is present, but it was captured by a
	// Set with no intervening barrier since the previous Set/Reset, so a
	// Wait against it cannot trust the captured scope.
	Unsynchronized
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Set:
		return "Set"
	case Unsynchronized:
		return "Unsynchronized"
	}
	return "?"
}

// SyncKind distinguishes the Sync1 single-scope event API from Sync2's
// per-barrier-scoped API, needed because WaitEvents must reject a Sync2 wait
// against a Sync1 set and vice versa.
type SyncKind int

const (
	Sync1 SyncKind = iota
	Sync2
)

// State is one event's tracked synchronization status.
type State struct {
	Handle barrier.Handle

	Phase Phase

	// FirstScope is the AccessContext snapshot captured by the most recent
	// Set, or nil if Phase == Idle. Never mutated after capture.
	FirstScope *acontext.Context

	// Scope is the raw source stage mask given to the Set that captured
	// FirstScope, checked against a later Wait's own srcStageMask to
	// detect a wait that omits a stage the captured scope depends on.
	Scope usage.StageMask

	// Barriers accumulates the destination scopes of every Wait against
	// this event and of every subsequent barrier whose source stages
	// intersect what was already accumulated.
	Barriers usage.StageMask

	SrcKind SyncKind

	// touched is false until the first Set/Reset/Wait against this event,
	// mirroring the source's "last_command == Func::Empty" vacuous-pass
	// case for an event nothing has ever referenced yet.
	touched bool

	// lastCommandTag is the tag of the most recent Set/Reset/Wait against
	// this event.
	lastCommandTag tag.Tag
}

// New returns an idle event state for handle.
func New(handle barrier.Handle) *State {
	return &State{Handle: handle, Phase: Idle}
}

// hasBarrier reports whether a barrier now separates this event from
// whatever last touched it, from the perspective of a call whose own
// source scope is scope ("SyncEventState::HasBarrier", sync_op.cpp:1488):
// the event is vacuously considered barriered if nothing has ever
// referenced it, if scope is itself the all-commands pseudo-stage, or if
// the accumulated Barriers mask already reaches into scope's expanded
// stages (directly, or because Barriers itself reached all-commands).
func (s *State) hasBarrier(scope barrier.ExecScope) bool {
	return !s.touched ||
		scope.Stage == usage.StageAllCommands ||
		s.Barriers&scope.ExpandStage != 0 ||
		s.Barriers == usage.StageAllCommands
}

// NoteBarrier folds a newly recorded barrier's destination scope into
// Barriers when its source scope reaches what Barriers already covers, or
// when the barrier's source is the all-commands pseudo-stage
// ("SyncEventsContext::ApplyBarrier", sync_op.cpp:1416-1425). A barrier
// whose source scope is disjoint from the accumulated one leaves Barriers
// untouched: an event with nothing accumulated yet does not absorb an
// unrelated barrier just because it happens to be recorded somewhere in
// the command stream.
func (s *State) NoteBarrier(src barrier.ExecScope, dstStages usage.StageMask) {
	if s.Barriers&src.ExpandStage != 0 || src.Stage == usage.StageAllCommands {
		s.Barriers |= dstStages
	}
}

// HasBarrier reports whether the event's accumulated destination scope
// covers stage, for inspecting the chain NoteBarrier has built up.
func (s *State) HasBarrier(stage usage.StageMask) bool {
	return s.Barriers&stage != 0
}

// Set transitions the event to Set (or Unsynchronized, if no barrier
// separates it from the previous Set/Reset), capturing ctx as the first
// scope and kind as the API the first scope's barriers must be re-checked
// against at wait time. A first scope is only captured when none is
// already present: a second Set while one is still outstanding leaves it
// be, matching the source's "we only set the scope if there isn't one"
// (sync_op.cpp:1135).
func (s *State) Set(ctx *acontext.Context, kind SyncKind, scope barrier.ExecScope, at tag.Tag) {
	if !s.hasBarrier(scope) {
		s.Phase = Unsynchronized
		s.FirstScope = nil
	} else if s.FirstScope == nil {
		s.Phase = Set
		s.FirstScope = acontext.InitFrom(ctx)
		s.Scope = scope.Stage
		s.SrcKind = kind
	}
	s.touched = true
	s.lastCommandTag = at
	s.Barriers = 0
}

// Reset transitions the event back to Idle, clearing its first scope and
// barrier mask. It is an error to Reset without an intervening barrier
// since the prior Set/Wait (checked via hasBarrier against scope, the
// ResetEvent's own source scope, mirroring sync_op.cpp:924); the caller
// decides how to surface the returned error as a diagnostic, since it is
// the application under validation racing the event object itself.
func (s *State) Reset(scope barrier.ExecScope, at tag.Tag) error {
	var err error
	if !s.hasBarrier(scope) {
		err = errors.Errorf("event %d reset without an intervening barrier since its last set", s.Handle)
	}
	s.Phase = Idle
	s.FirstScope = nil
	s.Scope = 0
	s.Barriers = 0
	s.touched = true
	s.lastCommandTag = at
	return err
}

// WaitDiagnostic names why a WaitEvents call against this event must be
// ignored, or empty if the wait may proceed.
type WaitDiagnostic string

const (
	// WaitOK: the wait may proceed.
	WaitOK WaitDiagnostic = ""
	// MissingSetEvent: waited on an event with no captured first scope.
	MissingSetEvent WaitDiagnostic = "MissingSetEvent"
	// SetRace: the event's last command was a Set with no barrier separating
	// it from the previous Set/Reset.
	SetRace WaitDiagnostic = "SetRace"
	// MissingStageBits: srcStageMask omits a stage included in the event's
	// first scope.
	MissingStageBits WaitDiagnostic = "MissingStageBits"
	// Sync1Sync2Mismatch: the set used Sync1 while the wait uses Sync2 (or
	// vice versa) against the same event.
	Sync1Sync2Mismatch WaitDiagnostic = "Sync1Sync2Mismatch"
)

// CheckWait reports whether a WaitEvents against this event with the given
// source scope and API kind may proceed ("SyncEventState::IsIgnoredByWait",
// sync_op.cpp:1466-1486): an event that is reset or never set has no first
// scope and reports MissingSetEvent, an unsynchronized set races the wait
// outright, and a wait whose own source stage mask
// omits a stage the captured first scope depends on is ignored with
// MissingStageBits rather than silently treated as fully covered.
func (s *State) CheckWait(scope barrier.ExecScope, kind SyncKind) WaitDiagnostic {
	switch s.Phase {
	case Idle:
		return MissingSetEvent
	case Unsynchronized:
		return SetRace
	}
	if s.SrcKind != kind {
		return Sync1Sync2Mismatch
	}
	if s.FirstScope == nil {
		return MissingSetEvent
	}
	if s.Scope&^scope.Stage != 0 {
		return MissingStageBits
	}
	return WaitOK
}

// ConsumeWait records that a wait against this event succeeded, OR-ing
// dstStages into Barriers.
func (s *State) ConsumeWait(dstStages usage.StageMask, at tag.Tag) {
	s.Barriers |= dstStages
	s.lastCommandTag = at
	s.touched = true
}

// Context carries every event handle's tracked state for one command
// buffer or queue-batch recording.
type Context struct {
	events map[barrier.Handle]*State
}

// NewContext returns an empty event-tracking context.
func NewContext() *Context { return &Context{events: map[barrier.Handle]*State{}} }

// Get returns the tracked state for handle, creating an idle one if this is
// the first time handle has been seen.
func (c *Context) Get(handle barrier.Handle) *State {
	if s, ok := c.events[handle]; ok {
		return s
	}
	s := New(handle)
	c.events[handle] = s
	return s
}

// ForEach runs fn once per event handle this context has ever tracked, used
// by PipelineBarrier to fold a newly recorded barrier into every event's
// accumulated scope-chain bookkeeping.
func (c *Context) ForEach(fn func(*State)) {
	for _, s := range c.events {
		fn(s)
	}
}
