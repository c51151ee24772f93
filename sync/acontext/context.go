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

// Package acontext implements AccessContext (C4): the per-subpass/per-command-
// buffer node of the happened-after DAG describes, owning an
// AccessMap plus the edges (prev trackbacks, async references, global-barrier
// queue) that let a descent walk resolve an access range against everything
// that causally precedes it. Grounded on
// original_source/layers/sync/sync_access_context.h's AccessContext, with the
// pointer-heavy subpass graph re-expressed as explicit slices of *Context
// rather than raw pointers into a vector owned elsewhere.
package acontext

import (
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// maxGlobalBarrierDefs bounds the global-barrier def table: defs <= 8 is
// the bound the O(defs^2) fixpoint is sized for.
const maxGlobalBarrierDefs = 8

// TrackBack is one edge from a Context back to a causal predecessor: the
// predecessor itself, plus the barriers that were in effect crossing that
// edge (a subpass dependency's barrier, or an external dependency's).
type TrackBack struct {
	Context *Context
	Barriers []barrier.Barrier
}

// AsyncRef is an edge to a context that runs concurrently (not causally
// ordered) with this one, e.g. a secondary command buffer executed on another
// queue, or a subpass with no dependency to this one. Resolution against an
// AsyncRef only ever reports AsyncRace, never RAW/WAW/WAR.
type AsyncRef struct {
	Context *Context
	StartTag tag.Tag
	QueueID access.QueueID
}

type globalBarrierDef struct {
	b barrier.Barrier
	chainMask uint8
}

// Context is one node of the AccessContext DAG. The zero value
// is not usable; construct with New.
type Context struct {
	Map *access.Map

	Prev []TrackBack
	PrevBySubpass map[int]int // subpass index -> index into Prev
	Async []AsyncRef
	ExternalSrc *TrackBack
	ExternalDst *TrackBack

	StartTag tag.Tag

	defs [maxGlobalBarrierDefs]globalBarrierDef
	defCount int
	queue []int // FIFO of indices into defs, may repeat an index
	queueQID access.QueueID
	haveQID bool

	finalized bool

	sortedSingle []firstAccessEntry
	sortedRanges []firstAccessRangeEntry
}

// New returns an empty Context starting at startTag.
func New(startTag tag.Tag) *Context {
	return &Context{
		Map: access.NewMap(),
		PrevBySubpass: map[int]int{},
		StartTag: startTag,
		queueQID: access.InvalidQueueID,
	}
}

// AddPrev appends a trackback to a causal predecessor, returning its index
// (usable with SetPrevForSubpass).
func (c *Context) AddPrev(prev *Context, barriers []barrier.Barrier) int {
	c.Prev = append(c.Prev, TrackBack{Context: prev, Barriers: barriers})
	return len(c.Prev) - 1
}

// SetPrevForSubpass records that the trackback at prevIndex is this render
// pass's edge from subpass.
func (c *Context) SetPrevForSubpass(subpass, prevIndex int) {
	c.PrevBySubpass[subpass] = prevIndex
}

// AddAsync appends an asynchronous (non-causal) reference.
func (c *Context) AddAsync(ref AsyncRef) {
	c.Async = append(c.Async, ref)
}

// Finalized reports whether finalize has already run on c.
func (c *Context) Finalized() bool { return c.finalized }

// InitFrom deep-copies the structural edges of src into a freshly allocated
// Context for reuse in a new recording. The copy never carries over src's
// finalized flag or its sorted first-access index: those are derived state
// that only a fresh Finalize call may (re)establish, and doing otherwise
// would let a stale index answer queries against a map that has since been
// mutated.
func InitFrom(src *Context) *Context {
	out := &Context{
		Map: src.Map.Clone(),
		PrevBySubpass: make(map[int]int, len(src.PrevBySubpass)),
		StartTag: src.StartTag,
		defCount: src.defCount,
		queue: append([]int(nil), src.queue...),
		queueQID: src.queueQID,
		haveQID: src.haveQID,
	}
	out.defs = src.defs
	out.Prev = append([]TrackBack(nil), src.Prev...)
	for k, v := range src.PrevBySubpass {
		out.PrevBySubpass[k] = v
	}
	out.Async = append([]AsyncRef(nil), src.Async...)
	if src.ExternalSrc != nil {
		cp := *src.ExternalSrc
		out.ExternalSrc = &cp
	}
	if src.ExternalDst != nil {
		cp := *src.ExternalDst
		out.ExternalDst = &cp
	}
	// finalized and the sorted indices are intentionally left zero.
	return out
}
