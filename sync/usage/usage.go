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

// Package usage holds the leaf vocabulary shared by sync/access and
// sync/barrier: stage/access bitmasks, the access-index enumeration,
// ordering rules, and resource handles. It exists separately from both so
// neither has to import the other just to share these primitive types.
package usage

import "github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"

// StageMask is a bitmask over pipeline stages. Only the stages this module
// exercises in its detectors and tests are named; the real API's full
// stage enumeration is considerably larger but is consumed opaquely
// through this mask by SyncExecScope.
type StageMask uint64

const (
	StageTop StageMask = 1 << iota
	StageTransfer
	StageVertexInput
	StageVertexShader
	StageFragmentShader
	StageEarlyFragmentTests
	StageLateFragmentTests
	StageColorAttachmentOutput
	StageComputeShader
	StageHost
	StageBottom
	StageAllCommands = ^StageMask(0)
)

// AccessMask is a bitmask over memory access types.
type AccessMask uint64

const (
	AccessTransferRead AccessMask = 1 << iota
	AccessTransferWrite
	AccessShaderRead
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
	AccessHostRead
	AccessHostWrite
	AccessMemoryRead  = AccessTransferRead | AccessShaderRead | AccessColorAttachmentRead | AccessDepthStencilAttachmentRead | AccessHostRead
	AccessMemoryWrite = AccessTransferWrite | AccessShaderWrite | AccessColorAttachmentWrite | AccessDepthStencilAttachmentWrite | AccessHostWrite
)

// IsRead reports whether any bit of a describes a read access.
func (a AccessMask) IsRead() bool { return a&AccessMemoryRead != 0 }

// IsWrite reports whether any bit of a describes a write access.
func (a AccessMask) IsWrite() bool { return a&AccessMemoryWrite != 0 }

// Index enumerates a defined (stage, access) combination, the unit that
// recorded accesses and barrier scopes are expressed in terms of.
type Index int

const (
	IndexTransferRead Index = iota
	IndexTransferWrite
	IndexVertexShaderRead
	IndexFragmentShaderRead
	IndexFragmentShaderWrite
	IndexColorAttachmentOutputRead
	IndexColorAttachmentOutputWrite
	IndexEarlyFragmentTestsRead
	IndexEarlyFragmentTestsWrite
	IndexLateFragmentTestsRead
	IndexLateFragmentTestsWrite
	IndexComputeShaderRead
	IndexComputeShaderWrite
	IndexHostRead
	IndexHostWrite
	// IndexLayoutTransition is the implicit extra write access an image
	// barrier's old_layout != new_layout carries.
	IndexLayoutTransition
)

type indexInfo struct {
	stage  StageMask
	access AccessMask
}

var indexTable = map[Index]indexInfo{
	IndexTransferRead:               {StageTransfer, AccessTransferRead},
	IndexTransferWrite:              {StageTransfer, AccessTransferWrite},
	IndexVertexShaderRead:           {StageVertexShader, AccessShaderRead},
	IndexFragmentShaderRead:         {StageFragmentShader, AccessShaderRead},
	IndexFragmentShaderWrite:        {StageFragmentShader, AccessShaderWrite},
	IndexColorAttachmentOutputRead:  {StageColorAttachmentOutput, AccessColorAttachmentRead},
	IndexColorAttachmentOutputWrite: {StageColorAttachmentOutput, AccessColorAttachmentWrite},
	IndexEarlyFragmentTestsRead:     {StageEarlyFragmentTests, AccessDepthStencilAttachmentRead},
	IndexEarlyFragmentTestsWrite:    {StageEarlyFragmentTests, AccessDepthStencilAttachmentWrite},
	IndexLateFragmentTestsRead:      {StageLateFragmentTests, AccessDepthStencilAttachmentRead},
	IndexLateFragmentTestsWrite:     {StageLateFragmentTests, AccessDepthStencilAttachmentWrite},
	IndexComputeShaderRead:          {StageComputeShader, AccessShaderRead},
	IndexComputeShaderWrite:         {StageComputeShader, AccessShaderWrite},
	IndexHostRead:                   {StageHost, AccessHostRead},
	IndexHostWrite:                  {StageHost, AccessHostWrite},
	IndexLayoutTransition:           {StageAllCommands, AccessMemoryWrite},
}

// Stage returns the pipeline stage a usage index occurs at.
func (i Index) Stage() StageMask { return indexTable[i].stage }

// Access returns the access mask a usage index implies.
func (i Index) Access() AccessMask { return indexTable[i].access }

// IsRead reports whether the usage index is a read.
func (i Index) IsRead() bool { return indexTable[i].access.IsRead() }

// Ordering is a per-access-class hint declaring certain stage pairs
// implicitly ordered.
type Ordering int

const (
	OrderingNone Ordering = iota
	OrderingColorAttachment
	OrderingDepthStencilAttachment
	OrderingRaster
)

// Flags carries per-access bookkeeping bits unrelated to stage/access
// (e.g. whether this access originated from a load/store op), used by the
// renderpass driver and the marker detector.
type Flags uint32

const (
	FlagNone      Flags = 0
	FlagLoadOp    Flags = 1 << 0
	FlagStoreOp   Flags = 1 << 1
	FlagResolveOp Flags = 1 << 2
)

// QueueID identifies the queue a recorded access or barrier belongs to.
type QueueID int32

// InvalidQueueID marks an access recorded during command-buffer recording,
// before it is known which queue it will be submitted to. Submit-time
// barrier application uses this sentinel to distinguish "still recording"
// from "replaying on a real queue".
const InvalidQueueID QueueID = -1

// Info describes one resource access being recorded or queried: its usage
// index, the tag it occurred (or will occur) at, ordering rule, flags and
// owning queue.
type Info struct {
	Index    Index
	Tag      tag.Tag
	Ordering Ordering
	Flags    Flags
	QueueID  QueueID
}

// Stage is a convenience accessor for Info.Index.Stage.
func (i Info) Stage() StageMask { return i.Index.Stage() }

// Access is a convenience accessor for Info.Index.Access.
func (i Info) Access() AccessMask { return i.Index.Access() }
