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
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/access"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/barrier"
)

// CollectBarrier walks r over c's own map (never descending into Prev — a
// barrier only ever affects state this context already records locally;
// predecessor state is brought in, if at all, the next time something
// resolves through it) and records scope's effect into pending for every
// AccessState that intersects r ("CollectBarriersFunctor").
// When installLayoutTransition is set, a gap with no existing local entry is
// first infilled with a fresh State so the implicit write the transition
// adds has somewhere to live ("layout-transition semantics").
func (c *Context) CollectBarrier(r addr.Range, scope barrier.Barrier, layoutTransition bool, handle access.Handle, pending *access.PendingBarriers) {
	access.UpdateRangeWith(c.Map, r,
		func(gap addr.Range) *access.State {
			if !layoutTransition {
				return nil
			}
			st := access.NewState()
			st.NextGlobalBarrierIndex = c.GlobalBarrierCount()
			return st
		},
		func(st *access.State) {
			pending.Collect(st, scope, layoutTransition, handle, c.queueQID)
		},
	)
}
