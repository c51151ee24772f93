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
	"sort"

	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/core/addr"
	"github.com/KhronosGroup/Vulkan-ValidationLayers-sub088/sync/tag"
)

// firstAccessEntry pairs an address range with the tag that first touched
// it, sorted by tag so a first-use query over a tag range can binary search
// instead of scanning the whole map.
type firstAccessEntry struct {
	t tag.Tag
	r addr.Range
}

// firstAccessRangeEntry is the same pairing sorted by address instead, for
// queries that walk by address range rather than by tag.
type firstAccessRangeEntry struct {
	r addr.Range
	t tag.Tag
}

// Finalize builds the sorted first-access indices used by first-use hazard
// queries. It must run once recording for this context is complete:
// InitFrom deliberately never copies these indices forward, since they
// would otherwise answer queries against a map that both the copy and the
// original go on to mutate independently. Calling Finalize a second time
// rebuilds the indices from the map's current contents.
func (c *Context) Finalize() {
	c.sortedSingle = c.sortedSingle[:0]
	c.sortedRanges = c.sortedRanges[:0]
	for i := 0; i < c.Map.Len(); i++ {
		r, st := c.Map.At(i)
		if !st.HasFirstAccess() {
			continue
		}
		fr := st.FirstAccessRange
		c.sortedSingle = append(c.sortedSingle, firstAccessEntry{fr.Begin, r})
		c.sortedRanges = append(c.sortedRanges, firstAccessRangeEntry{r, fr.Begin})
	}
	sort.Slice(c.sortedSingle, func(i, j int) bool { return c.sortedSingle[i].t < c.sortedSingle[j].t })
	sort.Slice(c.sortedRanges, func(i, j int) bool { return c.sortedRanges[i].r.Begin < c.sortedRanges[j].r.Begin })
	c.finalized = true
}

// FirstAccessesInTagRange returns every address range whose first access
// tag falls within r, using the sorted-by-tag index built by Finalize.
// Finalize must have run since the last mutation of c.Map or the result is
// stale.
func (c *Context) FirstAccessesInTagRange(r tag.Range) []addr.Range {
	lo := sort.Search(len(c.sortedSingle), func(i int) bool { return c.sortedSingle[i].t >= r.Begin })
	var out []addr.Range
	for i := lo; i < len(c.sortedSingle) && c.sortedSingle[i].t < r.End; i++ {
		out = append(out, c.sortedSingle[i].r)
	}
	return out
}
