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

// Update records a new access at info.Tag ("update"). A
// write supersedes all previously recorded writes and reads on this range
// (the API's implicit ordering rule: a new write only needs to be
// synchronized against what came before it, and everything before it is
// now ordered-before the write itself) — so LastWrites/LastReads/
// PendingLayoutTransition are reset to hold just this write. A read is
// added alongside any existing reads (multiple reads may be outstanding
// at once; RaR is never a hazard).
func (s *State) Update(info Info) {
	s.recordFirstAccess(info.Tag)
	if info.Access().IsWrite() {
		s.LastWrites = map[Index]*WriteRecord{
			info.Index: {Info: info},
		}
		s.LastReads = nil
		s.PendingLayoutTransition = false
		return
	}
	s.LastReads = append(s.LastReads, &ReadRecord{Stage: info.Stage(), Info: info})
}

// Normalize drops any bookkeeping that no longer carries information, used
// after a merge to keep the state minimal. Currently a no-op placeholder:
// this module's WriteRecord/ReadRecord never accumulate redundant entries
// that would need pruning. No code in this module calls it; the entry
// point is kept to match the source's normalize/resolve pairing.
func (s *State) Normalize() {}

// Resolve merges src into s, as happens when a subpass's own AccessState
// absorbs the AccessState inherited from a predecessor context at the same
// range ("either merge into the existing destination entry").
// For each usage index, the write with the later tag wins; reads are unioned by stage, keeping the later tag on a
// stage collision. FirstAccessRange widens to cover both.
func (s *State) Resolve(src *State) {
	for idx, sw := range src.LastWrites {
		dw, ok := s.LastWrites[idx]
		if !ok || sw.Info.Tag > dw.Info.Tag {
			cp := *sw
			s.LastWrites[idx] = &cp
		}
	}
	byStage := map[uint64]*ReadRecord{}
	for _, r := range s.LastReads {
		byStage[uint64(r.Stage)] = r
	}
	for _, sr := range src.LastReads {
		if existing, ok := byStage[uint64(sr.Stage)]; !ok || sr.Info.Tag > existing.Info.Tag {
			cp := *sr
			byStage[uint64(sr.Stage)] = &cp
		}
	}
	reads := make([]*ReadRecord, 0, len(byStage))
	for _, r := range byStage {
		reads = append(reads, r)
	}
	s.LastReads = reads
	s.PendingLayoutTransition = s.PendingLayoutTransition || src.PendingLayoutTransition
	if src.firstAccessRangeValid {
		if !s.firstAccessRangeValid {
			s.FirstAccessRange = src.FirstAccessRange
			s.firstAccessRangeValid = true
		} else {
			s.FirstAccessRange = s.FirstAccessRange.Union(src.FirstAccessRange)
		}
	}
}
