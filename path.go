// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package canonical

import (
	"fmt"
	"unicode/utf8"
)

// PathCaseRule checks each path segment against its expected form as computed
// by a pluggable Slugger. Segments whose route slot is declared sensitive are
// passed through untouched, as are empty segments (duplicate separators are
// the slash rule's business).
//
// With the default identity slugger the rule never fires; install
// LowerSlugger or SlugifySlugger to enforce a casing or slug policy.
type PathCaseRule struct {
	slugger Slugger
}

// NewPathCaseRule creates a path-case rule. A nil slugger defaults to the
// identity slugger.
func NewPathCaseRule(slugger Slugger) *PathCaseRule {
	if slugger == nil {
		slugger = IdentitySlugger()
	}
	return &PathCaseRule{slugger: slugger}
}

func (r *PathCaseRule) Name() string { return "path_case" }

func (r *PathCaseRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	var corrections []Correction
	slots := slotIndexes(req.Segments)
	for i, seg := range req.Segments {
		if seg == "" {
			continue
		}
		if !utf8.ValidString(seg) {
			return Outcome{}, fmt.Errorf("path segment %d is not valid UTF-8", i)
		}

		if slot := d.SlotName(slots[i]); slot != "" && d.IsSensitive(slot) {
			continue
		}

		expected := r.slugger.Slug(seg)
		if expected == "" || expected == seg {
			// A slug that collapses to nothing cannot replace the
			// segment without changing the route shape.
			continue
		}

		corrections = append(corrections, CorrectSegment(i, expected))
	}

	return Outcome{Corrections: corrections}, nil
}

// SlashRule flags duplicate path separators and a non-root trailing slash.
// The correction collapses duplicates and strips the trailing slash; the root
// path "/" is never touched.
type SlashRule struct{}

// NewSlashRule creates a slash-normalization rule.
func NewSlashRule() *SlashRule { return &SlashRule{} }

func (r *SlashRule) Name() string { return "slash" }

func (r *SlashRule) Evaluate(req *Request, _ *Descriptor) (Outcome, error) {
	dirty := req.TrailingSlash
	if !dirty {
		for _, seg := range req.Segments {
			if seg == "" {
				dirty = true
				break
			}
		}
	}
	if !dirty {
		return Outcome{}, nil
	}

	return Outcome{Corrections: []Correction{CollapseSlashes()}}, nil
}

// DefaultValueRule flags path segments made redundant by the endpoint's
// configured defaults. A segment is redundant only when it and every segment
// after it equal their slot defaults: omitting a non-trailing segment would
// change how the remaining path routes, so the rule omits the longest
// trailing run of default-valued segments.
//
// Example: with defaults {controller:"Home", action:"Index"}, /Home/Index
// canonicalizes to / and /Home/About keeps both segments.
type DefaultValueRule struct{}

// NewDefaultValueRule creates a default-value-omission rule. The defaults
// themselves come from the descriptor's route metadata.
func NewDefaultValueRule() *DefaultValueRule { return &DefaultValueRule{} }

func (r *DefaultValueRule) Name() string { return "default_value" }

func (r *DefaultValueRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	var corrections []Correction
	slots := slotIndexes(req.Segments)
	for i := len(req.Segments) - 1; i >= 0; i-- {
		if req.Segments[i] == "" {
			continue
		}
		def, ok := d.DefaultFor(slots[i])
		if !ok || req.Segments[i] != def {
			break
		}
		corrections = append(corrections, OmitSegment(i))
	}

	return Outcome{Corrections: corrections}, nil
}

// slotIndexes maps each raw segment index to its route slot index. Empty
// segments mark duplicate separators and do not occupy a slot, so slot
// alignment matches the path as it will route once separators collapse.
func slotIndexes(segments []string) []int {
	indexes := make([]int, len(segments))
	slot := 0
	for i, seg := range segments {
		indexes[i] = slot
		if seg != "" {
			slot++
		}
	}
	return indexes
}
