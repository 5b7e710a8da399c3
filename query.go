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
	"strings"
)

// softOnly marks rules whose corrections are never redirect-worthy. The
// registry rejects hard severity for them at registration time.
type softOnly interface {
	softOnly()
}

// QueryKeyCaseRule checks that every canonical, non-sensitive query key is
// spelled exactly as declared in the descriptor's canonical-query list.
// Declare keys in lowercase for the conventional all-lowercase canonical
// form. Non-canonical keys are the removal rule's business and sensitive
// keys are never flagged.
type QueryKeyCaseRule struct{}

// NewQueryKeyCaseRule creates a query-key-case rule.
func NewQueryKeyCaseRule() *QueryKeyCaseRule { return &QueryKeyCaseRule{} }

func (r *QueryKeyCaseRule) Name() string { return "query_key_case" }

func (r *QueryKeyCaseRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	var corrections []Correction
	corrected := make(map[string]struct{})

	for i, p := range req.Query {
		if p.Malformed {
			return Outcome{}, fmt.Errorf("query pair %d is not percent-decodable", i)
		}
		if d.IsSensitive(p.Key) {
			continue
		}
		spelling, ok := d.CanonicalSpelling(p.Key)
		if !ok || spelling == p.Key {
			continue
		}

		// One correction respells every occurrence of the key; a duplicate
		// only needs claiming once. Every pair is still examined so a
		// miscased later occurrence of a well-spelled key is not missed.
		if _, done := corrected[foldKey(p.Key)]; done {
			continue
		}
		corrected[foldKey(p.Key)] = struct{}{}

		corrections = append(corrections, CorrectQueryKey(p.Key, spelling))
	}

	return Outcome{Corrections: corrections}, nil
}

// QueryValueCaseRule checks that the value of every canonical, non-sensitive
// query key is in its canonical case form (lowercase). Sensitive keys' values
// are always passed through unchanged and never flagged.
type QueryValueCaseRule struct{}

// NewQueryValueCaseRule creates a query-value-case rule.
func NewQueryValueCaseRule() *QueryValueCaseRule { return &QueryValueCaseRule{} }

func (r *QueryValueCaseRule) Name() string { return "query_value_case" }

func (r *QueryValueCaseRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	var corrections []Correction

	// Per pair, not per key: a duplicated key may carry distinct values and
	// each occurrence normalizes its own value.
	for i, p := range req.Query {
		if p.Malformed {
			return Outcome{}, fmt.Errorf("query pair %d is not percent-decodable", i)
		}
		if d.IsSensitive(p.Key) || !d.IsCanonicalQuery(p.Key) {
			continue
		}

		lower := strings.ToLower(p.Value)
		if lower == p.Value {
			continue
		}

		corrections = append(corrections, CorrectQueryValue(i, lower))
	}

	return Outcome{Corrections: corrections}, nil
}

// QueryOrderRule checks that canonical query keys appear in the fixed order
// of the descriptor's canonical-query declaration. Reordering alone cannot be
// told apart from an equivalent request by most consumers, so this rule is
// always soft: it normalizes the published canonical form and never
// redirects.
//
// The canonical order places canonical keys first, by declaration ordinal,
// with non-canonical pairs after them; pairs that tie keep their original
// relative order.
type QueryOrderRule struct{}

// NewQueryOrderRule creates a query-ordering rule.
func NewQueryOrderRule() *QueryOrderRule { return &QueryOrderRule{} }

func (r *QueryOrderRule) Name() string { return "query_order" }

func (r *QueryOrderRule) softOnly() {}

func (r *QueryOrderRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	if len(req.Query) < 2 {
		return Outcome{}, nil
	}

	prev := -1
	for i, p := range req.Query {
		if p.Malformed {
			return Outcome{}, fmt.Errorf("query pair %d is not percent-decodable", i)
		}

		ord := d.CanonicalOrdinal(p.Key)
		if ord < 0 {
			ord = len(d.CanonicalQuery) // non-canonical pairs sort last
		}
		if ord < prev {
			return Outcome{Corrections: []Correction{ReorderQuery()}}, nil
		}
		prev = ord
	}

	return Outcome{}, nil
}

// QueryRemovalRule flags query keys absent from the canonical-query list.
// Dropping a parameter the client may rely on (referral tracking and the
// like) must not break the live request, so this rule is always soft: only
// the advertised canonical form omits the key. Sensitivity protects a key's
// value from normalization but does not make it canonical, so sensitive
// non-canonical keys are still dropped from the published form.
type QueryRemovalRule struct{}

// NewQueryRemovalRule creates a non-canonical-query-removal rule.
func NewQueryRemovalRule() *QueryRemovalRule { return &QueryRemovalRule{} }

func (r *QueryRemovalRule) Name() string { return "query_removal" }

func (r *QueryRemovalRule) softOnly() {}

func (r *QueryRemovalRule) Evaluate(req *Request, d *Descriptor) (Outcome, error) {
	var corrections []Correction
	seen := make(map[string]struct{})

	for i, p := range req.Query {
		if p.Malformed {
			return Outcome{}, fmt.Errorf("query pair %d is not percent-decodable", i)
		}
		if _, done := seen[foldKey(p.Key)]; done {
			continue
		}
		seen[foldKey(p.Key)] = struct{}{}

		if d.IsCanonicalQuery(p.Key) {
			continue
		}

		corrections = append(corrections, DropQueryKey(p.Key))
	}

	return Outcome{Corrections: corrections}, nil
}
