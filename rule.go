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

import "strconv"

// Severity classifies how a rule's violation is acted on.
type Severity int

const (
	// SeveritySoft corrects the violation only in the published canonical
	// href; the live request is served unchanged.
	SeveritySoft Severity = iota

	// SeverityHard corrects the violation with a permanent redirect.
	SeverityHard
)

// String returns the severity name for diagnostics and metrics labels.
func (s Severity) String() string {
	switch s {
	case SeverityHard:
		return "hard"
	case SeveritySoft:
		return "soft"
	default:
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// Rule is a single canonicalization check. Implementations inspect the
// request snapshot against the resolved descriptor and report what the
// corresponding URL component should be. A Rule never mutates the request.
//
// A non-nil error means the rule could not parse its input (malformed
// percent-encoding, non-UTF-8 bytes). The engine treats such a rule as
// passing, reports the failure to diagnostics, and continues with the
// remaining rules; evaluation failures never block a request.
//
// New rules only need to implement this interface; see the Correct* and
// Omit*/Drop* constructors for expressing corrections.
type Rule interface {
	// Name identifies the rule in diagnostics and metrics.
	Name() string

	// Evaluate checks the request and returns the corrections, if any,
	// that would bring it into canonical form.
	Evaluate(req *Request, d *Descriptor) (Outcome, error)
}

// Outcome is the result of evaluating one rule: a pass, or one or more
// corrections describing the canonical form of the violated components.
type Outcome struct {
	Corrections []Correction
}

// Pass reports whether the rule found nothing to correct.
func (o Outcome) Pass() bool {
	return len(o.Corrections) == 0
}

// ComponentKind identifies the class of URL component a correction touches.
type ComponentKind int

const (
	// ComponentOrigin is the scheme and host, corrected as one unit.
	ComponentOrigin ComponentKind = iota

	// ComponentSegment is a single path segment, keyed by its index.
	ComponentSegment

	// ComponentPathShape is the separator structure of the path: duplicate
	// and trailing slashes.
	ComponentPathShape

	// ComponentQueryKey is the spelling of one query key, keyed by the
	// key's lowercase form.
	ComponentQueryKey

	// ComponentQueryValue is the value of one query key, keyed likewise.
	ComponentQueryValue

	// ComponentQueryOrder is the relative ordering of query pairs.
	ComponentQueryOrder
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentOrigin:
		return "origin"
	case ComponentSegment:
		return "segment"
	case ComponentPathShape:
		return "path_shape"
	case ComponentQueryKey:
		return "query_key"
	case ComponentQueryValue:
		return "query_value"
	case ComponentQueryOrder:
		return "query_order"
	default:
		return "component(" + strconv.Itoa(int(k)) + ")"
	}
}

// Component addresses one correctable part of a URL. Components are the unit
// of the engine's tie-break: when two rules would correct the same component
// differently, the first rule in ruleset order wins and later corrections to
// that component are discarded.
type Component struct {
	Kind ComponentKind

	// Key narrows the component within its kind: the decimal segment index
	// for ComponentSegment, the lowercase query key for ComponentQueryKey,
	// the decimal pair index for ComponentQueryValue, empty otherwise.
	Key string
}

func (c Component) String() string {
	if c.Key == "" {
		return c.Kind.String()
	}
	return c.Kind.String() + ":" + c.Key
}

// Correction describes what one URL component should be. Corrections are
// created through the constructors below and applied by the engine to a
// working copy of the request when composing a redirect target or canonical
// href.
type Correction struct {
	Component Component

	apply func(*urlState)
}

// CorrectOrigin replaces the scheme and host with the canonical origin.
func CorrectOrigin(scheme, host string) Correction {
	return Correction{
		Component: Component{Kind: ComponentOrigin},
		apply: func(u *urlState) {
			u.scheme = scheme
			u.host = host
		},
	}
}

// CorrectSegment replaces the path segment at index with its canonical form.
func CorrectSegment(index int, value string) Correction {
	return Correction{
		Component: Component{Kind: ComponentSegment, Key: strconv.Itoa(index)},
		apply: func(u *urlState) {
			if index >= 0 && index < len(u.segments) {
				u.segments[index].value = value
			}
		},
	}
}

// OmitSegment drops the path segment at index from the canonical form.
func OmitSegment(index int) Correction {
	return Correction{
		Component: Component{Kind: ComponentSegment, Key: strconv.Itoa(index)},
		apply: func(u *urlState) {
			if index >= 0 && index < len(u.segments) {
				u.segments[index].omit = true
			}
		},
	}
}

// CollapseSlashes removes duplicate path separators and any non-root
// trailing slash.
func CollapseSlashes() Correction {
	return Correction{
		Component: Component{Kind: ComponentPathShape},
		apply: func(u *urlState) {
			for i := range u.segments {
				if u.segments[i].value == "" {
					u.segments[i].omit = true
				}
			}
			u.trailingSlash = false
		},
	}
}

// CorrectQueryKey respells every occurrence of the query key to its
// canonical form. Matching is case-insensitive on the current spelling.
func CorrectQueryKey(key, canonical string) Correction {
	lower := foldKey(key)
	return Correction{
		Component: Component{Kind: ComponentQueryKey, Key: lower},
		apply: func(u *urlState) {
			for i := range u.query {
				if foldKey(u.query[i].key) == lower {
					u.query[i].key = canonical
				}
			}
		},
	}
}

// CorrectQueryValue replaces the value of the query pair at index with its
// canonical form. Values are addressed per pair, not per key: a duplicated
// key may carry distinct values and each occurrence normalizes independently.
func CorrectQueryValue(index int, canonical string) Correction {
	return Correction{
		Component: Component{Kind: ComponentQueryValue, Key: strconv.Itoa(index)},
		apply: func(u *urlState) {
			if index >= 0 && index < len(u.query) {
				u.query[index].value = canonical
			}
		},
	}
}

// DropQueryKey removes every occurrence of the query key from the canonical
// form.
func DropQueryKey(key string) Correction {
	lower := foldKey(key)
	return Correction{
		Component: Component{Kind: ComponentQueryKey, Key: lower},
		apply: func(u *urlState) {
			for i := range u.query {
				if foldKey(u.query[i].key) == lower {
					u.query[i].drop = true
				}
			}
		},
	}
}

// ReorderQuery marks the query for reordering into the descriptor's canonical
// key order when the URL is composed.
func ReorderQuery() Correction {
	return Correction{
		Component: Component{Kind: ComponentQueryOrder},
		apply: func(u *urlState) {
			u.reorder = true
		},
	}
}
