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
	"context"
	"sort"
	"strconv"
	"time"
)

// DecisionKind tags the three possible outcomes of evaluating a request.
type DecisionKind int

const (
	// DecisionUnchanged means the request is already canonical.
	DecisionUnchanged DecisionKind = iota

	// DecisionRedirect means a hard rule fired; the request must be
	// permanently redirected to Target.
	DecisionRedirect

	// DecisionMetaOnly means only soft rules fired; Href carries the
	// canonical form for the rendering layer's link tag.
	DecisionMetaOnly
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionUnchanged:
		return "unchanged"
	case DecisionRedirect:
		return "redirect"
	case DecisionMetaOnly:
		return "meta_only"
	default:
		return "decision(" + strconv.Itoa(int(k)) + ")"
	}
}

// Decision is the engine's verdict on one request.
//
// Redirect always supersedes MetaOnly: once a hard violation exists the
// response will not render a page, so soft corrections are not folded into
// Target - a redirect reflects hard corrections only, keeping redirects no
// more aggressive than they must be.
//
// Href is set for both Unchanged and MetaOnly decisions; for Unchanged it
// equals the request's own URL, so hosts may publish the canonical link tag
// unconditionally.
type Decision struct {
	Kind   DecisionKind
	Target string // redirect target, set only for DecisionRedirect
	Href   string // canonical href, set for the other two kinds
}

// Redirects reports whether the decision short-circuits the request.
func (d Decision) Redirects() bool {
	return d.Kind == DecisionRedirect
}

// Engine evaluates rulesets against request snapshots. It holds only
// immutable configuration and is safe for concurrent use by any number of
// requests; every Evaluate call is an independent, pure, CPU-bound
// computation.
type Engine struct {
	registry      *Registry
	diagnostics   DiagnosticHandler
	observability ObservabilityRecorder
}

// New creates an Engine over a registry built at startup.
func New(registry *Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// violation is one correction attributed to the rule that produced it.
type violation struct {
	rule       string
	correction Correction
}

// Evaluate runs the descriptor's ruleset against the request and returns a
// single Decision.
//
// Failure handling is uniformly fail-open: an unusable descriptor yields
// Unchanged, and a rule that cannot parse its input is skipped as if it
// passed. Both are reported to diagnostics and neither is ever surfaced to
// the end user; the worst case is a missed redirect or canonical hint.
func (e *Engine) Evaluate(ctx context.Context, req *Request, d *Descriptor) Decision {
	start := time.Now()

	rs, err := e.usableRuleset(d)
	if err != nil {
		e.emit(DiagnosticEvent{
			Kind:    DiagDescriptorInvalid,
			Message: "descriptor unusable, request treated as canonical",
			Fields:  map[string]any{"error": err.Error()},
		})
		return e.finish(ctx, start, rs, Decision{Kind: DecisionUnchanged, Href: req.URL()})
	}

	var hard, soft []violation
	for _, entry := range rs.entries {
		outcome, err := entry.Rule.Evaluate(req, d)
		if err != nil {
			e.emit(DiagnosticEvent{
				Kind:    DiagRuleFailure,
				Message: "rule could not parse request, treated as pass",
				Fields: map[string]any{
					"ruleset": rs.name,
					"rule":    entry.Rule.Name(),
					"error":   err.Error(),
				},
			})
			continue
		}

		for _, c := range outcome.Corrections {
			v := violation{rule: entry.Rule.Name(), correction: c}
			if entry.Severity == SeverityHard {
				hard = append(hard, v)
			} else {
				soft = append(soft, v)
			}
		}
	}

	switch {
	case len(hard) > 0:
		target := e.compose(req, d, rs.name, hard)
		return e.finish(ctx, start, rs, Decision{Kind: DecisionRedirect, Target: target})
	case len(soft) > 0:
		href := e.compose(req, d, rs.name, soft)
		return e.finish(ctx, start, rs, Decision{Kind: DecisionMetaOnly, Href: href})
	default:
		return e.finish(ctx, start, rs, Decision{Kind: DecisionUnchanged, Href: req.URL()})
	}
}

// usableRuleset validates the descriptor against the registry and returns
// its ruleset.
func (e *Engine) usableRuleset(d *Descriptor) (*Ruleset, error) {
	if d == nil || d.RulesetName == "" {
		return nil, newError("", "evaluate", ErrNoRuleset)
	}

	for _, k := range d.CanonicalQuery {
		if k == "" {
			return nil, newError(d.RulesetName, "evaluate", ErrEmptyDeclarationKey)
		}
	}
	for _, k := range d.Sensitive {
		if k == "" {
			return nil, newError(d.RulesetName, "evaluate", ErrEmptyDeclarationKey)
		}
	}

	rs, ok := e.registry.Lookup(d.RulesetName)
	if !ok {
		return nil, newError(d.RulesetName, "evaluate", ErrRulesetNotFound)
	}
	return rs, nil
}

// compose applies one severity class of corrections to a working copy of the
// request and returns the resulting URL. The first rule (in ruleset order)
// to correct a component claims it; later corrections to a claimed component
// are discarded and reported to diagnostics.
func (e *Engine) compose(req *Request, d *Descriptor, ruleset string, violations []violation) string {
	state := newURLState(req, d)

	claimed := make(map[Component]string, len(violations))
	for _, v := range violations {
		if owner, taken := claimed[v.correction.Component]; taken {
			e.emit(DiagnosticEvent{
				Kind:    DiagCorrectionDiscarded,
				Message: "component already corrected by an earlier rule",
				Fields: map[string]any{
					"ruleset":   ruleset,
					"component": v.correction.Component.String(),
					"rule":      v.rule,
					"winner":    owner,
				},
			})
			continue
		}
		claimed[v.correction.Component] = v.rule
		v.correction.apply(state)
	}

	return state.url()
}

// finish records observability for the decision and returns it.
func (e *Engine) finish(ctx context.Context, start time.Time, rs *Ruleset, dec Decision) Decision {
	if e.observability != nil {
		name := ""
		if rs != nil {
			name = rs.name
		}
		e.observability.RecordDecision(ctx, DecisionInfo{
			Ruleset:  name,
			Kind:     dec.Kind,
			Duration: time.Since(start),
		})
	}
	return dec
}

func (e *Engine) emit(event DiagnosticEvent) {
	if e.diagnostics != nil {
		e.diagnostics.OnDiagnostic(event)
	}
}

// urlState is the engine's working copy of a request while corrections are
// applied. Omissions and drops are markers rather than in-place removals so
// segment indices and query positions stay stable for every correction.
type urlState struct {
	scheme        string
	host          string
	segments      []segmentState
	trailingSlash bool
	query         []queryState
	reorder       bool

	desc *Descriptor
}

type segmentState struct {
	value string
	omit  bool
}

type queryState struct {
	key       string
	value     string
	malformed bool
	drop      bool
}

func newURLState(req *Request, d *Descriptor) *urlState {
	segments := make([]segmentState, len(req.Segments))
	for i, seg := range req.Segments {
		segments[i] = segmentState{value: seg}
	}

	query := make([]queryState, len(req.Query))
	for i, p := range req.Query {
		query[i] = queryState{key: p.Key, value: p.Value, malformed: p.Malformed}
	}

	return &urlState{
		scheme:        req.Scheme,
		host:          req.Host,
		segments:      segments,
		trailingSlash: req.TrailingSlash,
		query:         query,
		desc:          d,
	}
}

// url composes the corrected URL: omitted segments and dropped query pairs
// disappear, and a pending reorder sorts canonical keys by declaration
// ordinal with non-canonical pairs trailing in their original relative
// order.
func (u *urlState) url() string {
	segments := make([]string, 0, len(u.segments))
	for _, s := range u.segments {
		if !s.omit {
			segments = append(segments, s.value)
		}
	}
	trailing := u.trailingSlash
	if len(segments) == 0 {
		trailing = false
	}

	query := make([]QueryParam, 0, len(u.query))
	for _, q := range u.query {
		if !q.drop {
			query = append(query, QueryParam{Key: q.key, Value: q.value, Malformed: q.malformed})
		}
	}

	if u.reorder && len(query) > 1 {
		ordinal := func(p QueryParam) int {
			if ord := u.desc.CanonicalOrdinal(p.Key); ord >= 0 {
				return ord
			}
			return len(u.desc.CanonicalQuery)
		}
		sort.SliceStable(query, func(i, j int) bool {
			return ordinal(query[i]) < ordinal(query[j])
		})
	}

	return composeURL(u.scheme, u.host, segments, trailing, query)
}
