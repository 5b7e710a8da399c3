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

import "sort"

// Entry pairs a rule with the severity its violations carry in a ruleset.
type Entry struct {
	Rule     Rule
	Severity Severity
}

// Hard is shorthand for an Entry with SeverityHard.
func Hard(r Rule) Entry { return Entry{Rule: r, Severity: SeverityHard} }

// Soft is shorthand for an Entry with SeveritySoft.
func Soft(r Rule) Entry { return Entry{Rule: r, Severity: SeveritySoft} }

// Ruleset is an immutable, named, ordered list of rules. Order is the
// engine's tie-break: when two rules would correct the same URL component
// differently, the first one in this list wins.
type Ruleset struct {
	name    string
	entries []Entry
}

// Name returns the ruleset's registry name.
func (rs *Ruleset) Name() string { return rs.name }

// Entries returns a copy of the ruleset's ordered entries.
func (rs *Ruleset) Entries() []Entry {
	return append([]Entry(nil), rs.entries...)
}

// Len returns the number of rules in the ruleset.
func (rs *Ruleset) Len() int { return len(rs.entries) }

// Registry holds named rulesets. It is built once at process startup,
// read-only afterwards, and safe to share across any number of concurrent
// requests without locking. Pass it by reference into the request path
// rather than through global state.
type Registry struct {
	rulesets map[string]*Ruleset

	diagnostics DiagnosticHandler
}

// NewRegistry creates an empty ruleset registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{rulesets: make(map[string]*Ruleset)}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryDiagnostics sets a handler for registration diagnostics.
func WithRegistryDiagnostics(handler DiagnosticHandler) RegistryOption {
	return func(reg *Registry) {
		reg.diagnostics = handler
	}
}

// Register adds a named ruleset. The entry order given here is the
// evaluation and tie-break order. Registration fails with an error wrapping
// ErrConfiguration on a duplicate or empty name, a nil rule, or a hard
// severity on a rule that can only be soft (query ordering and non-canonical
// query removal).
//
// Register is not safe for concurrent use; call it during startup only.
func (reg *Registry) Register(name string, entries ...Entry) (*Ruleset, error) {
	if name == "" {
		return nil, newError(name, "register", ErrEmptyRulesetName)
	}
	if _, dup := reg.rulesets[name]; dup {
		return nil, newError(name, "register", ErrDuplicateRuleset)
	}

	for _, e := range entries {
		if e.Rule == nil {
			return nil, newError(name, "register", ErrNilRule)
		}
		if _, soft := e.Rule.(softOnly); soft && e.Severity == SeverityHard {
			return nil, newRuleError(name, e.Rule.Name(), "register", ErrSeverityNotAllowed)
		}
	}

	rs := &Ruleset{name: name, entries: append([]Entry(nil), entries...)}
	reg.rulesets[name] = rs

	if reg.diagnostics != nil {
		reg.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    DiagRulesetRegistered,
			Message: "ruleset registered",
			Fields:  map[string]any{"ruleset": name, "rules": len(entries)},
		})
	}

	return rs, nil
}

// MustRegister is like Register but panics on error. Use it for static
// startup wiring where a bad ruleset should abort the process.
func (reg *Registry) MustRegister(name string, entries ...Entry) *Ruleset {
	rs, err := reg.Register(name, entries...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Lookup returns the ruleset registered under name.
func (reg *Registry) Lookup(name string) (*Ruleset, bool) {
	rs, ok := reg.rulesets[name]
	return rs, ok
}

// Has reports whether a ruleset is registered under name.
func (reg *Registry) Has(name string) bool {
	_, ok := reg.rulesets[name]
	return ok
}

// Names returns the registered ruleset names in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.rulesets))
	for name := range reg.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecommendedRulesetName is the name RegisterRecommended registers under.
const RecommendedRulesetName = "recommended"

// RegisterRecommended registers the stock ruleset: hard origin, slash,
// default-value and path-case rules, soft query key/value case, ordering and
// removal rules, in that order. The order puts default-value omission before
// path-case so an omitted segment's casing is never separately corrected.
//
// origin is the canonical scheme://host; slugger may be nil for the identity
// slugger (no path-case enforcement).
func (reg *Registry) RegisterRecommended(origin string, slugger Slugger) (*Ruleset, error) {
	originRule, err := NewOriginRule(origin)
	if err != nil {
		return nil, err
	}

	return reg.Register(RecommendedRulesetName,
		Hard(originRule),
		Hard(NewSlashRule()),
		Hard(NewDefaultValueRule()),
		Hard(NewPathCaseRule(slugger)),
		Soft(NewQueryKeyCaseRule()),
		Soft(NewQueryValueCaseRule()),
		Soft(NewQueryOrderRule()),
		Soft(NewQueryRemovalRule()),
	)
}
