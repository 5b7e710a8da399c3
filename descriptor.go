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
	"strings"

	"dario.cat/mergo"
)

// Declaration is the raw per-endpoint canonicalization metadata extracted by
// the host's attribute system at one scope (controller-level or action-level).
// The engine only consumes these already-extracted tuples; how the host
// attaches them to endpoints is its own business.
type Declaration struct {
	// RulesetName references a registered ruleset. The nested scope's
	// value wins over the enclosing scope's when both are set.
	RulesetName string

	// CanonicalQuery lists the query keys that affect page content and are
	// therefore retained in the canonical form. Order matters: it defines
	// the canonical ordering of query pairs. Merged by union, enclosing
	// keys first.
	CanonicalQuery []string

	// Sensitive lists parameter names (query keys or path slot names)
	// whose casing and value must never be altered by normalization.
	// Sensitivity does not make a query key canonical; the two properties
	// are orthogonal. Merged by union.
	Sensitive []string
}

// RouteMeta is the host router's structural metadata for the matched
// endpoint: the names of its path slots and their configured default values,
// both positional. Unlike declarations it has a single source and is never
// merged.
type RouteMeta struct {
	// Slots names each path segment position (e.g. ["controller" "action"]).
	// Sensitive path segments are matched against these names.
	Slots []string

	// Defaults holds the configured default value per slot, "" for slots
	// without one. A trailing run of segments equal to their defaults is
	// redundant and omitted from the canonical form.
	Defaults []string
}

// Descriptor is the effective canonicalization metadata for one endpoint,
// produced by merging its two declaration scopes and attaching the route
// metadata. Descriptors are resolved once per request from static endpoint
// metadata; resolution is pure, so hosts may cache the result per endpoint.
type Descriptor struct {
	RulesetName    string
	CanonicalQuery []string
	Sensitive      []string
	Route          RouteMeta
}

// ResolveDescriptor merges an enclosing-scope and nested-scope declaration
// into one effective Descriptor and validates it against the registry.
//
// Merge semantics:
//   - RulesetName: nested wins when set, enclosing otherwise; neither set is
//     a configuration error.
//   - CanonicalQuery, Sensitive: set union, enclosing keys first, duplicates
//     (case-insensitive) collapsed to the first spelling.
//
// The merge is pure and order-independent in the sets it unions. A resolved
// ruleset name missing from the registry or an empty declared key fails with
// an error wrapping ErrInvalidDescriptor; the engine fails open on those at
// request time.
func ResolveDescriptor(reg *Registry, enclosing, nested Declaration, route RouteMeta) (*Descriptor, error) {
	merged := Declaration{
		RulesetName:    enclosing.RulesetName,
		CanonicalQuery: append([]string(nil), enclosing.CanonicalQuery...),
		Sensitive:      append([]string(nil), enclosing.Sensitive...),
	}

	// Non-zero nested fields override, slices append (union order is
	// enclosing-then-nested).
	if err := mergo.Merge(&merged, nested, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return nil, newError(merged.RulesetName, "resolve", err)
	}

	if merged.RulesetName == "" {
		return nil, newError("", "resolve", ErrNoRuleset)
	}
	if reg == nil || !reg.Has(merged.RulesetName) {
		return nil, newError(merged.RulesetName, "resolve", ErrRulesetNotFound)
	}

	canonicalQuery, err := dedupeKeys(merged.CanonicalQuery)
	if err != nil {
		return nil, newError(merged.RulesetName, "resolve", err)
	}
	sensitive, err := dedupeKeys(merged.Sensitive)
	if err != nil {
		return nil, newError(merged.RulesetName, "resolve", err)
	}

	return &Descriptor{
		RulesetName:    merged.RulesetName,
		CanonicalQuery: canonicalQuery,
		Sensitive:      sensitive,
		Route:          route,
	}, nil
}

// IsCanonicalQuery reports whether the query key is declared to affect
// content. Matching is case-insensitive so a miscased key still counts as
// canonical (and gets its spelling corrected rather than dropped).
func (d *Descriptor) IsCanonicalQuery(key string) bool {
	for _, k := range d.CanonicalQuery {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// CanonicalSpelling returns the declared spelling of a canonical query key
// and whether the key is canonical at all.
func (d *Descriptor) CanonicalSpelling(key string) (string, bool) {
	for _, k := range d.CanonicalQuery {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

// CanonicalOrdinal returns the key's position in the canonical query order,
// or -1 for non-canonical keys.
func (d *Descriptor) CanonicalOrdinal(key string) int {
	for i, k := range d.CanonicalQuery {
		if strings.EqualFold(k, key) {
			return i
		}
	}
	return -1
}

// IsSensitive reports whether the parameter name (query key or path slot
// name) is declared sensitive. Matching is case-insensitive.
func (d *Descriptor) IsSensitive(name string) bool {
	for _, k := range d.Sensitive {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// SlotName returns the route slot name for a segment index, or "" when the
// route declares no slot there.
func (d *Descriptor) SlotName(index int) string {
	if index >= 0 && index < len(d.Route.Slots) {
		return d.Route.Slots[index]
	}
	return ""
}

// DefaultFor returns the configured default value for a segment index and
// whether one exists.
func (d *Descriptor) DefaultFor(index int) (string, bool) {
	if index >= 0 && index < len(d.Route.Defaults) && d.Route.Defaults[index] != "" {
		return d.Route.Defaults[index], true
	}
	return "", false
}

// foldKey lowercases a key for case-insensitive component addressing.
func foldKey(key string) string {
	return strings.ToLower(key)
}

// dedupeKeys collapses case-insensitive duplicates, keeping the first
// spelling and the first-occurrence order. An empty key is structurally
// invalid.
func dedupeKeys(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			return nil, ErrEmptyDeclarationKey
		}
		folded := foldKey(k)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, k)
	}

	return out, nil
}
