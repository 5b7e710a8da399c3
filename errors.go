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
	"errors"
	"fmt"
)

// Error taxonomy.
//
// ErrConfiguration and ErrInvalidDescriptor are umbrella sentinels: every
// specific error below wraps one of them, so callers can classify with
// errors.Is without matching individual causes.
//
//   - ErrConfiguration surfaces at startup (registration, ruleset
//     composition) and should abort startup.
//   - ErrInvalidDescriptor surfaces at request time; the engine fails open
//     (Unchanged) and reports it to diagnostics, never to the end user.
var (
	// ErrConfiguration indicates an invalid ruleset or registry setup.
	ErrConfiguration = errors.New("invalid canonicalization configuration")

	// ErrInvalidDescriptor indicates an unusable per-endpoint descriptor.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrDuplicateRuleset indicates a ruleset name registered twice.
	ErrDuplicateRuleset = fmt.Errorf("%w: duplicate ruleset name", ErrConfiguration)

	// ErrEmptyRulesetName indicates registration under an empty name.
	ErrEmptyRulesetName = fmt.Errorf("%w: ruleset name must not be empty", ErrConfiguration)

	// ErrNilRule indicates a nil rule in a ruleset's entries.
	ErrNilRule = fmt.Errorf("%w: ruleset entry has nil rule", ErrConfiguration)

	// ErrSeverityNotAllowed indicates a hard severity on a rule that can
	// only ever be soft (query ordering, non-canonical query removal).
	ErrSeverityNotAllowed = fmt.Errorf("%w: rule cannot be registered as hard", ErrConfiguration)

	// ErrInvalidOrigin indicates a canonical origin that is not an
	// absolute scheme://host URL.
	ErrInvalidOrigin = fmt.Errorf("%w: canonical origin must be scheme://host", ErrConfiguration)

	// ErrNoRuleset indicates that neither declaration scope named a ruleset.
	ErrNoRuleset = fmt.Errorf("%w: no ruleset declared at either scope", ErrConfiguration)

	// ErrRulesetNotFound indicates a resolved ruleset name unknown to the
	// registry.
	ErrRulesetNotFound = fmt.Errorf("%w: ruleset not registered", ErrInvalidDescriptor)

	// ErrEmptyDeclarationKey indicates an empty canonical-query or
	// sensitive key in a declaration.
	ErrEmptyDeclarationKey = fmt.Errorf("%w: declared key must not be empty", ErrInvalidDescriptor)
)

// Error carries the context of a canonicalization failure: which ruleset and
// component were involved and what was being done at the time. It wraps the
// underlying cause so errors.Is still classifies against the sentinels above.
type Error struct {
	Ruleset   string // ruleset name, if known
	Rule      string // rule name, if the failure is rule-local
	Operation string // "register", "resolve", "evaluate"
	Err       error
}

// Error returns a formatted message including whatever context is set.
func (e *Error) Error() string {
	switch {
	case e.Ruleset != "" && e.Rule != "":
		return fmt.Sprintf("canonical: %s %s/%s: %v", e.Operation, e.Ruleset, e.Rule, e.Err)
	case e.Ruleset != "":
		return fmt.Sprintf("canonical: %s %s: %v", e.Operation, e.Ruleset, e.Err)
	default:
		return fmt.Sprintf("canonical: %s: %v", e.Operation, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with ruleset context.
func newError(ruleset, operation string, err error) *Error {
	return &Error{Ruleset: ruleset, Operation: operation, Err: err}
}

// newRuleError creates an Error with rule-local context.
func newRuleError(ruleset, rule, operation string, err error) *Error {
	return &Error{Ruleset: ruleset, Rule: rule, Operation: operation, Err: err}
}
