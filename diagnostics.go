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

import "log/slog"

// DiagnosticEvent represents a canonicalization anomaly. These are
// informational events: the engine fails open on every one of them, so a
// missed event costs at worst an uncorrected canonical hint, never a broken
// request.
//
// Diagnostic events are optional - the engine functions correctly whether
// they are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// Request-time diagnostics
	DiagRuleFailure         DiagnosticKind = "rule_evaluation_failed"
	DiagDescriptorInvalid   DiagnosticKind = "descriptor_invalid"
	DiagCorrectionDiscarded DiagnosticKind = "correction_discarded"
	DiagResolveFailed       DiagnosticKind = "descriptor_resolve_failed"

	// Startup diagnostics
	DiagRulesetRegistered DiagnosticKind = "ruleset_registered"
	DiagOptionRejected    DiagnosticKind = "filter_option_rejected"
)

// DiagnosticHandler receives diagnostic events from the engine.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// This interface is optional - if not provided, diagnostics are silently
// dropped. The engine's decisions are unchanged whether diagnostics are
// collected or not.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := canonical.DiagnosticHandlerFunc(func(e canonical.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	engine := canonical.New(registry, canonical.WithDiagnostics(handler))
//
// Example with metrics:
//
//	handler := canonical.DiagnosticHandlerFunc(func(e canonical.DiagnosticEvent) {
//	    metrics.Increment("canonical.diagnostics", "kind", string(e.Kind))
//	})
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// SlogDiagnostics returns a DiagnosticHandler that logs events to the given
// slog.Logger at warn level (info for startup events). A nil logger yields a
// handler that discards all events.
func SlogDiagnostics(logger *slog.Logger) DiagnosticHandler {
	if logger == nil {
		return DiagnosticHandlerFunc(func(DiagnosticEvent) {})
	}

	return DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		args := make([]any, 0, 2+2*len(e.Fields))
		args = append(args, "kind", string(e.Kind))
		for k, v := range e.Fields {
			args = append(args, k, v)
		}

		if e.Kind == DiagRulesetRegistered {
			logger.Info(e.Message, args...)
			return
		}
		logger.Warn(e.Message, args...)
	})
}
