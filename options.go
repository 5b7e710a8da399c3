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

// Option configures an Engine.
type Option func(*Engine)

// WithDiagnostics sets a diagnostic handler for the engine.
//
// Diagnostic events report fail-open situations: rules that could not parse
// their input, unusable descriptors, and corrections discarded by the
// component tie-break. The engine decides identically whether diagnostics
// are collected or not.
//
// Example with logging:
//
//	handler := canonical.DiagnosticHandlerFunc(func(e canonical.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	engine := canonical.New(registry, canonical.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(e *Engine) {
		e.diagnostics = handler
	}
}

// WithLogger routes diagnostics to a slog.Logger. It is shorthand for
// WithDiagnostics(SlogDiagnostics(logger)).
//
// Example:
//
//	engine := canonical.New(registry, canonical.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.diagnostics = SlogDiagnostics(logger)
	}
}

// WithObservability sets a recorder for decision metrics and trace events.
//
// Example:
//
//	rec, err := canonical.NewRecorder(canonical.WithPrometheus())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := canonical.New(registry, canonical.WithObservability(rec))
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(e *Engine) {
		e.observability = recorder
	}
}
