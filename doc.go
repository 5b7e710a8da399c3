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

// Package canonical provides a rule-driven URL canonicalization decision
// engine for web servers: per request it decides whether a resource
// identifier variant must be permanently redirected to its canonical form or
// merely annotated as non-canonical for search-index consolidation, without
// altering application behavior.
//
// The engine classifies and corrects a single request's identifier. It does
// not crawl, serve HTTP, persist configuration, or score rankings; routing,
// attribute extraction, and view rendering stay with the host framework.
//
// # Architecture
//
//   - Rule: one canonicalization check reporting what a URL component should
//     be (origin, path case, slashes, default route values, query key/value
//     case, query ordering, non-canonical query removal)
//   - Ruleset: an immutable, named, ordered list of rules, each tagged hard
//     (redirect-worthy) or soft (canonical-hint-only)
//   - Registry: rulesets by name, built once at startup, read-only after
//   - Descriptor: per-endpoint metadata merged from two declaration scopes
//   - Engine: evaluates a ruleset against a request snapshot and returns one
//     Decision - Unchanged, Redirect(target), or MetaOnly(href)
//
// # Quick Start
//
//	registry := canonical.NewRegistry()
//	registry.MustRegister("recommended",
//	    canonical.Hard(originRule),
//	    canonical.Hard(canonical.NewSlashRule()),
//	    canonical.Soft(canonical.NewQueryOrderRule()),
//	    canonical.Soft(canonical.NewQueryRemovalRule()),
//	)
//
//	engine := canonical.New(registry, canonical.WithLogger(slog.Default()))
//	handler := engine.Wrap(mux, canonical.DescriptorSourceFunc(resolve))
//	http.ListenAndServe(":8080", handler)
//
// Or use the stock composition:
//
//	registry.RegisterRecommended("https://www.example.com", canonical.LowerSlugger())
//
// # Decisions
//
// Any hard violation produces a 308 permanent redirect whose target reflects
// hard corrections only; soft normalization never inflates a redirect. With
// only soft violations the corrected form is published as the canonical href
// for the rendering layer's <link rel="canonical"> tag, retrievable with
// Href(ctx). An already-canonical request yields Unchanged with its own URL
// as the href.
//
// # Failure Model
//
// Canonicalization never breaks a page. Unusable descriptors and rules that
// cannot parse their input fail open - the request proceeds as if canonical -
// and are reported through the optional DiagnosticHandler. Configuration
// errors (duplicate ruleset names, malformed composition) surface at startup
// and should abort it.
//
// # Concurrency
//
// Registries, rulesets, and engines are immutable after startup and safe for
// unlimited concurrent use without locking. Evaluation is pure, CPU-bound,
// and allocation-only; per-request inputs are never shared.
package canonical
