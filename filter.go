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

import "net/http"

// DescriptorSource yields the resolved descriptor for a request's matched
// endpoint. The host framework implements it on top of its own routing
// metadata; since resolution is pure, hosts are free to cache descriptors
// per endpoint.
type DescriptorSource interface {
	Descriptor(r *http.Request) (*Descriptor, error)
}

// DescriptorSourceFunc is a function adapter for DescriptorSource.
type DescriptorSourceFunc func(r *http.Request) (*Descriptor, error)

func (f DescriptorSourceFunc) Descriptor(r *http.Request) (*Descriptor, error) {
	return f(r)
}

// FilterOption configures the request filter returned by Engine.Wrap.
type FilterOption func(*filterConfig)

type filterConfig struct {
	redirectStatus int
	rejectedStatus int
	publishHref    bool
}

func defaultFilterConfig() *filterConfig {
	return &filterConfig{
		redirectStatus: http.StatusPermanentRedirect,
		publishHref:    true,
	}
}

// WithRedirectStatus sets the redirect status code. The default is 308
// Permanent Redirect, which preserves the request method; use 301 only when
// legacy clients require it. Any other status keeps the default and is
// reported to diagnostics when the filter is built - canonical redirects are
// permanent by definition.
func WithRedirectStatus(status int) FilterOption {
	return func(c *filterConfig) {
		if status == http.StatusMovedPermanently || status == http.StatusPermanentRedirect {
			c.redirectStatus = status
			return
		}
		c.rejectedStatus = status
	}
}

// WithHrefPublishing controls whether the filter stores the canonical href
// in the request context for Href. Enabled by default; disable it for hosts
// that only want redirects.
func WithHrefPublishing(enable bool) FilterOption {
	return func(c *filterConfig) {
		c.publishHref = enable
	}
}

// Wrap returns the request filter hook as an http.Handler: it evaluates each
// inbound request before next sees it, short-circuits redirect decisions
// with a permanent redirect, and publishes the canonical href into the
// request context for the rendering layer (see Href).
//
// Failures stay invisible to the end user: if the descriptor source errors,
// the request passes through untouched with its own URL as the href.
//
// Example:
//
//	registry := canonical.NewRegistry()
//	registry.MustRegister("recommended", ...)
//	engine := canonical.New(registry, canonical.WithLogger(slog.Default()))
//
//	handler := engine.Wrap(mux, canonical.DescriptorSourceFunc(resolve))
//	http.ListenAndServe(":8080", handler)
func (e *Engine) Wrap(next http.Handler, source DescriptorSource, opts ...FilterOption) http.Handler {
	cfg := defaultFilterConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rejectedStatus != 0 {
		e.emit(DiagnosticEvent{
			Kind:    DiagOptionRejected,
			Message: "redirect status must be 301 or 308, default kept",
			Fields: map[string]any{
				"status":  cfg.rejectedStatus,
				"default": cfg.redirectStatus,
			},
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := SnapshotRequest(r)

		d, err := source.Descriptor(r)
		if err != nil {
			e.emit(DiagnosticEvent{
				Kind:    DiagResolveFailed,
				Message: "descriptor resolution failed, request passed through",
				Fields:  map[string]any{"error": err.Error()},
			})
			if cfg.publishHref {
				r = r.WithContext(withHref(r.Context(), req.URL()))
			}
			next.ServeHTTP(w, r)
			return
		}

		decision := e.Evaluate(r.Context(), req, d)
		if decision.Redirects() {
			redirectPermanent(w, decision.Target, cfg.redirectStatus)
			return
		}

		if cfg.publishHref {
			r = r.WithContext(withHref(r.Context(), decision.Href))
		}
		next.ServeHTTP(w, r)
	})
}

// redirectPermanent translates a redirect decision into a permanent-redirect
// response. Pure translation: all policy lives in the engine.
func redirectPermanent(w http.ResponseWriter, target string, status int) {
	w.Header().Set("Location", target)
	w.WriteHeader(status)
}
