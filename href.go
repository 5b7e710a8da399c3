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

import "context"

type hrefContextKey struct{}

// withHref stores the canonical href computed during the filter hook in the
// request context.
func withHref(ctx context.Context, href string) context.Context {
	return context.WithValue(ctx, hrefContextKey{}, href)
}

// Href retrieves the canonical href computed for the current request.
// The rendering layer calls it when composing response markup:
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    if href := canonical.Href(r.Context()); href != "" {
//	        fmt.Fprintf(w, `<link rel="canonical" href=%q>`, href)
//	    }
//	}
//
// It returns an empty string when the request did not pass through the
// filter or href publishing is disabled. For requests that were already
// canonical the href equals the request's own URL, so the tag may be emitted
// unconditionally.
func Href(ctx context.Context) string {
	if href, ok := ctx.Value(hrefContextKey{}).(string); ok {
		return href
	}
	return ""
}
