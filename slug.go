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

import "strings"

// Slugger computes the canonical textual form of a path segment. The
// path-case rule flags any non-sensitive segment whose current form differs
// from what its Slugger returns.
//
// Implementations must be pure: same input, same output, no side effects.
type Slugger interface {
	Slug(segment string) string
}

// SluggerFunc is a function adapter for Slugger.
type SluggerFunc func(string) string

func (f SluggerFunc) Slug(segment string) string {
	return f(segment)
}

// IdentitySlugger returns segments unchanged. It is the default when no
// slugger is configured: with it, the path-case rule never fires.
func IdentitySlugger() Slugger {
	return SluggerFunc(func(segment string) string { return segment })
}

// LowerSlugger lowercases segments without otherwise rewriting them. Use it
// when the canonical path form is simply all-lowercase.
func LowerSlugger() Slugger {
	return SluggerFunc(strings.ToLower)
}

// Slugify converts a segment to a URL-safe slug:
//
//   - lowercase letters, digits and hyphens are kept
//   - uppercase letters are lowercased
//   - spaces become hyphens
//   - everything else is dropped
//
// Example:
//
//	Slugify("Hello World")  // "hello-world"
//	Slugify("My App 2.0!")  // "my-app-20"
func Slugify(segment string) string {
	var sb strings.Builder
	sb.Grow(len(segment))

	for _, r := range segment {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		case r == ' ':
			sb.WriteByte('-')
		}
	}

	return sb.String()
}

// SlugifySlugger returns a Slugger backed by Slugify.
func SlugifySlugger() Slugger {
	return SluggerFunc(Slugify)
}
