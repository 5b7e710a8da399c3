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
	"net/http"
	"net/url"
	"strings"
)

// QueryParam is a single query string pair with its original request position
// preserved by its index in Request.Query.
//
// Malformed is set when the raw pair could not be percent-decoded. Rules that
// inspect a malformed pair report an evaluation failure instead of guessing at
// the intended bytes; Key and Value then hold the raw (still encoded) text.
type QueryParam struct {
	Key       string
	Value     string
	Malformed bool
}

// Request is an immutable snapshot of an inbound request's identifier: the
// parts of the URL that canonicalization rules may inspect. Rules never write
// to a Request; corrections are composed onto a working copy by the engine.
//
// Path semantics:
//   - "/" snapshots as zero segments with TrailingSlash=false (root is never
//     considered to have a trailing slash)
//   - "/a/b/" snapshots as ["a" "b"] with TrailingSlash=true
//   - "/a//b" snapshots as ["a" "" "b"]; empty segments mark duplicate
//     separators and are the slash rule's business
type Request struct {
	Scheme        string
	Host          string
	Segments      []string
	TrailingSlash bool
	Query         []QueryParam
}

// SnapshotRequest captures the canonicalization-relevant parts of an inbound
// *http.Request. The scheme is taken from a valid X-Forwarded-Proto header if
// present, otherwise inferred from the TLS state, matching how the request
// reached this process behind a terminating proxy.
//
// Query pairs keep their original wire order; net/url's map-based parsing
// would lose it.
func SnapshotRequest(r *http.Request) *Request {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto == "http" || proto == "https" {
		scheme = proto
	}

	segments, trailing := splitPath(r.URL.Path)

	return &Request{
		Scheme:        scheme,
		Host:          r.Host,
		Segments:      segments,
		TrailingSlash: trailing,
		Query:         parseQuery(r.URL.RawQuery),
	}
}

// ParseSnapshot builds a Request from an absolute URL string. It exists for
// tools and tests that have no *http.Request at hand; the engine itself uses
// it to re-check composed targets.
func ParseSnapshot(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	segments, trailing := splitPath(u.Path)

	return &Request{
		Scheme:        u.Scheme,
		Host:          u.Host,
		Segments:      segments,
		TrailingSlash: trailing,
		Query:         parseQuery(u.RawQuery),
	}, nil
}

// URL composes the snapshot back into an absolute URL string. Segments are
// path-escaped and query pairs query-escaped, so the result is always a valid
// URL regardless of what the snapshot holds.
func (r *Request) URL() string {
	return composeURL(r.Scheme, r.Host, r.Segments, r.TrailingSlash, r.Query)
}

// String returns the same value as URL.
func (r *Request) String() string {
	return r.URL()
}

// splitPath splits a decoded URL path into segments and a trailing-slash flag.
// The root path yields no segments and no trailing slash.
func splitPath(path string) ([]string, bool) {
	if path == "" || path == "/" {
		return nil, false
	}

	trimmed := strings.TrimPrefix(path, "/")
	trailing := strings.HasSuffix(trimmed, "/")
	if trailing {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	return strings.Split(trimmed, "/"), trailing
}

// parseQuery splits a raw query string into ordered pairs. Pairs that fail to
// percent-decode are kept verbatim and flagged Malformed rather than dropped,
// so rules can report the failure against the actual key.
func parseQuery(rawQuery string) []QueryParam {
	if rawQuery == "" {
		return nil
	}

	parts := strings.Split(rawQuery, "&")
	params := make([]QueryParam, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(part, "=")

		key, keyErr := url.QueryUnescape(rawKey)
		value, valueErr := url.QueryUnescape(rawValue)
		if keyErr != nil || valueErr != nil {
			params = append(params, QueryParam{Key: rawKey, Value: rawValue, Malformed: true})
			continue
		}

		params = append(params, QueryParam{Key: key, Value: value})
	}

	return params
}

// composeURL assembles an absolute URL from its snapshot parts with proper
// escaping. Query pairs keep the given order; an empty value renders as
// "key=" only when the pair had an explicit value of "".
func composeURL(scheme, host string, segments []string, trailingSlash bool, query []QueryParam) string {
	var sb strings.Builder
	sb.Grow(len(scheme) + len(host) + 16)

	sb.WriteString(scheme)
	sb.WriteString("://")
	sb.WriteString(host)

	if len(segments) == 0 {
		sb.WriteByte('/')
	} else {
		for _, seg := range segments {
			sb.WriteByte('/')
			sb.WriteString(url.PathEscape(seg))
		}
		if trailingSlash {
			sb.WriteByte('/')
		}
	}

	if len(query) > 0 {
		sb.WriteByte('?')
		for i, p := range query {
			if i > 0 {
				sb.WriteByte('&')
			}
			if p.Malformed {
				// Raw text is already encoded; re-escaping would double it.
				sb.WriteString(p.Key)
				if p.Value != "" {
					sb.WriteByte('=')
					sb.WriteString(p.Value)
				}
				continue
			}
			sb.WriteString(url.QueryEscape(p.Key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(p.Value))
		}
	}

	return sb.String()
}
