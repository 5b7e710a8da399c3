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
	"net/url"
	"strings"
)

// OriginRule checks the request's scheme and host against a configured
// canonical origin. Scheme and host are case-insensitive per RFC 3986, so the
// canonical form is the lowercase origin; any difference, by value or by
// case, is a violation corrected to that form.
type OriginRule struct {
	scheme string
	host   string
}

// NewOriginRule parses a canonical origin of the form "scheme://host[:port]".
// Anything beyond the origin (a path, query, or fragment) is rejected with
// ErrInvalidOrigin.
func NewOriginRule(origin string) (*OriginRule, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, newError("", "register", ErrInvalidOrigin)
	}
	if u.Scheme == "" || u.Host == "" || u.RawQuery != "" || u.Fragment != "" ||
		(u.Path != "" && u.Path != "/") {
		return nil, newError("", "register", ErrInvalidOrigin)
	}

	return &OriginRule{
		scheme: strings.ToLower(u.Scheme),
		host:   strings.ToLower(u.Host),
	}, nil
}

func (r *OriginRule) Name() string { return "origin" }

func (r *OriginRule) Evaluate(req *Request, _ *Descriptor) (Outcome, error) {
	if req.Scheme == r.scheme && req.Host == r.host {
		return Outcome{}, nil
	}

	return Outcome{Corrections: []Correction{CorrectOrigin(r.scheme, r.host)}}, nil
}
