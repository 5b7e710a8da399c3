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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOriginRule_Validation(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		wantErr bool
	}{
		{name: "plain origin", origin: "https://www.example.com", wantErr: false},
		{name: "origin with port", origin: "https://example.com:8443", wantErr: false},
		{name: "uppercase folded", origin: "HTTPS://WWW.Example.com", wantErr: false},
		{name: "missing scheme", origin: "www.example.com", wantErr: true},
		{name: "path not allowed", origin: "https://example.com/app", wantErr: true},
		{name: "query not allowed", origin: "https://example.com?x=1", wantErr: true},
		{name: "empty", origin: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOriginRule(tt.origin)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrigin)
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOriginRule_Evaluate(t *testing.T) {
	rule, err := NewOriginRule("https://www.my-site.com")
	require.NoError(t, err)

	tests := []struct {
		name      string
		url       string
		violation bool
	}{
		{name: "canonical origin passes", url: "https://www.my-site.com/x", violation: false},
		{name: "wrong scheme", url: "http://www.my-site.com/x", violation: true},
		{name: "wrong host", url: "https://my-site.com/x", violation: true},
		{name: "case mismatch is a violation", url: "https://WWW.My-Site.com/x", violation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSnapshot(tt.url)
			require.NoError(t, err)

			outcome, err := rule.Evaluate(req, &Descriptor{})
			require.NoError(t, err)

			assert.Equal(t, tt.violation, !outcome.Pass())
		})
	}
}

func TestOriginRule_CorrectionTargetsConfiguredOrigin(t *testing.T) {
	rule, err := NewOriginRule("HTTPS://WWW.My-Site.com")
	require.NoError(t, err)

	req, err := ParseSnapshot("http://my-site.com/x")
	require.NoError(t, err)

	outcome, err := rule.Evaluate(req, &Descriptor{})
	require.NoError(t, err)
	require.Len(t, outcome.Corrections, 1)
	assert.Equal(t, ComponentOrigin, outcome.Corrections[0].Component.Kind)

	state := newURLState(req, &Descriptor{})
	outcome.Corrections[0].apply(state)
	assert.Equal(t, "https://www.my-site.com/x", state.url())
}
