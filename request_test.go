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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot_Paths(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantSegments []string
		wantTrailing bool
	}{
		{
			name:         "root has no segments",
			url:          "http://example.com/",
			wantSegments: nil,
			wantTrailing: false,
		},
		{
			name:         "missing path treated as root",
			url:          "http://example.com",
			wantSegments: nil,
			wantTrailing: false,
		},
		{
			name:         "plain segments",
			url:          "http://example.com/Home/Index",
			wantSegments: []string{"Home", "Index"},
			wantTrailing: false,
		},
		{
			name:         "trailing slash recorded",
			url:          "http://example.com/users/",
			wantSegments: []string{"users"},
			wantTrailing: true,
		},
		{
			name:         "duplicate separators keep empty segments",
			url:          "http://example.com/a//b",
			wantSegments: []string{"a", "", "b"},
			wantTrailing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSnapshot(tt.url)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSegments, req.Segments)
			assert.Equal(t, tt.wantTrailing, req.TrailingSlash)
		})
	}
}

func TestParseSnapshot_QueryOrderPreserved(t *testing.T) {
	req, err := ParseSnapshot("http://example.com/?b=2&a=1&b=3")
	require.NoError(t, err)

	require.Len(t, req.Query, 3)
	assert.Equal(t, QueryParam{Key: "b", Value: "2"}, req.Query[0])
	assert.Equal(t, QueryParam{Key: "a", Value: "1"}, req.Query[1])
	assert.Equal(t, QueryParam{Key: "b", Value: "3"}, req.Query[2])
}

func TestParseSnapshot_MalformedPairFlagged(t *testing.T) {
	req, err := ParseSnapshot("http://example.com/?id=1&bad=%zz")
	require.NoError(t, err)

	require.Len(t, req.Query, 2)
	assert.False(t, req.Query[0].Malformed)
	assert.True(t, req.Query[1].Malformed)
	assert.Equal(t, "bad", req.Query[1].Key)
}

func TestParseSnapshot_PlusDecodesToSpace(t *testing.T) {
	req, err := ParseSnapshot("http://example.com/?referred_by=Dipun+Mistry")
	require.NoError(t, err)

	require.Len(t, req.Query, 1)
	assert.Equal(t, "Dipun Mistry", req.Query[0].Value)
}

func TestRequestURL_Composition(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "root",
			url:  "http://example.com",
			want: "http://example.com/",
		},
		{
			name: "segments and query",
			url:  "http://example.com/a/b?x=1&y=2",
			want: "http://example.com/a/b?x=1&y=2",
		},
		{
			name: "trailing slash survives",
			url:  "http://example.com/a/",
			want: "http://example.com/a/",
		},
		{
			name: "duplicate separators survive",
			url:  "http://example.com/a//b",
			want: "http://example.com/a//b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSnapshot(tt.url)
			require.NoError(t, err)

			assert.Equal(t, tt.want, req.URL())
		})
	}
}

func TestSnapshotRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "http://my-site.com/Home/Index?id=3", nil)

	req := SnapshotRequest(r)

	assert.Equal(t, "http", req.Scheme)
	assert.Equal(t, "my-site.com", req.Host)
	assert.Equal(t, []string{"Home", "Index"}, req.Segments)
	require.Len(t, req.Query, 1)
	assert.Equal(t, "id", req.Query[0].Key)
}

func TestSnapshotRequest_SchemeFromTLS(t *testing.T) {
	r := httptest.NewRequest("GET", "https://www.my-site.com/", nil)

	req := SnapshotRequest(r)

	assert.Equal(t, "https", req.Scheme)
}

func TestSnapshotRequest_SchemeFromForwardedProto(t *testing.T) {
	r := httptest.NewRequest("GET", "http://my-site.com/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	req := SnapshotRequest(r)

	assert.Equal(t, "https", req.Scheme)
}

func TestSnapshotRequest_InvalidForwardedProtoIgnored(t *testing.T) {
	r := httptest.NewRequest("GET", "http://my-site.com/", nil)
	r.Header.Set("X-Forwarded-Proto", "gopher")

	req := SnapshotRequest(r)

	assert.Equal(t, "http", req.Scheme)
}
