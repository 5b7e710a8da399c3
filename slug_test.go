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
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces to hyphens", in: "Hello World", want: "hello-world"},
		{name: "punctuation dropped", in: "My App 2.0!", want: "my-app-20"},
		{name: "already a slug", in: "wordpress-blog", want: "wordpress-blog"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSluggers(t *testing.T) {
	assert.Equal(t, "MiXeD", IdentitySlugger().Slug("MiXeD"))
	assert.Equal(t, "mixed", LowerSlugger().Slug("MiXeD"))
	assert.Equal(t, "my-app", SlugifySlugger().Slug("My App"))
}
