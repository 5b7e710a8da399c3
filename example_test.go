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

package canonical_test

import (
	"context"
	"fmt"
	"log"

	"rivaas.dev/canonical"
)

// ExampleEngine_Evaluate shows the full decision pipeline: a request on the
// wrong origin whose path consists entirely of default route values is
// redirected to the canonical root.
func ExampleEngine_Evaluate() {
	registry := canonical.NewRegistry()
	if _, err := registry.RegisterRecommended("https://www.my-site.com", nil); err != nil {
		log.Fatal(err)
	}
	engine := canonical.New(registry)

	req, err := canonical.ParseSnapshot("http://my-site.com/Home/Index")
	if err != nil {
		log.Fatal(err)
	}
	descriptor := &canonical.Descriptor{
		RulesetName: canonical.RecommendedRulesetName,
		Route: canonical.RouteMeta{
			Slots:    []string{"controller", "action"},
			Defaults: []string{"Home", "Index"},
		},
	}

	decision := engine.Evaluate(context.Background(), req, descriptor)
	fmt.Println(decision.Kind, decision.Target)
	// Output: redirect https://www.my-site.com/
}

// ExampleEngine_Evaluate_metaOnly shows a soft-only decision: the published
// canonical href reorders and prunes the query while the live request stays
// untouched.
func ExampleEngine_Evaluate_metaOnly() {
	registry := canonical.NewRegistry()
	if _, err := registry.RegisterRecommended("https://www.my-site.com", nil); err != nil {
		log.Fatal(err)
	}
	engine := canonical.New(registry)

	req, err := canonical.ParseSnapshot("https://www.my-site.com/products?referred_by=friend&id=2093")
	if err != nil {
		log.Fatal(err)
	}
	descriptor := &canonical.Descriptor{
		RulesetName:    canonical.RecommendedRulesetName,
		CanonicalQuery: []string{"id"},
	}

	decision := engine.Evaluate(context.Background(), req, descriptor)
	fmt.Println(decision.Kind, decision.Href)
	// Output: meta_only https://www.my-site.com/products?id=2093
}

// ExampleResolveDescriptor shows the two-scope declaration merge: the nested
// scope's ruleset wins and the key sets union.
func ExampleResolveDescriptor() {
	registry := canonical.NewRegistry()
	registry.MustRegister("site")

	enclosing := canonical.Declaration{
		RulesetName:    "site",
		CanonicalQuery: []string{"id"},
	}
	nested := canonical.Declaration{
		CanonicalQuery: []string{"name"},
		Sensitive:      []string{"id"},
	}

	d, err := canonical.ResolveDescriptor(registry, enclosing, nested, canonical.RouteMeta{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(d.RulesetName, d.CanonicalQuery, d.Sensitive)
	// Output: site [id name] [id]
}
