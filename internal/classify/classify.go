// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps a question to the extractor that answers it.
//
// A Catalogue is an ordered, immutable list of bindings. Classification
// evaluates the bindings in order and picks the first whose predicate holds,
// so when several categories match, position alone decides. All predicate
// literals are compiled into a single Aho-Corasick automaton and each
// question is scanned once.
package classify

import (
	"fmt"
	"sort"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"

	"github.com/pdiddy/answer-engine/internal/extract"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Binding pairs a predicate with the extractor invoked when it holds.
type Binding struct {
	// Name identifies the category in logs and listings (e.g. "sql-query").
	Name string

	Predicate Predicate
	Extractor extract.Extractor
}

// Catalogue is the ordered binding table. It is safe for concurrent use and
// never changes after construction.
type Catalogue struct {
	bindings []Binding
	matcher  *goahocorasick.Machine
}

// NewCatalogue validates the bindings and builds the keyword index. The
// order of bindings is the classification order.
func NewCatalogue(bindings ...Binding) (*Catalogue, error) {
	seen := make(map[string]bool, len(bindings))
	for i, b := range bindings {
		switch {
		case b.Name == "":
			return nil, fmt.Errorf("binding %d has no name", i)
		case seen[b.Name]:
			return nil, fmt.Errorf("duplicate binding %q", b.Name)
		case b.Extractor == nil:
			return nil, fmt.Errorf("binding %q has no extractor", b.Name)
		case len(b.Predicate.keywords) == 0:
			return nil, fmt.Errorf("binding %q has an empty predicate", b.Name)
		case lo.Contains(b.Predicate.keywords, ""):
			return nil, fmt.Errorf("binding %q has an empty keyword", b.Name)
		}
		seen[b.Name] = true
	}

	c := &Catalogue{bindings: append([]Binding(nil), bindings...)}
	if len(bindings) == 0 {
		return c, nil
	}

	literals := lo.Uniq(lo.FlatMap(bindings, func(b Binding, _ int) []string {
		return b.Predicate.keywords
	}))
	// The double-array trie under the automaton expects sorted keys.
	sort.Strings(literals)

	patterns := lo.Map(literals, func(s string, _ int) []rune { return []rune(s) })
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("building keyword index: %w", err)
	}
	c.matcher = m
	return c, nil
}

// MustCatalogue is like NewCatalogue but panics on an invalid table.
func MustCatalogue(bindings ...Binding) *Catalogue {
	c, err := NewCatalogue(bindings...)
	if err != nil {
		panic(err)
	}
	return c
}

// Bindings returns a copy of the table in classification order.
func (c *Catalogue) Bindings() []Binding {
	return append([]Binding(nil), c.bindings...)
}

// Len returns the number of bindings.
func (c *Catalogue) Len() int {
	return len(c.bindings)
}

// Classify returns the first binding whose predicate holds for q. The
// boolean is false when no binding matches and the question belongs to the
// fallback resolver.
func (c *Catalogue) Classify(q types.Question) (Binding, bool) {
	if c.matcher == nil || q.IsEmpty() {
		return Binding{}, false
	}
	present := c.present(q)
	for _, b := range c.bindings {
		if b.Predicate.Holds(present) {
			return b, true
		}
	}
	return Binding{}, false
}

// present returns the set of indexed literals that occur in q.
func (c *Catalogue) present(q types.Question) map[string]bool {
	terms := c.matcher.MultiPatternSearch([]rune(string(q)), false)
	present := make(map[string]bool, len(terms))
	for _, t := range terms {
		present[string(t.Word)] = true
	}
	return present
}
