// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type op int

const (
	opAll op = iota
	opAny
)

// Predicate is a literal keyword test over the raw question text. Matching
// is case-sensitive substring containment.
type Predicate struct {
	op       op
	keywords []string
}

// Contains holds when the question contains kw.
func Contains(kw string) Predicate {
	return Predicate{op: opAll, keywords: []string{kw}}
}

// AllOf holds when the question contains every keyword.
func AllOf(kws ...string) Predicate {
	return Predicate{op: opAll, keywords: kws}
}

// AnyOf holds when the question contains at least one keyword.
func AnyOf(kws ...string) Predicate {
	return Predicate{op: opAny, keywords: kws}
}

// Keywords returns the literals the predicate tests for.
func (p Predicate) Keywords() []string {
	return append([]string(nil), p.keywords...)
}

// Holds evaluates the predicate against the set of keywords present in a
// question.
func (p Predicate) Holds(present map[string]bool) bool {
	if len(p.keywords) == 0 {
		return false
	}
	has := func(kw string) bool { return present[kw] }
	if p.op == opAny {
		return lo.SomeBy(p.keywords, has)
	}
	return lo.EveryBy(p.keywords, has)
}

// Match evaluates the predicate directly against text.
func (p Predicate) Match(text string) bool {
	present := make(map[string]bool, len(p.keywords))
	for _, kw := range p.keywords {
		present[kw] = strings.Contains(text, kw)
	}
	return p.Holds(present)
}

// String renders the predicate, e.g. "unzip" AND "CSV".
func (p Predicate) String() string {
	quoted := lo.Map(p.keywords, func(kw string, _ int) string { return strconv.Quote(kw) })
	if p.op == opAny {
		return strings.Join(quoted, " OR ")
	}
	return strings.Join(quoted, " AND ")
}
