// Package patterns holds the tolerant header matchers used to recover named
// fields from loosely formatted page text. Each header family is an ordered
// list of candidate matchers, one per historical print format; the first
// candidate that matches wins.
package patterns

import (
	"regexp"
	"strings"
)

// Match is either a matched value or no match. The zero value is no match.
type Match[T any] struct {
	Value   T
	Variant string // name of the candidate that matched
	ok      bool
}

// Matched wraps v as a successful match of the named variant.
func Matched[T any](v T, variant string) Match[T] {
	return Match[T]{Value: v, Variant: variant, ok: true}
}

// NoMatch returns the empty result.
func NoMatch[T any]() Match[T] {
	return Match[T]{}
}

// OK reports whether a candidate matched.
func (m Match[T]) OK() bool { return m.ok }

// Get returns the value and whether it matched.
func (m Match[T]) Get() (T, bool) { return m.Value, m.ok }

// Groups gives named access to one regexp match.
type Groups struct {
	re   *regexp.Regexp
	text string
	idx  []int
}

// Lookup returns the named group and whether it took part in the match.
// An optional group that was skipped reports false; an empty capture reports true.
func (g Groups) Lookup(name string) (string, bool) {
	i := g.re.SubexpIndex(name)
	if i < 0 || 2*i+1 >= len(g.idx) || g.idx[2*i] < 0 {
		return "", false
	}
	return g.text[g.idx[2*i]:g.idx[2*i+1]], true
}

// Get returns the trimmed named group, or "" when it did not take part.
func (g Groups) Get(name string) string {
	s, _ := g.Lookup(name)
	return strings.TrimSpace(s)
}

// Matcher is one historical format of a header family.
// Build turns the regexp groups into the typed record; returning false rejects the match.
type Matcher[T any] struct {
	Name  string
	Re    *regexp.Regexp
	Build func(g Groups) (T, bool)
}

// Match runs the matcher against text.
func (m Matcher[T]) Match(text string) Match[T] {
	idx := m.Re.FindStringSubmatchIndex(text)
	if idx == nil {
		return NoMatch[T]()
	}
	v, ok := m.Build(Groups{re: m.Re, text: text, idx: idx})
	if !ok {
		return NoMatch[T]()
	}
	return Matched(v, m.Name)
}

// Candidates is an ordered list of matchers for one header family.
type Candidates[T any] []Matcher[T]

// Match tries each candidate in order and returns the first match.
func (c Candidates[T]) Match(text string) Match[T] {
	for _, m := range c {
		if res := m.Match(text); res.OK() {
			return res
		}
	}
	return NoMatch[T]()
}

// With returns a copy of c with extra candidates appended after the built-in ones.
func (c Candidates[T]) With(extra ...Matcher[T]) Candidates[T] {
	out := make(Candidates[T], 0, len(c)+len(extra))
	out = append(out, c...)
	return append(out, extra...)
}

// compile joins pattern fragments the way a verbose regexp would be written.
func compile(parts ...string) *regexp.Regexp {
	return regexp.MustCompile(strings.Join(parts, ""))
}
