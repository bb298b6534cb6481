package query

import (
	"strings"

	"github.com/llehouerou/wavesdb/internal/index"
)

// Matcher decides whether a song satisfies a query.
type Matcher interface {
	Match(s *index.Song) bool
}

// Search returns a matcher doing case-insensitive substring matching.
// Needles are folded once here; q itself is left untouched.
func Search(q Query) Matcher {
	folded := make([]Condition, len(q.conds))
	for i, c := range q.conds {
		folded[i] = Condition{Type: c.Type, Needle: fold(c.Needle)}
	}
	return searchMatcher{conds: folded}
}

// Find returns a matcher doing case-sensitive exact matching.
func Find(q Query) Matcher {
	return findMatcher{conds: q.conds}
}

type searchMatcher struct {
	conds []Condition
}

func (m searchMatcher) Match(s *index.Song) bool {
	return matchAll(s, m.conds, searchCondition)
}

type findMatcher struct {
	conds []Condition
}

func (m findMatcher) Match(s *index.Song) bool {
	return matchAll(s, m.conds, findCondition)
}

// matchAll is the conjunction shared by both modes; it stops at the first
// failing condition.
func matchAll(s *index.Song, conds []Condition, match func(*index.Song, Condition) bool) bool {
	for _, c := range conds {
		if !match(s, c) {
			return false
		}
	}
	return true
}

// searchCondition expects c.Needle to be folded already.
func searchCondition(s *index.Song, c Condition) bool {
	return matchCondition(s, c, func(value string) bool {
		return strings.Contains(fold(value), c.Needle)
	})
}

func findCondition(s *index.Song, c Condition) bool {
	return matchCondition(s, c, func(value string) bool {
		return value == c.Needle
	})
}

// matchCondition holds the control flow common to search and find: File
// only looks at the location, Any looks at the location first and then at
// every tag item, a concrete type looks at the items of that type.
func matchCondition(s *index.Song, c Condition, matches func(string) bool) bool {
	if c.Type == File || c.Type == Any {
		if matches(s.URI()) {
			return true
		}
		if c.Type == File {
			return false
		}
	}

	if s.Tag == nil {
		return false
	}
	for _, it := range s.Tag.Items {
		if c.Type != Any && Type(it.Type) != c.Type {
			continue
		}
		if matches(it.Value) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToUpper(s)
}
