// Package tagtracker records the distinct tag values seen while listing
// unique values of a tag type.
package tagtracker

import (
	"slices"

	"github.com/llehouerou/wavesdb/internal/tags"
)

// Tracker keeps one set of seen values per tag type.
// It is not safe for concurrent use; callers serialize listings that share
// a tracker.
type Tracker struct {
	seen map[tags.Type]map[string]struct{}
}

func New() *Tracker {
	return &Tracker{seen: make(map[tags.Type]map[string]struct{})}
}

// Reset forgets every value seen for t.
func (tr *Tracker) Reset(t tags.Type) {
	delete(tr.seen, t)
}

// MarkSeen records value for t. Marking a value twice has no effect.
func (tr *Tracker) MarkSeen(t tags.Type, value string) {
	set, ok := tr.seen[t]
	if !ok {
		set = make(map[string]struct{})
		tr.seen[t] = set
	}
	set[value] = struct{}{}
}

// Seen returns the values recorded for t in byte-wise order.
func (tr *Tracker) Seen(t tags.Type) []string {
	set := tr.seen[t]
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
