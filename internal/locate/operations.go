package locate

import (
	"unsafe"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// Search emits the songs under root matching q case-insensitively.
func Search(idx *index.Index, root string, q query.Query, sink Sink) error {
	return idx.Traverse(root, &matchVisitor{match: query.Search(q), sink: sink})
}

// Find emits the songs under root matching q exactly.
func Find(idx *index.Index, root string, q query.Query, sink Sink) error {
	return idx.Traverse(root, &matchVisitor{match: query.Find(q), sink: sink})
}

// PrintAll emits every directory marker and song location under root.
func PrintAll(idx *index.Index, root string, sink Sink) error {
	return idx.Traverse(root, &printVisitor{sink: sink})
}

// PrintInfoAll emits every directory marker and song, with metadata, under root.
func PrintInfoAll(idx *index.Index, root string, sink Sink) error {
	return idx.Traverse(root, &printVisitor{sink: sink, info: true})
}

// AddAll appends every song under root to the queue.
func AddAll(idx *index.Index, root string, w PlaylistWriter) error {
	return idx.Traverse(root, &addVisitor{w: w})
}

// AddAllToPlaylist appends every song under root to a stored playlist.
func AddAllToPlaylist(idx *index.Index, root, playlist string, w PlaylistWriter) error {
	return idx.Traverse(root, &addVisitor{w: w, playlist: playlist})
}

// CountSongs returns the number of songs under root.
func CountSongs(idx *index.Index, root string) (int, error) {
	if s := idx.Song(root); s != nil && idx.Directory(root) == nil {
		return 1, nil
	}
	v := &countVisitor{}
	if err := idx.Traverse(root, v); err != nil {
		return 0, err
	}
	return v.count, nil
}

// SumDurations returns the total known duration, in seconds, of the songs
// under root. Songs with an unknown duration count as zero.
func SumDurations(idx *index.Index, root string) (int, error) {
	v := &durationVisitor{}
	if err := idx.Traverse(root, v); err != nil {
		return 0, err
	}
	return v.total, nil
}

// ListUniqueValues emits the distinct values of typ across the songs
// matching q exactly. For query.File, every matching location is emitted
// without deduplication. The tracker is reset for typ before the listing.
func ListUniqueValues(idx *index.Index, typ query.Type, q query.Query, tracker ValueTracker, sink Sink) error {
	if typ.Concrete() {
		tracker.Reset(tags.Type(typ))
	}

	v := &uniqueVisitor{match: query.Find(q), typ: typ, tracker: tracker, sink: sink}
	if err := idx.Traverse("", v); err != nil {
		return err
	}

	if !typ.Concrete() {
		return nil
	}
	for _, value := range tracker.Seen(tags.Type(typ)) {
		if err := sink.Value(typ, value); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRefSize is the size of a pointer on the running platform.
const DefaultRefSize = int(unsafe.Sizeof(uintptr(0)))

// Savings holds the two filename memory heuristics. They are independent
// estimates for diagnostics, not measurements.
type Savings struct {
	// Directories is the memory saved by storing song names relative to
	// their directory instead of repeating the directory path.
	Directories int
	// Songs is the memory taken by song names, relative to their directory.
	Songs int
}

// MemorySavings computes the filename memory heuristics under root, with
// refSize standing for the size of a directory reference.
func MemorySavings(idx *index.Index, root string, refSize int) (Savings, error) {
	v := &memoryVisitor{refSize: refSize}
	if err := idx.Traverse(root, v); err != nil {
		return Savings{}, err
	}
	return v.savings, nil
}
