// Package locate runs queries over the song index and hands the results to
// a sink, a playlist or an aggregate.
//
// Every operation is a single traversal with one visitor. Traversal errors,
// such as an unknown root path, abort the operation; output already handed
// to the sink stays emitted.
package locate

import (
	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// Sink receives the results of an operation.
type Sink interface {
	// Song emits a song with its full metadata.
	Song(s *index.Song) error
	// Directory emits a directory marker.
	Directory(path string) error
	// Value emits a single value of the given type. Song locations are
	// emitted as query.File values.
	Value(t query.Type, value string) error
}

// PlaylistWriter appends songs to the queue or to a stored playlist.
type PlaylistWriter interface {
	AppendToQueue(s *index.Song) error
	AppendToStored(s *index.Song, playlist string) error
}

// ValueTracker deduplicates values while listing unique tags.
type ValueTracker interface {
	Reset(t tags.Type)
	MarkSeen(t tags.Type, value string)
	Seen(t tags.Type) []string
}
