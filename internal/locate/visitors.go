package locate

import (
	"fmt"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// songsOnly ignores directories.
type songsOnly struct{}

func (songsOnly) VisitDirectory(*index.Directory) error { return nil }

// matchVisitor emits every song accepted by the matcher.
type matchVisitor struct {
	songsOnly
	match query.Matcher
	sink  Sink
}

func (v *matchVisitor) VisitSong(s *index.Song) error {
	if !v.match.Match(s) {
		return nil
	}
	return v.sink.Song(s)
}

// printVisitor emits every directory marker and every song, either with
// full metadata or as a bare location.
type printVisitor struct {
	sink Sink
	info bool
}

func (v *printVisitor) VisitDirectory(d *index.Directory) error {
	if d.IsRoot() {
		return nil
	}
	return v.sink.Directory(d.Path())
}

func (v *printVisitor) VisitSong(s *index.Song) error {
	if v.info {
		return v.sink.Song(s)
	}
	return v.sink.Value(query.File, s.URI())
}

// addVisitor appends every song to the queue, or to the stored playlist
// when one is named. The first failure aborts the traversal.
type addVisitor struct {
	songsOnly
	w        PlaylistWriter
	playlist string
}

func (v *addVisitor) VisitSong(s *index.Song) error {
	var err error
	if v.playlist == "" {
		err = v.w.AppendToQueue(s)
	} else {
		err = v.w.AppendToStored(s, v.playlist)
	}
	if err != nil {
		return fmt.Errorf("add %s: %w", s.URI(), err)
	}
	return nil
}

// countVisitor sums directory song counts without looking at songs.
type countVisitor struct {
	count int
}

func (v *countVisitor) VisitDirectory(d *index.Directory) error {
	v.count += d.SongCount()
	return nil
}

func (v *countVisitor) VisitSong(*index.Song) error { return nil }

func (v *countVisitor) DirectoriesOnly() {}

// durationVisitor sums known song durations.
type durationVisitor struct {
	songsOnly
	total int
}

func (v *durationVisitor) VisitSong(s *index.Song) error {
	if s.Tag != nil && s.Tag.HasDuration() {
		v.total += s.Tag.Duration
	}
	return nil
}

// uniqueVisitor collects the values of one type on matching songs.
// File locations go straight to the sink; concrete types go through the
// tracker.
type uniqueVisitor struct {
	songsOnly
	match   query.Matcher
	typ     query.Type
	tracker ValueTracker
	sink    Sink
}

func (v *uniqueVisitor) VisitSong(s *index.Song) error {
	if !v.match.Match(s) {
		return nil
	}
	if v.typ == query.File {
		return v.sink.Value(query.File, s.URI())
	}
	if s.Tag == nil {
		return nil
	}
	for _, it := range s.Tag.Items {
		if query.Type(it.Type) == v.typ {
			v.tracker.MarkSeen(tags.Type(v.typ), it.Value)
		}
	}
	return nil
}

// memoryVisitor accumulates the filename memory heuristics.
type memoryVisitor struct {
	refSize int
	savings Savings
}

func (v *memoryVisitor) VisitDirectory(d *index.Directory) error {
	if d.IsRoot() {
		return nil
	}
	v.savings.Directories += (len(d.Path()) + 1 - v.refSize) * d.SongCount()
	return nil
}

func (v *memoryVisitor) VisitSong(s *index.Song) error {
	v.savings.Songs += len(s.Name()) + 1
	return nil
}
