// Package library fills the song index from the music files found under the
// library sources.
package library

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// DefaultWorkers is the number of files read concurrently.
const DefaultWorkers = 8

// Scan phases reported through ScanProgress.
const (
	PhaseScanning   = "scanning"
	PhaseProcessing = "processing"
	PhaseCleaning   = "cleaning"
	PhaseDone       = "done"
)

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string
	Current     int
	Total       int
	CurrentFile string
	Stats       *ScanStats // Only populated when Phase == PhaseDone
}

// ScanStats holds statistics for a completed scan.
type ScanStats struct {
	BySource map[string]*SourceStats // keyed by source path
	Removed  []string                // URIs no longer found under any source
}

// SourceStats holds per-source scan statistics.
type SourceStats struct {
	Added   []string // URIs of new songs
	Updated []string // URIs of songs already in the index
	Skipped []string // URIs of files not indexed: unreadable, or taken by an earlier source
}

// Songs returns the number of songs added or updated across all sources.
func (s *ScanStats) Songs() int {
	n := 0
	for _, src := range s.BySource {
		n += len(src.Added) + len(src.Updated)
	}
	return n
}

// fileInfo holds information about a discovered music file.
type fileInfo struct {
	path   string
	uri    string
	source string // source path this file belongs to
}

// songResult holds the result of reading a music file.
type songResult struct {
	file fileInfo
	tag  *tags.Tag
	err  error
}

// Scanner reads music files into an index.
type Scanner struct {
	// Workers is the number of concurrent readers; DefaultWorkers when <= 0.
	Workers int
	// Logger receives per-file diagnostics; discarded when nil.
	Logger *log.Logger
	// ReadTag reads a file's metadata; tags.Read when nil.
	ReadTag func(path string) (*tags.Tag, error)
	// KeepMissing leaves indexed songs that were not found in place.
	KeepMissing bool
}

// Scan walks every source, reads the tags of its music files and stores
// them in idx under their location relative to the source. When two sources
// hold the same relative path, the first source in order wins and the other
// file is skipped. Songs of idx that were not found are removed unless
// KeepMissing is set. progress may be nil; when set it is closed on return.
func (s *Scanner) Scan(ctx context.Context, sources []string, idx *index.Index, progress chan<- ScanProgress) (*ScanStats, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(p ScanProgress) {
		if progress != nil {
			progress <- p
		}
	}

	stats := &ScanStats{
		BySource: make(map[string]*SourceStats, len(sources)),
	}
	for _, src := range sources {
		stats.BySource[src] = &SourceStats{}
	}

	// Phase 1: Walk sources for music files
	report(ScanProgress{Phase: PhaseScanning})
	files, shadowed, err := discoverFiles(ctx, sources, report)
	if err != nil {
		return nil, err
	}
	for _, f := range shadowed {
		s.logger().Warn("file shadowed by an earlier source", "path", f.path, "uri", f.uri)
		src := stats.BySource[f.source]
		src.Skipped = append(src.Skipped, f.uri)
	}

	// Phase 2: Read tags in parallel, insert sequentially
	if err := s.processFiles(ctx, files, idx, stats, progress); err != nil {
		return nil, err
	}

	// Phase 3: Drop songs that disappeared
	if !s.KeepMissing {
		report(ScanProgress{Phase: PhaseCleaning})
		stats.Removed = removeMissing(idx, files)
	}

	report(ScanProgress{Phase: PhaseDone, Current: len(files), Total: len(files), Stats: stats})
	return stats, nil
}

func (s *Scanner) workers() int {
	if s.Workers <= 0 {
		return DefaultWorkers
	}
	return s.Workers
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s *Scanner) readTag(path string) (*tags.Tag, error) {
	if s.ReadTag == nil {
		return tags.Read(path)
	}
	return s.ReadTag(path)
}

// removeMissing removes the songs of idx whose URI was not discovered and
// returns their URIs in traversal order.
func removeMissing(idx *index.Index, files []fileInfo) []string {
	found := make(map[string]struct{}, len(files))
	for _, f := range files {
		found[f.uri] = struct{}{}
	}

	var missing []string
	_ = idx.Traverse("", index.SongFunc(func(s *index.Song) error {
		if _, ok := found[s.URI()]; !ok {
			missing = append(missing, s.URI())
		}
		return nil
	}))
	for _, uri := range missing {
		idx.RemoveSong(uri)
	}
	return missing
}
