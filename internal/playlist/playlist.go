// Package playlist holds in-memory track lists built from index songs.
package playlist

import (
	"slices"
	"time"
)

// Track represents a single track in a playlist.
type Track struct {
	URI      string // location relative to the library root
	Title    string
	Artist   string
	Album    string
	Duration time.Duration // 0 if unknown
	Missing  bool          // URI not present in the index
}

// Playlist holds an ordered collection of tracks.
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		tracks: make([]Track, 0),
	}
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	return slices.Clone(p.tracks)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Duration returns the sum of the known track durations.
func (p *Playlist) Duration() time.Duration {
	var total time.Duration
	for _, t := range p.tracks {
		total += t.Duration
	}
	return total
}
