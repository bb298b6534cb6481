// Package tags defines the tag types stored for every song and reads them
// from MP3, FLAC, Opus and M4A files.
package tags

import (
	"strconv"
	"strings"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Type identifies a concrete tag field.
type Type int

const (
	Artist Type = iota
	Album
	AlbumArtist
	Title
	Track
	Name
	Genre
	Date
	Composer
	Performer
	Comment
	Disc

	// NumTypes is the number of concrete tag types.
	NumTypes
)

// Names holds the canonical name of every concrete tag type, indexed by Type.
var Names = [NumTypes]string{
	Artist:      "Artist",
	Album:       "Album",
	AlbumArtist: "AlbumArtist",
	Title:       "Title",
	Track:       "Track",
	Name:        "Name",
	Genre:       "Genre",
	Date:        "Date",
	Composer:    "Composer",
	Performer:   "Performer",
	Comment:     "Comment",
	Disc:        "Disc",
}

// Valid reports whether t is one of the concrete tag types.
func (t Type) Valid() bool {
	return t >= 0 && t < NumTypes
}

func (t Type) String() string {
	if !t.Valid() {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return Names[t]
}

// ParseType looks up a concrete tag type by name, ignoring case.
func ParseType(name string) (Type, bool) {
	for i, n := range Names {
		if strings.EqualFold(n, name) {
			return Type(i), true
		}
	}
	return 0, false
}

// UnknownDuration marks a tag whose duration could not be determined.
const UnknownDuration = -1

// Item is a single (type, value) pair attached to a song.
type Item struct {
	Type  Type
	Value string
}

// Tag is the metadata record of a song: an unordered list of items plus the
// duration in seconds, or UnknownDuration.
type Tag struct {
	Items    []Item
	Duration int
}

// New returns an empty tag with an unknown duration.
func New() *Tag {
	return &Tag{Duration: UnknownDuration}
}

// Add appends an item. Empty values are ignored.
func (t *Tag) Add(typ Type, value string) {
	value = strings.TrimSpace(value)
	if value == "" || !typ.Valid() {
		return
	}
	t.Items = append(t.Items, Item{Type: typ, Value: value})
}

// Get returns the first value of the given type, or "".
func (t *Tag) Get(typ Type) string {
	for _, it := range t.Items {
		if it.Type == typ {
			return it.Value
		}
	}
	return ""
}

// Has reports whether the tag holds at least one item of the given type.
func (t *Tag) Has(typ Type) bool {
	for _, it := range t.Items {
		if it.Type == typ {
			return true
		}
	}
	return false
}

// HasDuration reports whether the duration is known.
func (t *Tag) HasDuration() bool {
	return t.Duration >= 0
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	ext := strings.ToLower(path)
	if idx := strings.LastIndex(ext, "."); idx >= 0 {
		ext = ext[idx:]
	} else {
		return false
	}
	switch ext {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		return true
	}
	return false
}

// parseNumberPair parses a track/disc number that may be "N" or "N/M".
func parseNumberPair(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return num, total
}

// addNumber stores the number part of an "N" or "N/M" value.
func (t *Tag) addNumber(typ Type, s string) {
	if num, _ := parseNumberPair(s); num > 0 {
		t.Add(typ, strconv.Itoa(num))
	}
}
