// Package index holds the in-memory directory tree of songs and the
// traversal primitive the query operations run on.
package index

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/llehouerou/wavesdb/internal/tags"
)

// ErrPathNotFound is returned when a path names neither a directory nor a song.
var ErrPathNotFound = errors.New("path not found")

// ErrInvalidURI is returned by AddSong for URIs that cannot name a song.
var ErrInvalidURI = errors.New("invalid song uri")

// Directory is a node of the tree. The root has an empty path.
type Directory struct {
	path     string
	parent   *Directory
	children []*Directory // sorted by path
	songs    []*Song      // sorted by name
}

// Path returns the directory path relative to the library root.
func (d *Directory) Path() string { return d.path }

// IsRoot reports whether d is the library root.
func (d *Directory) IsRoot() bool { return d.parent == nil }

// SongCount returns the number of songs directly contained in d.
func (d *Directory) SongCount() int { return len(d.songs) }

func (d *Directory) child(name string) (*Directory, int, bool) {
	p := joinPath(d.path, name)
	i, found := slices.BinarySearchFunc(d.children, p, func(c *Directory, target string) int {
		return strings.Compare(c.path, target)
	})
	if found {
		return d.children[i], i, true
	}
	return nil, i, false
}

func (d *Directory) song(name string) (*Song, int, bool) {
	i, found := slices.BinarySearchFunc(d.songs, name, func(s *Song, target string) int {
		return strings.Compare(s.name, target)
	})
	if found {
		return d.songs[i], i, true
	}
	return nil, i, false
}

// Song is a music file known to the index. Its location is stored relative
// to its directory; Tag is nil when the file had no readable metadata.
type Song struct {
	name string
	dir  *Directory
	Tag  *tags.Tag
}

// Name returns the file name within its directory.
func (s *Song) Name() string { return s.name }

// URI returns the song location relative to the library root.
func (s *Song) URI() string { return joinPath(s.dir.path, s.name) }

// Index is the in-memory song tree. It is not safe for concurrent use.
type Index struct {
	root  *Directory
	count int
}

func New() *Index {
	return &Index{root: &Directory{}}
}

// Len returns the total number of songs.
func (i *Index) Len() int { return i.count }

// AddSong inserts a song, creating missing directories. Adding an existing
// URI replaces its tag.
func (i *Index) AddSong(uri string, tag *tags.Tag) (*Song, error) {
	clean, ok := cleanURI(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	dirPath, name := path.Split(clean)
	dir := i.root
	if dirPath != "" {
		for _, part := range strings.Split(strings.TrimSuffix(dirPath, "/"), "/") {
			child, pos, found := dir.child(part)
			if !found {
				if _, _, isSong := dir.song(part); isSong {
					return nil, fmt.Errorf("%w: %q is a song", ErrInvalidURI, joinPath(dir.path, part))
				}
				child = &Directory{path: joinPath(dir.path, part), parent: dir}
				dir.children = slices.Insert(dir.children, pos, child)
			}
			dir = child
		}
	}

	if _, _, found := dir.child(name); found {
		return nil, fmt.Errorf("%w: %q is a directory", ErrInvalidURI, uri)
	}

	s, pos, found := dir.song(name)
	if found {
		s.Tag = tag
		return s, nil
	}
	s = &Song{name: name, dir: dir, Tag: tag}
	dir.songs = slices.Insert(dir.songs, pos, s)
	i.count++
	return s, nil
}

// RemoveSong removes a song. Directories are kept even when they become empty.
func (i *Index) RemoveSong(uri string) bool {
	s := i.Song(uri)
	if s == nil {
		return false
	}
	_, pos, _ := s.dir.song(s.name)
	s.dir.songs = slices.Delete(s.dir.songs, pos, pos+1)
	i.count--
	return true
}

// Directory looks up a directory by path; "" is the root.
func (i *Index) Directory(p string) *Directory {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return i.root
	}
	clean, ok := cleanURI(p)
	if !ok {
		return nil
	}
	dir := i.root
	for _, part := range strings.Split(clean, "/") {
		child, _, found := dir.child(part)
		if !found {
			return nil
		}
		dir = child
	}
	return dir
}

// Song looks up a song by URI.
func (i *Index) Song(uri string) *Song {
	clean, ok := cleanURI(uri)
	if !ok {
		return nil
	}
	dirPath, name := path.Split(clean)
	dir := i.Directory(strings.TrimSuffix(dirPath, "/"))
	if dir == nil {
		return nil
	}
	s, _, _ := dir.song(name)
	return s
}

func cleanURI(uri string) (string, bool) {
	clean := strings.TrimPrefix(path.Clean("/"+uri), "/")
	if clean == "" || strings.HasSuffix(uri, "/") {
		return "", false
	}
	return clean, true
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
