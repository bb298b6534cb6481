package index

import "fmt"

// Visitor receives the songs and directories of a traversal. Returning an
// error aborts the traversal.
type Visitor interface {
	VisitSong(s *Song) error
	VisitDirectory(d *Directory) error
}

// SongFunc adapts a function to a Visitor that ignores directories.
type SongFunc func(s *Song) error

func (f SongFunc) VisitSong(s *Song) error { return f(s) }

func (f SongFunc) VisitDirectory(*Directory) error { return nil }

// DirectoryOnly is implemented by visitors that ignore songs. Traverse
// does not walk the songs of a directory for them.
type DirectoryOnly interface {
	Visitor
	DirectoriesOnly()
}

// Traverse visits everything under root ("" for the whole library).
// A directory is visited before its songs, then its sub-directories, all
// in name order. When root names a song, only that song is visited.
func (i *Index) Traverse(root string, v Visitor) error {
	if dir := i.Directory(root); dir != nil {
		_, skipSongs := v.(DirectoryOnly)
		return traverseDirectory(dir, v, skipSongs)
	}
	if s := i.Song(root); s != nil {
		if _, ok := v.(DirectoryOnly); ok {
			return nil
		}
		return v.VisitSong(s)
	}
	return fmt.Errorf("%w: %q", ErrPathNotFound, root)
}

func traverseDirectory(d *Directory, v Visitor, skipSongs bool) error {
	if err := v.VisitDirectory(d); err != nil {
		return err
	}
	if !skipSongs {
		for _, s := range d.songs {
			if err := v.VisitSong(s); err != nil {
				return err
			}
		}
	}
	for _, c := range d.children {
		if err := traverseDirectory(c, v, skipSongs); err != nil {
			return err
		}
	}
	return nil
}
