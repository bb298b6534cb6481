package tags

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads tag metadata and duration from a music file.
// A file whose duration cannot be determined still yields a tag, with
// Duration set to UnknownDuration.
func Read(path string) (*Tag, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		t   *Tag
		err error
	)
	if ext == ExtFLAC {
		// Vorbis comments keep multi-valued fields that dhowden/tag flattens
		t, err = readFLAC(path)
		if err != nil {
			t, err = readGeneric(path)
		}
	} else {
		t, err = readGeneric(path)
		if err != nil {
			switch ext {
			case ExtMP3:
				// dhowden/tag has issues with some UTF-16 encoded ID3 tags
				t, err = readID3v2(path)
			case ExtM4A, ExtMP4, ExtOPUS, ExtOGG, ExtOGA:
				t, err = readWithTaglib(path)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if !t.Has(Title) {
		t.Add(Title, filepath.Base(path))
	}
	if !t.HasDuration() {
		if d, derr := readDuration(path); derr == nil {
			t.Duration = d
		}
	}
	return t, nil
}

// readGeneric reads the common fields with dhowden/tag.
func readGeneric(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	t := New()
	t.Add(Artist, m.Artist())
	t.Add(Album, m.Album())
	t.Add(AlbumArtist, m.AlbumArtist())
	t.Add(Title, m.Title())
	if track, _ := m.Track(); track > 0 {
		t.Add(Track, strconv.Itoa(track))
	}
	t.Add(Genre, m.Genre())
	if year := m.Year(); year > 0 {
		t.Add(Date, strconv.Itoa(year))
	}
	t.Add(Composer, m.Composer())
	t.Add(Comment, m.Comment())
	if disc, _ := m.Disc(); disc > 0 {
		t.Add(Disc, strconv.Itoa(disc))
	}
	return t, nil
}
