package tags

import (
	"github.com/bogem/id3v2/v2"
)

// id3Frames maps ID3v2 text frames to tag types.
var id3Frames = []struct {
	id  string
	typ Type
}{
	{"TPE1", Artist},
	{"TALB", Album},
	{"TPE2", AlbumArtist},
	{"TIT2", Title},
	{"TCON", Genre},
	{"TCOM", Composer},
	{"TPE3", Performer},
}

// readID3v2 reads MP3 metadata using only the id3v2 library.
// This is used when dhowden/tag fails (e.g., on some UTF-16 encoded tags).
func readID3v2(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	t := New()
	for _, f := range id3Frames {
		for _, v := range getID3TextFrames(id3tag, f.id) {
			t.Add(f.typ, v)
		}
	}

	t.addNumber(Track, getID3TextFrame(id3tag, "TRCK"))
	t.addNumber(Disc, getID3TextFrame(id3tag, "TPOS"))

	// ID3v2.4 recording date, then ID3v2.3 year
	date := getID3TextFrame(id3tag, "TDRC")
	if date == "" {
		date = id3tag.Year()
	}
	t.Add(Date, date)

	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Comments")) {
		if c, ok := frame.(id3v2.CommentFrame); ok {
			t.Add(Comment, c.Text)
			break
		}
	}
	return t, nil
}

// getID3TextFrame reads the first text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	if values := getID3TextFrames(id3tag, frameID); len(values) > 0 {
		return values[0]
	}
	return ""
}

func getID3TextFrames(id3tag *id3v2.Tag, frameID string) []string {
	var values []string
	for _, frame := range id3tag.GetFrames(frameID) {
		if tf, ok := frame.(id3v2.TextFrame); ok {
			values = append(values, tf.Text)
		}
	}
	return values
}
