package tags

import (
	"errors"
	"strings"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// vorbisKeys maps upper-cased Vorbis comment keys to tag types.
var vorbisKeys = map[string]Type{
	"ARTIST":      Artist,
	"ALBUM":       Album,
	"ALBUMARTIST": AlbumArtist,
	"TITLE":       Title,
	"GENRE":       Genre,
	"DATE":        Date,
	"COMPOSER":    Composer,
	"PERFORMER":   Performer,
	"COMMENT":     Comment,
	"DESCRIPTION": Comment,
}

var errNoFLACMetadata = errors.New("flac: no vorbis comment or stream info")

// readFLAC reads Vorbis comments and the STREAMINFO duration of a FLAC file.
func readFLAC(path string) (*Tag, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	t := New()
	found := false
	for _, meta := range f.Meta {
		switch meta.Type {
		case goflac.VorbisComment:
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return nil, err
			}
			addVorbisComments(t, cmts.Comments)
			found = true
		case goflac.StreamInfo:
			if d, ok := streamInfoDuration(meta.Data); ok {
				t.Duration = d
			}
			found = true
		}
	}
	if !found {
		return nil, errNoFLACMetadata
	}
	return t, nil
}

// addVorbisComments adds KEY=value comments, keeping repeated keys as
// separate items.
func addVorbisComments(t *Tag, comments []string) {
	for _, c := range comments {
		idx := strings.Index(c, "=")
		if idx <= 0 {
			continue
		}
		addProperty(t, c[:idx], c[idx+1:])
	}
}

// addProperty adds a value stored under a Vorbis-style property key.
// TagLib uses the same key names for every format.
func addProperty(t *Tag, key, value string) {
	key = strings.ToUpper(key)
	switch key {
	case "TRACKNUMBER":
		t.addNumber(Track, value)
	case "DISCNUMBER":
		t.addNumber(Disc, value)
	default:
		if typ, ok := vorbisKeys[key]; ok {
			t.Add(typ, value)
		}
	}
}

// streamInfoDuration computes whole seconds from a STREAMINFO block.
func streamInfoDuration(data []byte) (int, bool) {
	if len(data) < 18 {
		return 0, false
	}
	// Sample rate: 20 bits starting at byte 10
	sampleRate := int64(data[10])<<12 | int64(data[11])<<4 | int64(data[12])>>4
	// Total samples: 36 bits, low nibble of byte 13 then bytes 14-17
	totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
	if sampleRate == 0 || totalSamples == 0 {
		return 0, false
	}
	return int(totalSamples / sampleRate), true
}
