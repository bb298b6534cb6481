package playlist

import (
	"fmt"
	"time"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// FromSong converts an index song to a playlist track.
func FromSong(s *index.Song) Track {
	t := Track{URI: s.URI()}
	if s.Tag == nil {
		return t
	}
	t.Title = s.Tag.Get(tags.Title)
	t.Artist = s.Tag.Get(tags.Artist)
	t.Album = s.Tag.Get(tags.Album)
	if s.Tag.HasDuration() {
		t.Duration = time.Duration(s.Tag.Duration) * time.Second
	}
	return t
}

// FromURI resolves a stored location against the index. Locations no longer
// in the index yield a bare track marked Missing.
func FromURI(idx *index.Index, uri string) Track {
	if idx != nil {
		if s := idx.Song(uri); s != nil {
			return FromSong(s)
		}
	}
	return Track{URI: uri, Missing: true}
}

// FormatDuration formats a duration as MM:SS, or H:MM:SS past one hour.
func FormatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
