package output

import (
	"io"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
)

// Text writes plain "key: value" lines.
type Text struct {
	w io.Writer
}

// NewText creates a plain sink writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func plainLine(key, value string) string {
	return key + ": " + value
}

func (t *Text) Song(s *index.Song) error {
	return writeSong(t.w, plainLine, s)
}

func (t *Text) Directory(path string) error {
	return writeLine(t.w, plainLine, KeyDirectory, path)
}

func (t *Text) Value(typ query.Type, value string) error {
	return writeLine(t.w, plainLine, valueKey(typ), value)
}

func (t *Text) Pair(key, value string) error {
	return writeLine(t.w, plainLine, key, value)
}
