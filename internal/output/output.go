// Package output renders lookup results as MPD-style "key: value" lines,
// either plain or styled for a terminal.
package output

import (
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/locate"
	"github.com/llehouerou/wavesdb/internal/query"
)

// Line keys shared by both renderings.
const (
	KeyFile      = "file"
	KeyDirectory = "directory"
	KeyTime      = "Time"
)

// Sink is a locate.Sink that can also print arbitrary key/value lines.
type Sink interface {
	locate.Sink
	Pair(key, value string) error
}

// New returns a Styled sink when w is a terminal and plain is false, and a
// Text sink otherwise.
func New(w io.Writer, plain bool) Sink {
	if !plain && IsTerminal(w) {
		return NewStyled(w)
	}
	return NewText(w)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// lineFunc renders one key/value line, without the newline.
type lineFunc func(key, value string) string

func writeLine(w io.Writer, line lineFunc, key, value string) error {
	_, err := io.WriteString(w, line(key, value)+"\n")
	return err
}

// writeSong writes the location line, one line per tag item, then the
// duration when known.
func writeSong(w io.Writer, line lineFunc, s *index.Song) error {
	if err := writeLine(w, line, KeyFile, s.URI()); err != nil {
		return err
	}
	if s.Tag == nil {
		return nil
	}
	for _, it := range s.Tag.Items {
		if err := writeLine(w, line, it.Type.String(), it.Value); err != nil {
			return err
		}
	}
	if s.Tag.HasDuration() {
		return writeLine(w, line, KeyTime, strconv.Itoa(s.Tag.Duration))
	}
	return nil
}

func valueKey(t query.Type) string {
	if t == query.File {
		return KeyFile
	}
	return t.String()
}
