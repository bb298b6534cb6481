package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
)

// keyWidth is the display width the key column is padded to.
const keyWidth = 12

var (
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	dirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1a208")).Bold(true)
	baseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c0c0"))
)

// Styled writes the same lines as Text with terminal colors.
type Styled struct {
	w io.Writer
}

// NewStyled creates a colored sink writing to w.
func NewStyled(w io.Writer) *Styled {
	return &Styled{w: w}
}

func styledLine(key, value string) string {
	var v lipgloss.Style
	switch key {
	case KeyFile:
		v = fileStyle
	case KeyDirectory:
		v = dirStyle
	default:
		v = baseStyle
	}
	return keyStyle.Render(runewidth.FillRight(key+":", keyWidth)) + " " + v.Render(value)
}

func (s *Styled) Song(song *index.Song) error {
	return writeSong(s.w, styledLine, song)
}

func (s *Styled) Directory(path string) error {
	return writeLine(s.w, styledLine, KeyDirectory, path)
}

func (s *Styled) Value(typ query.Type, value string) error {
	return writeLine(s.w, styledLine, valueKey(typ), value)
}

func (s *Styled) Pair(key, value string) error {
	return writeLine(s.w, styledLine, key, value)
}
