package playlists

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Markers of the playlist metadata text block.
const (
	metaBegin = "playlist_begin: "
	metaEnd   = "playlist_end"
	metaMTime = "mtime"
)

// WriteMetadata writes one metadata block per playlist. The mtime line is
// omitted when the modification time is unknown.
func WriteMetadata(w io.Writer, infos []Info) error {
	bw := bufio.NewWriter(w)
	for _, info := range infos {
		fmt.Fprintf(bw, "%s%s\n", metaBegin, info.Name)
		if !info.MTime.IsZero() {
			fmt.Fprintf(bw, "%s: %d\n", metaMTime, info.MTime.Unix())
		}
		fmt.Fprintln(bw, metaEnd)
	}
	return bw.Flush()
}

// ReadMetadata reads the body of the block describing playlist name, up to
// and including the playlist_end line or the end of input.
func ReadMetadata(sc *bufio.Scanner, name string) (Info, error) {
	info := Info{Name: name}
	for sc.Scan() {
		line := sc.Text()
		if line == metaEnd {
			return info, nil
		}

		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return Info{}, fmt.Errorf("unknown line in db: %s", line)
		}
		key := line[:colon]
		value := strings.TrimLeft(line[colon+1:], " \t")

		switch key {
		case metaMTime:
			sec, _ := strconv.ParseInt(value, 10, 64)
			info.MTime = fromUnix(sec)
		default:
			return Info{}, fmt.Errorf("unknown line in db: %s", key)
		}
	}
	return info, sc.Err()
}

// ParseMetadata reads a sequence of metadata blocks. A playlist named
// twice keeps the last block.
func ParseMetadata(r io.Reader) ([]Info, error) {
	var infos []Info
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		name, ok := strings.CutPrefix(line, metaBegin)
		if !ok {
			return nil, fmt.Errorf("unknown line in db: %s", line)
		}
		info, err := ReadMetadata(sc, name)
		if err != nil {
			return nil, err
		}
		infos = Merge(infos, info)
	}
	return infos, sc.Err()
}

// Merge replaces the entry with the same name, or appends info.
func Merge(infos []Info, info Info) []Info {
	for i := range infos {
		if infos[i].Name == info.Name {
			infos[i] = info
			return infos
		}
	}
	return append(infos, info)
}
