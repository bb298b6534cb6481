package locate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/query"
	"github.com/llehouerou/wavesdb/internal/tags"
	"github.com/llehouerou/wavesdb/internal/tagtracker"
)

// collectSink records everything emitted, in order.
type collectSink struct {
	lines []string
	err   error
}

func (c *collectSink) Song(s *index.Song) error {
	c.lines = append(c.lines, "song:"+s.URI())
	return c.err
}

func (c *collectSink) Directory(path string) error {
	c.lines = append(c.lines, "dir:"+path)
	return c.err
}

func (c *collectSink) Value(t query.Type, value string) error {
	c.lines = append(c.lines, t.String()+":"+value)
	return c.err
}

// fakePlaylists records appended songs and fails after failAfter appends
// when failAfter > 0.
type fakePlaylists struct {
	queue     []string
	stored    map[string][]string
	failAfter int
}

var errPlaylistFull = errors.New("playlist full")

func (f *fakePlaylists) full() bool {
	n := len(f.queue)
	for _, uris := range f.stored {
		n += len(uris)
	}
	return f.failAfter > 0 && n >= f.failAfter
}

func (f *fakePlaylists) AppendToQueue(s *index.Song) error {
	if f.full() {
		return errPlaylistFull
	}
	f.queue = append(f.queue, s.URI())
	return nil
}

func (f *fakePlaylists) AppendToStored(s *index.Song, playlist string) error {
	if f.full() {
		return errPlaylistFull
	}
	if f.stored == nil {
		f.stored = make(map[string][]string)
	}
	f.stored[playlist] = append(f.stored[playlist], s.URI())
	return nil
}

type testSong struct {
	uri      string
	artist   string
	album    string
	title    string
	duration int
	noTag    bool
}

func buildIndex(t *testing.T, songs ...testSong) *index.Index {
	t.Helper()
	idx := index.New()
	for _, ts := range songs {
		var tag *tags.Tag
		if !ts.noTag {
			tag = tags.New()
			tag.Add(tags.Artist, ts.artist)
			tag.Add(tags.Album, ts.album)
			tag.Add(tags.Title, ts.title)
			tag.Duration = ts.duration
		}
		_, err := idx.AddSong(ts.uri, tag)
		require.NoError(t, err)
	}
	return idx
}

func library(t *testing.T) *index.Index {
	t.Helper()
	return buildIndex(t,
		testSong{uri: "rock/radiohead/okc/01.mp3", artist: "Radiohead", album: "OK Computer", title: "Airbag", duration: 284},
		testSong{uri: "rock/radiohead/okc/02.mp3", artist: "Radiohead", album: "OK Computer", title: "Paranoid Android", duration: 383},
		testSong{uri: "rock/radiohead/kida/01.mp3", artist: "Radiohead", album: "Kid A", title: "Everything In Its Right Place", duration: tags.UnknownDuration},
		testSong{uri: "trip/portishead/dummy/01.flac", artist: "Portishead", album: "Dummy", title: "Mysterons", duration: 306},
		testSong{uri: "radio/one.mp3", artist: "Radio One", title: "Jingle", duration: 12},
		testSong{uri: "unsorted/radiohead-live.mp3", noTag: true},
	)
}

func mustBuild(t *testing.T, tokens ...string) query.Query {
	t.Helper()
	q, err := query.Build(tokens)
	require.NoError(t, err)
	return q
}

func TestSearch(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	err := Search(idx, "", mustBuild(t, "artist", "radio"), sink)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"song:radio/one.mp3",
		"song:rock/radiohead/kida/01.mp3",
		"song:rock/radiohead/okc/01.mp3",
		"song:rock/radiohead/okc/02.mp3",
	}, sink.lines)
}

func TestSearch_AnyIncludesUntaggedFiles(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	require.NoError(t, Search(idx, "unsorted", mustBuild(t, "any", "RADIOHEAD"), sink))
	assert.Equal(t, []string{"song:unsorted/radiohead-live.mp3"}, sink.lines)
}

func TestFind(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	require.NoError(t, Find(idx, "", mustBuild(t, "artist", "Radiohead", "album", "OK Computer"), sink))
	assert.Equal(t, []string{
		"song:rock/radiohead/okc/01.mp3",
		"song:rock/radiohead/okc/02.mp3",
	}, sink.lines)

	sink = &collectSink{}
	require.NoError(t, Find(idx, "", mustBuild(t, "artist", "radio"), sink))
	assert.Empty(t, sink.lines, "find matches whole values only")
}

func TestSearch_PathNotFound(t *testing.T) {
	idx := library(t)
	err := Search(idx, "jazz", query.Query{}, &collectSink{})
	assert.ErrorIs(t, err, index.ErrPathNotFound)
}

func TestSearch_SinkErrorAborts(t *testing.T) {
	idx := library(t)
	sink := &collectSink{err: errors.New("closed pipe")}

	err := Search(idx, "", query.Query{}, sink)
	require.Error(t, err)
	assert.Len(t, sink.lines, 1)
}

func TestPrintAll(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	require.NoError(t, PrintAll(idx, "rock/radiohead", sink))
	assert.Equal(t, []string{
		"dir:rock/radiohead",
		"dir:rock/radiohead/kida",
		"file:rock/radiohead/kida/01.mp3",
		"dir:rock/radiohead/okc",
		"file:rock/radiohead/okc/01.mp3",
		"file:rock/radiohead/okc/02.mp3",
	}, sink.lines)
}

func TestPrintInfoAll(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	require.NoError(t, PrintInfoAll(idx, "trip", sink))
	assert.Equal(t, []string{
		"dir:trip",
		"dir:trip/portishead",
		"dir:trip/portishead/dummy",
		"song:trip/portishead/dummy/01.flac",
	}, sink.lines)
}

func TestAddAll(t *testing.T) {
	idx := library(t)
	pl := &fakePlaylists{}

	require.NoError(t, AddAll(idx, "rock/radiohead/okc", pl))
	assert.Equal(t, []string{"rock/radiohead/okc/01.mp3", "rock/radiohead/okc/02.mp3"}, pl.queue)
	assert.Empty(t, pl.stored)
}

func TestAddAllToPlaylist(t *testing.T) {
	idx := library(t)
	pl := &fakePlaylists{}

	require.NoError(t, AddAllToPlaylist(idx, "trip", "chill", pl))
	assert.Empty(t, pl.queue)
	assert.Equal(t, map[string][]string{"chill": {"trip/portishead/dummy/01.flac"}}, pl.stored)
}

func TestAddAll_AbortsOnFirstFailure(t *testing.T) {
	idx := library(t)
	pl := &fakePlaylists{failAfter: 2}

	err := AddAll(idx, "", pl)
	require.ErrorIs(t, err, errPlaylistFull)
	assert.Contains(t, err.Error(), "rock/radiohead/okc/01.mp3")
	assert.Equal(t, []string{"radio/one.mp3", "rock/radiohead/kida/01.mp3"}, pl.queue)
}

func TestCountSongs_MatchesExhaustiveTraversal(t *testing.T) {
	idx := index.New()
	for d := range 7 {
		for s := range d + 1 {
			uri := fmt.Sprintf("level%d/dir%d/sub%d/song%d.mp3", d%3, d, s%2, s)
			_, err := idx.AddSong(uri, nil)
			require.NoError(t, err)
		}
	}

	for _, root := range []string{"", "level0", "level1/dir4", "level2/dir5/sub1"} {
		exhaustive := 0
		err := idx.Traverse(root, index.SongFunc(func(*index.Song) error {
			exhaustive++
			return nil
		}))
		require.NoError(t, err)

		got, err := CountSongs(idx, root)
		require.NoError(t, err)
		assert.Equal(t, exhaustive, got, "root %q", root)
	}

	total, err := CountSongs(idx, "")
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), total)
}

func TestCountSongs_SongAndMissingRoot(t *testing.T) {
	idx := library(t)

	got, err := CountSongs(idx, "radio/one.mp3")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = CountSongs(idx, "missing")
	assert.ErrorIs(t, err, index.ErrPathNotFound)
}

func TestSumDurations_IgnoresUnknown(t *testing.T) {
	idx := buildIndex(t,
		testSong{uri: "a.mp3", duration: 120},
		testSong{uri: "b.mp3", duration: tags.UnknownDuration},
		testSong{uri: "c.mp3", duration: 300},
		testSong{uri: "d.mp3", noTag: true},
	)

	got, err := SumDurations(idx, "")
	require.NoError(t, err)
	assert.Equal(t, 420, got)
}

func TestSumDurations_Subtree(t *testing.T) {
	idx := library(t)

	got, err := SumDurations(idx, "rock/radiohead")
	require.NoError(t, err)
	assert.Equal(t, 284+383, got)
}

func TestListUniqueValues_Deduplicates(t *testing.T) {
	idx := library(t)
	tr := tagtracker.New()
	sink := &collectSink{}

	require.NoError(t, ListUniqueValues(idx, query.Type(tags.Artist), query.Query{}, tr, sink))
	assert.Equal(t, []string{
		"Artist:Portishead",
		"Artist:Radio One",
		"Artist:Radiohead",
	}, sink.lines)
}

func TestListUniqueValues_Filtered(t *testing.T) {
	idx := library(t)
	tr := tagtracker.New()
	sink := &collectSink{}

	q := mustBuild(t, "artist", "Radiohead")
	require.NoError(t, ListUniqueValues(idx, query.Type(tags.Album), q, tr, sink))
	assert.Equal(t, []string{"Album:Kid A", "Album:OK Computer"}, sink.lines)
}

func TestListUniqueValues_FileIsNotDeduplicated(t *testing.T) {
	idx := buildIndex(t,
		testSong{uri: "a/1.mp3", artist: "Same"},
		testSong{uri: "a/2.mp3", artist: "Same"},
		testSong{uri: "b/1.mp3", artist: "Other"},
	)
	tr := tagtracker.New()

	files := &collectSink{}
	require.NoError(t, ListUniqueValues(idx, query.File, mustBuild(t, "artist", "Same"), tr, files))
	assert.Equal(t, []string{"file:a/1.mp3", "file:a/2.mp3"}, files.lines)

	artists := &collectSink{}
	require.NoError(t, ListUniqueValues(idx, query.Type(tags.Artist), mustBuild(t, "artist", "Same"), tr, artists))
	assert.Equal(t, []string{"Artist:Same"}, artists.lines)
}

func TestListUniqueValues_ResetsTracker(t *testing.T) {
	idx := library(t)
	tr := tagtracker.New()
	tr.MarkSeen(tags.Artist, "Stale")

	sink := &collectSink{}
	q := mustBuild(t, "album", "Dummy")
	require.NoError(t, ListUniqueValues(idx, query.Type(tags.Artist), q, tr, sink))
	assert.Equal(t, []string{"Artist:Portishead"}, sink.lines)
}

func TestListUniqueValues_AnyListsNothing(t *testing.T) {
	idx := library(t)
	sink := &collectSink{}

	require.NoError(t, ListUniqueValues(idx, query.Any, query.Query{}, tagtracker.New(), sink))
	assert.Empty(t, sink.lines)
}

func TestMemorySavings(t *testing.T) {
	idx := buildIndex(t,
		testSong{uri: "ab/x.mp3", noTag: true},
		testSong{uri: "ab/yy.mp3", noTag: true},
		testSong{uri: "top.mp3", noTag: true},
	)

	got, err := MemorySavings(idx, "", 8)
	require.NoError(t, err)
	// directory "ab": (2+1-8)*2; the root is skipped
	assert.Equal(t, -10, got.Directories)
	// names relative to their directory: "x.mp3"+1 + "yy.mp3"+1 + "top.mp3"+1
	assert.Equal(t, 6+7+8, got.Songs)

	got, err = MemorySavings(idx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Directories)
}
