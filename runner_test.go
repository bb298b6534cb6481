package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/wavesdb/internal/config"
	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/playlists"
	"github.com/llehouerou/wavesdb/internal/query"
	"github.com/llehouerou/wavesdb/internal/state"
	"github.com/llehouerou/wavesdb/internal/tags"
)

type testEnv struct {
	runner *Runner
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m, err := state.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Config: &config.Config{LogLevel: "error", ScanWorkers: 2},
		Logger: log.New(io.Discard),
		Output: out,
		State:  m,
	})
	r.index = testIndex(t)
	return &testEnv{runner: r, out: out}
}

func testIndex(t *testing.T) *index.Index {
	t.Helper()
	idx := index.New()
	songs := []struct {
		uri, artist, album, title string
		duration                  int
	}{
		{"rock/radiohead/okc/01.mp3", "Radiohead", "OK Computer", "Airbag", 284},
		{"rock/radiohead/okc/02.mp3", "Radiohead", "OK Computer", "Paranoid Android", 383},
		{"trip/portishead/01.flac", "Portishead", "Dummy", "Mysterons", 306},
	}
	for _, s := range songs {
		tag := tags.New()
		tag.Add(tags.Artist, s.artist)
		tag.Add(tags.Album, s.album)
		tag.Add(tags.Title, s.title)
		tag.Duration = s.duration
		_, err := idx.AddSong(s.uri, tag)
		require.NoError(t, err)
	}
	return idx
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	// flag state lives in the command tree, so every run gets a fresh one
	app := &cli.Command{
		Name:     "wavesdb",
		Flags:    globalFlags(),
		Commands: e.runner.register(),
	}
	err := app.Run(context.Background(), append([]string{"wavesdb", "--plain"}, args...))
	return e.out.String(), err
}

func TestRunner_NewRunnerDefaults(t *testing.T) {
	r := NewRunner(RunnerOpts{})

	assert.NotNil(t, r.logger)
	assert.Equal(t, os.Stdout, r.output)
	assert.NotNil(t, r.tracker)
}

func TestRunner_Find(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "find", "artist", "Radiohead", "title", "Airbag")
	require.NoError(t, err)
	assert.Equal(t, "file: rock/radiohead/okc/01.mp3\n"+
		"Artist: Radiohead\n"+
		"Album: OK Computer\n"+
		"Title: Airbag\n"+
		"Time: 284\n", out)
}

func TestRunner_SearchWithRoot(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "search", "--root", "trip", "any", "head")
	require.NoError(t, err)
	assert.Contains(t, out, "file: trip/portishead/01.flac")
	assert.NotContains(t, out, "radiohead")
}

func TestRunner_QueryError(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "find", "artist")
	require.ErrorIs(t, err, query.ErrOddArguments)
	assert.Contains(t, err.Error(), "Failed to parse query")

	_, err = e.run(t, "search", "colour", "red")
	require.ErrorIs(t, err, query.ErrUnknownTag)
}

func TestRunner_MatchRequiresQuery(t *testing.T) {
	e := newTestEnv(t)

	for _, name := range []string{"search", "find"} {
		out, err := e.run(t, name)
		require.ErrorIs(t, err, errMissingArg, name)
		assert.Empty(t, out, name)
	}
}

func TestRunner_RootNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "listall", "jazz")
	require.ErrorIs(t, err, index.ErrPathNotFound)
	assert.Contains(t, err.Error(), "'jazz'")
}

func TestRunner_List(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "list", "album")
	require.NoError(t, err)
	assert.Equal(t, "Album: Dummy\nAlbum: OK Computer\n", out)

	out, err = e.run(t, "list", "file", "album", "Dummy")
	require.NoError(t, err)
	assert.Equal(t, "file: trip/portishead/01.flac\n", out)

	_, err = e.run(t, "list")
	require.ErrorIs(t, err, errMissingArg)
}

func TestRunner_ListAll(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "listall", "rock")
	require.NoError(t, err)
	assert.Equal(t, "directory: rock\n"+
		"directory: rock/radiohead\n"+
		"directory: rock/radiohead/okc\n"+
		"file: rock/radiohead/okc/01.mp3\n"+
		"file: rock/radiohead/okc/02.mp3\n", out)

	out, err = e.run(t, "listallinfo", "trip/portishead/01.flac")
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Mysterons\n")
}

func TestRunner_AddAndQueue(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "add", "rock/radiohead/okc/02.mp3")
	require.NoError(t, err)
	_, err = e.run(t, "add", "trip")
	require.NoError(t, err)

	out, err := e.run(t, "queue")
	require.NoError(t, err)
	assert.Equal(t, "file: rock/radiohead/okc/02.mp3\n"+
		"Title: Paranoid Android\n"+
		"Artist: Radiohead\n"+
		"Album: OK Computer\n"+
		"Time: 383\n"+
		"file: trip/portishead/01.flac\n"+
		"Title: Mysterons\n"+
		"Artist: Portishead\n"+
		"Album: Dummy\n"+
		"Time: 306\n"+
		"playtime: 11:29\n", out)

	_, err = e.run(t, "queue", "--clear")
	require.NoError(t, err)
	out, err = e.run(t, "queue")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunner_Playlists(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "playlistadd", "Mix", "rock")
	require.NoError(t, err)

	out, err := e.run(t, "playlists")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "playlist: Mix\nLast-Modified: "), out)

	out, err = e.run(t, "playlists", "--meta")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "playlist_begin: Mix\nmtime: "), out)
	assert.True(t, strings.HasSuffix(out, "playlist_end\n"), out)

	out, err = e.run(t, "playlists", "Mix")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "playlist: Mix\nLast-Modified: "), out)
	assert.Equal(t, 2, strings.Count(out, "file: "))
	assert.True(t, strings.HasSuffix(out, "Time: 383\nplaytime: 11:07\n"), out)

	_, err = e.run(t, "playlists", "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'Nope'")

	_, err = e.run(t, "playlistadd")
	require.ErrorIs(t, err, errMissingArg)
}

func TestRunner_PlaylistsDelete(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "playlistadd", "Mix", "trip")
	require.NoError(t, err)
	_, err = e.run(t, "playlistadd", "Other", "trip")
	require.NoError(t, err)

	_, err = e.run(t, "playlists", "--delete", "Mix")
	require.NoError(t, err)

	out, err := e.run(t, "playlists")
	require.NoError(t, err)
	assert.NotContains(t, out, "playlist: Mix\n")
	assert.Contains(t, out, "playlist: Other\n")

	_, err = e.run(t, "playlists", "Mix")
	require.ErrorIs(t, err, playlists.ErrNotFound)

	_, err = e.run(t, "playlists", "--delete", "Mix")
	require.ErrorIs(t, err, playlists.ErrNotFound)
	assert.Contains(t, err.Error(), "Failed to delete playlist 'Mix'")
}

func TestRunner_PlaylistsImport(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "meta.txt")
	require.NoError(t, os.WriteFile(path, []byte("playlist_begin: Old\nmtime: 1500000000\nplaylist_end\n"), 0o600))

	_, err := e.run(t, "playlists", "--import", path)
	require.NoError(t, err)

	out, err := e.run(t, "playlists", "--meta")
	require.NoError(t, err)
	assert.Equal(t, "playlist_begin: Old\nmtime: 1500000000\nplaylist_end\n", out)
}

func TestRunner_Stats(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "songs: 3\n")
	assert.Contains(t, out, "db_playtime: 973\n")
	assert.Contains(t, out, "playtime: 16:13\n")

	out, err = e.run(t, "stats", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, "songs: 1\n")
}

func TestRunner_MemStat(t *testing.T) {
	e := newTestEnv(t)
	e.runner.config.RefSize = 8

	out, err := e.run(t, "memstat", "trip")
	require.NoError(t, err)
	// "trip": (4+1-8)*0, "trip/portishead": (15+1-8)*1
	// "01.flac"+1
	assert.Equal(t, "directory_savings: 8\nsong_names: 8\n", out)
}

func TestRunner_ScanWithoutSources(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run(t, "scan")
	require.ErrorIs(t, err, errNoSources)
}

func TestRunner_ScanConfiguredSourcesReplacesIndex(t *testing.T) {
	e := newTestEnv(t)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.flac"), []byte("not audio"), 0o600))
	e.runner.config.LibrarySources = []string{src}

	_, err := e.run(t, "scan")
	require.NoError(t, err)

	// Every indexed song vanished from the sources; the unreadable file is skipped
	assert.Equal(t, 0, e.runner.index.Len())

	loaded, err := index.Load(context.Background(), e.runner.state.DB())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestRunner_ScanExplicitSourceKeepsLibrary(t *testing.T) {
	e := newTestEnv(t)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.flac"), []byte("not audio"), 0o600))

	_, err := e.run(t, "scan", src)
	require.NoError(t, err)

	assert.Equal(t, 3, e.runner.index.Len())

	loaded, err := index.Load(context.Background(), e.runner.state.DB())
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
}

func TestCmdError(t *testing.T) {
	base := errors.New("boom")
	err := fail("scan library", "/music", base)

	assert.Equal(t, "Failed to scan library '/music': boom", err.Error())
	assert.ErrorIs(t, err, base)
}
