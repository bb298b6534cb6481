package main

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/wavesdb/internal/errmsg"
	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/library"
	"github.com/llehouerou/wavesdb/internal/locate"
	"github.com/llehouerou/wavesdb/internal/output"
	"github.com/llehouerou/wavesdb/internal/playlist"
	"github.com/llehouerou/wavesdb/internal/playlists"
	"github.com/llehouerou/wavesdb/internal/query"
)

var (
	errNoSources  = errors.New("no library sources configured")
	errMissingArg = errors.New("missing argument")
)

func rootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "root",
		Usage: "Restrict the lookup to a directory or song",
	}
}

// Scan walks the library sources and saves the resulting index.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	sources := r.config.LibrarySources
	explicit := cmd.NArg() > 0
	if explicit {
		sources = cmd.Args().Slice()
	}
	if len(sources) == 0 {
		return fail(errmsg.OpLibraryScan, "", errNoSources)
	}

	progress := make(chan library.ScanProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		phase := ""
		for p := range progress {
			if p.Phase != phase {
				phase = p.Phase
				r.logger.Info("scan", "phase", phase)
			}
			r.logger.Debug("scan progress", "phase", p.Phase, "current", p.Current, "total", p.Total)
		}
	}()

	scanner := &library.Scanner{
		Workers:     r.config.ScanWorkers,
		Logger:      r.logger,
		KeepMissing: explicit,
	}
	stats, err := scanner.Scan(ctx, sources, r.index, progress)
	<-done
	if err != nil {
		return fail(errmsg.OpLibraryScan, "", err)
	}

	if err := index.Save(ctx, r.state.DB(), r.index); err != nil {
		return fail(errmsg.OpLibrarySave, "", err)
	}

	for _, src := range sources {
		s := stats.BySource[src]
		r.logger.Info("source scanned",
			"source", src,
			"added", len(s.Added),
			"updated", len(s.Updated),
			"skipped", len(s.Skipped))
	}
	r.logger.Info("scan complete",
		"scanned", humanize.Comma(int64(stats.Songs())),
		"songs", humanize.Comma(int64(r.index.Len())),
		"removed", len(stats.Removed))
	return nil
}

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan the library sources and rebuild the index",
		ArgsUsage: "[SOURCE...]",
		Description: "Without arguments the configured library_sources are scanned and\n" +
			"songs no longer found under them are removed. Given SOURCE arguments,\n" +
			"only those folders are scanned and the other songs are kept.",
		Action: r.Scan,
	}
}

// Search prints the songs matching a case-insensitive substring query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	return r.match(ctx, cmd, errmsg.OpSearch, locate.Search)
}

// Find prints the songs matching an exact query.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	return r.match(ctx, cmd, errmsg.OpFind, locate.Find)
}

type matchFunc func(*index.Index, string, query.Query, locate.Sink) error

func (r *Runner) match(ctx context.Context, cmd *cli.Command, op errmsg.Op, fn matchFunc) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	if cmd.NArg() == 0 {
		return fail(op, "", errMissingArg)
	}
	q, err := query.Build(cmd.Args().Slice())
	if err != nil {
		return fail(errmsg.OpQuery, "", err)
	}
	root := cmd.String("root")
	if err := fn(r.index, root, q, r.sink(cmd)); err != nil {
		return fail(op, root, err)
	}
	return nil
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Print songs whose tags contain the given values, ignoring case",
		ArgsUsage: "TYPE VALUE [TYPE VALUE...]",
		Flags:     []cli.Flag{rootFlag()},
		Action:    r.Search,
	}
}

func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Print songs whose tags equal the given values",
		ArgsUsage: "TYPE VALUE [TYPE VALUE...]",
		Flags:     []cli.Flag{rootFlag()},
		Action:    r.Find,
	}
}

// List prints the distinct values of a tag among the songs matching the
// optional exact query.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	if cmd.NArg() == 0 {
		return fail(errmsg.OpList, "", errMissingArg)
	}

	args := cmd.Args().Slice()
	typ, err := query.ResolveType(args[0])
	if err != nil {
		return fail(errmsg.OpQuery, args[0], err)
	}
	q, err := query.Build(args[1:])
	if err != nil {
		return fail(errmsg.OpQuery, "", err)
	}
	if err := locate.ListUniqueValues(r.index, typ, q, r.tracker, r.sink(cmd)); err != nil {
		return fail(errmsg.OpList, typ.String(), err)
	}
	return nil
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Print the distinct values of a tag",
		ArgsUsage: "TYPE [TYPE VALUE...]",
		Action:    r.List,
	}
}

// ListAll prints every directory and song location under a path.
func (r *Runner) ListAll(ctx context.Context, cmd *cli.Command) error {
	return r.print(ctx, cmd, locate.PrintAll)
}

// ListAllInfo prints every directory and song, with metadata, under a path.
func (r *Runner) ListAllInfo(ctx context.Context, cmd *cli.Command) error {
	return r.print(ctx, cmd, locate.PrintInfoAll)
}

func (r *Runner) print(ctx context.Context, cmd *cli.Command, fn func(*index.Index, string, locate.Sink) error) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	root := cmd.Args().First()
	if err := fn(r.index, root, r.sink(cmd)); err != nil {
		return fail(errmsg.OpListAll, root, err)
	}
	return nil
}

func listAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "listall",
		Usage:     "Print every directory and song location",
		ArgsUsage: "[PATH]",
		Action:    r.ListAll,
	}
}

func listAllInfoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "listallinfo",
		Usage:     "Print every directory and song with its tags",
		ArgsUsage: "[PATH]",
		Action:    r.ListAllInfo,
	}
}

// Add appends every song under a path to the queue.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	root := cmd.Args().First()
	if err := locate.AddAll(r.index, root, r.store()); err != nil {
		return fail(errmsg.OpQueueAdd, root, err)
	}
	return nil
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Append songs to the queue",
		ArgsUsage: "[PATH]",
		Action:    r.Add,
	}
}

// PlaylistAdd appends every song under a path to a stored playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	name := cmd.Args().First()
	if name == "" {
		return fail(errmsg.OpPlaylistAddTrack, "", errMissingArg)
	}
	root := cmd.Args().Get(1)
	if err := locate.AddAllToPlaylist(r.index, root, name, r.store()); err != nil {
		return fail(errmsg.OpPlaylistAddTrack, name, err)
	}
	return nil
}

func playlistAddCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlistadd",
		Usage:     "Append songs to a stored playlist, creating it if needed",
		ArgsUsage: "NAME [PATH]",
		Action:    r.PlaylistAdd,
	}
}

// Queue prints the queue, or clears it.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	store := r.store()
	if cmd.Bool("clear") {
		if err := store.ClearQueue(); err != nil {
			return fail(errmsg.OpQueueClear, "", err)
		}
		return nil
	}

	pl, err := store.Queue()
	if err != nil {
		return fail(errmsg.OpQueueLoad, "", err)
	}
	if err := printTracks(r.sink(cmd), pl); err != nil {
		return fail(errmsg.OpQueueLoad, "", err)
	}
	return nil
}

func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Print the queue",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Remove every song from the queue",
			},
		},
		Action: r.Queue,
	}
}

// Playlists lists the stored playlists, prints one of them, or reads and
// writes their metadata blocks.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	store := r.store()

	if path := cmd.String("import"); path != "" {
		return r.importMetadata(store, path)
	}

	if name := cmd.String("delete"); name != "" {
		if err := store.Delete(name); err != nil {
			return fail(errmsg.OpPlaylistDelete, name, err)
		}
		r.logger.Info("playlist deleted", "name", name)
		return nil
	}

	if name := cmd.Args().First(); name != "" {
		return r.printPlaylist(cmd, store, name)
	}

	infos, err := store.List()
	if err != nil {
		return fail(errmsg.OpPlaylistList, "", err)
	}
	if cmd.Bool("meta") {
		if err := playlists.WriteMetadata(r.output, infos); err != nil {
			return fail(errmsg.OpPlaylistList, "", err)
		}
		return nil
	}

	sink := r.sink(cmd)
	for _, info := range infos {
		if err := printInfo(sink, info); err != nil {
			return fail(errmsg.OpPlaylistList, "", err)
		}
	}
	return nil
}

// printPlaylist writes the header of a stored playlist, then its tracks.
func (r *Runner) printPlaylist(cmd *cli.Command, store *playlists.Store, name string) error {
	info, err := store.Get(name)
	if err != nil {
		return fail(errmsg.OpPlaylistLoad, name, err)
	}
	pl, err := store.Tracks(name)
	if err != nil {
		return fail(errmsg.OpPlaylistLoad, name, err)
	}

	sink := r.sink(cmd)
	if err := printInfo(sink, *info); err != nil {
		return fail(errmsg.OpPlaylistLoad, name, err)
	}
	if err := printTracks(sink, pl); err != nil {
		return fail(errmsg.OpPlaylistLoad, name, err)
	}
	return nil
}

func printInfo(sink output.Sink, info playlists.Info) error {
	if err := sink.Pair("playlist", info.Name); err != nil {
		return err
	}
	if info.MTime.IsZero() {
		return nil
	}
	return sink.Pair("Last-Modified", info.MTime.UTC().Format(time.RFC3339))
}

func (r *Runner) importMetadata(store *playlists.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fail(errmsg.OpPlaylistImport, path, err)
	}
	defer f.Close()

	infos, err := playlists.ParseMetadata(f)
	if err != nil {
		return fail(errmsg.OpPlaylistImport, path, err)
	}
	if err := store.MergeMetadata(infos); err != nil {
		return fail(errmsg.OpPlaylistImport, path, err)
	}
	r.logger.Info("playlist metadata imported", "playlists", len(infos))
	return nil
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlists",
		Usage:     "List, print, import or delete stored playlists",
		ArgsUsage: "[NAME]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "meta",
				Usage: "Print playlist metadata blocks",
			},
			&cli.StringFlag{
				Name:  "import",
				Usage: "Merge playlist metadata blocks from a file",
			},
			&cli.StringFlag{
				Name:  "delete",
				Usage: "Delete a stored playlist and its songs",
			},
		},
		Action: r.Playlists,
	}
}

// Stats prints the song count and total play time under a path.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	root := cmd.Args().First()

	songs, err := locate.CountSongs(r.index, root)
	if err != nil {
		return fail(errmsg.OpStats, root, err)
	}
	seconds, err := locate.SumDurations(r.index, root)
	if err != nil {
		return fail(errmsg.OpStats, root, err)
	}

	sink := r.sink(cmd)
	pairs := [][2]string{
		{"songs", strconv.Itoa(songs)},
		{"db_playtime", strconv.Itoa(seconds)},
		{"playtime", playlist.FormatDuration(time.Duration(seconds) * time.Second)},
	}
	if fi, err := os.Stat(r.state.Path()); err == nil {
		pairs = append(pairs, [2]string{"db_size", humanize.IBytes(uint64(fi.Size()))}) //nolint:gosec // file sizes are non-negative
	}
	return writePairs(sink, errmsg.OpStats, pairs)
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Print the number of songs and the total play time",
		ArgsUsage: "[PATH]",
		Action:    r.Stats,
	}
}

// MemStat prints the filename memory diagnostic under a path.
func (r *Runner) MemStat(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}
	root := cmd.Args().First()

	savings, err := locate.MemorySavings(r.index, root, r.refSize())
	if err != nil {
		return fail(errmsg.OpMemoryStat, root, err)
	}
	r.logger.Debug("filename memory",
		"ref_size", r.refSize(),
		"directory_savings", humanize.Comma(int64(savings.Directories)),
		"song_names", humanize.Comma(int64(savings.Songs)))

	return writePairs(r.sink(cmd), errmsg.OpMemoryStat, [][2]string{
		{"directory_savings", strconv.Itoa(savings.Directories)},
		{"song_names", strconv.Itoa(savings.Songs)},
	})
}

func memstatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "memstat",
		Usage:     "Print the filename memory diagnostic",
		ArgsUsage: "[PATH]",
		Action:    r.MemStat,
	}
}

// printTracks writes one block per track: its location, then the known
// title, artist, album and duration. A non-empty list ends with its total
// play time.
func printTracks(sink output.Sink, pl *playlist.Playlist) error {
	for _, t := range pl.Tracks() {
		if err := sink.Pair(output.KeyFile, t.URI); err != nil {
			return err
		}
		for _, kv := range [][2]string{{"Title", t.Title}, {"Artist", t.Artist}, {"Album", t.Album}} {
			if kv[1] == "" {
				continue
			}
			if err := sink.Pair(kv[0], kv[1]); err != nil {
				return err
			}
		}
		if t.Duration > 0 {
			if err := sink.Pair(output.KeyTime, strconv.Itoa(int(t.Duration.Seconds()))); err != nil {
				return err
			}
		}
	}
	if pl.Len() == 0 {
		return nil
	}
	return sink.Pair("playtime", playlist.FormatDuration(pl.Duration()))
}

func writePairs(sink output.Sink, op errmsg.Op, pairs [][2]string) error {
	for _, kv := range pairs {
		if err := sink.Pair(kv[0], kv[1]); err != nil {
			return fail(op, "", err)
		}
	}
	return nil
}
