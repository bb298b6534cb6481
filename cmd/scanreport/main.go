// Debug program: scans a folder into a throwaway index, round-trips it
// through an in-memory database and logs song counts, play time and the
// filename memory diagnostic.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/library"
	"github.com/llehouerou/wavesdb/internal/locate"
	"github.com/llehouerou/wavesdb/internal/logging"
	"github.com/llehouerou/wavesdb/internal/state"
)

func main() {
	logger, err := logging.New(os.Stderr, "debug")
	if err != nil {
		panic(err)
	}

	sourceDir := "."
	if len(os.Args) > 1 {
		sourceDir = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("Starting scan", "source", sourceDir)
	start := time.Now()

	idx := index.New()
	scanner := &library.Scanner{Logger: logger}
	stats, err := scanner.Scan(ctx, []string{sourceDir}, idx, nil)
	if err != nil {
		logger.Fatal("Scan failed", "err", err)
	}
	src := stats.BySource[sourceDir]
	logger.Info("Scan finished",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"songs", stats.Songs(),
		"skipped", len(src.Skipped))

	db, err := state.OpenMemory()
	if err != nil {
		logger.Fatal("Open database failed", "err", err)
	}
	defer db.Close()
	if err := index.Save(ctx, db.DB(), idx); err != nil {
		logger.Fatal("Save failed", "err", err)
	}
	loaded, err := index.Load(ctx, db.DB())
	if err != nil {
		logger.Fatal("Load failed", "err", err)
	}
	if loaded.Len() != idx.Len() {
		logger.Warn("Persisted index differs", "scanned", idx.Len(), "loaded", loaded.Len())
	}
	idx = loaded

	songs, err := locate.CountSongs(idx, "")
	if err != nil {
		logger.Fatal("Count failed", "err", err)
	}
	seconds, err := locate.SumDurations(idx, "")
	if err != nil {
		logger.Fatal("Duration sum failed", "err", err)
	}
	logger.Info("Library",
		"songs", humanize.Comma(int64(songs)),
		"playtime", (time.Duration(seconds) * time.Second).String())

	savings, err := locate.MemorySavings(idx, "", locate.DefaultRefSize)
	if err != nil {
		logger.Fatal("Memory diagnostic failed", "err", err)
	}
	logger.Info("Filename memory",
		"directory_savings", humanize.Comma(int64(savings.Directories))+" bytes",
		"song_names", humanize.Comma(int64(savings.Songs))+" bytes")

	for _, uri := range src.Skipped {
		logger.Debug("Skipped", "uri", uri)
	}
}
