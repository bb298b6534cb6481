package library

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/wavesdb/internal/index"
)

// processFiles reads files in parallel and inserts the songs into idx from
// the calling goroutine.
func (s *Scanner) processFiles(
	ctx context.Context,
	files []fileInfo,
	idx *index.Index,
	stats *ScanStats,
	progress chan<- ScanProgress,
) error {
	total := len(files)
	if total == 0 {
		return nil
	}
	logger := s.logger()
	var processed atomic.Int64

	workCh := make(chan fileInfo)
	resultCh := make(chan songResult, s.workers())

	var wg sync.WaitGroup
	for range s.workers() {
		wg.Go(func() {
			for f := range workCh {
				if ctx.Err() != nil {
					continue
				}
				tag, err := s.readTag(f.path)
				processed.Add(1)
				resultCh <- songResult{file: f, tag: tag, err: err}
			}
		})
	}

	// Send work to workers until done or cancelled
	go func() {
		defer close(workCh)
		for _, f := range files {
			select {
			case workCh <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	done := make(chan struct{})
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		if progress == nil {
			return
		}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p := ScanProgress{Phase: PhaseProcessing, Current: int(processed.Load()), Total: total}
				select {
				case progress <- p:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Collect results and insert into the index (not safe for concurrent use)
	for r := range resultCh {
		src := stats.BySource[r.file.source]
		if r.err != nil {
			logger.Debug("skipping unreadable file", "path", r.file.path, "err", r.err)
			src.Skipped = append(src.Skipped, r.file.uri)
			continue
		}

		existed := idx.Song(r.file.uri) != nil
		if _, err := idx.AddSong(r.file.uri, r.tag); err != nil {
			logger.Warn("cannot index file", "path", r.file.path, "err", err)
			src.Skipped = append(src.Skipped, r.file.uri)
			continue
		}
		if existed {
			src.Updated = append(src.Updated, r.file.uri)
		} else {
			src.Added = append(src.Added, r.file.uri)
		}
	}

	close(done)
	<-reporterDone

	if err := ctx.Err(); err != nil {
		return err
	}
	if progress != nil {
		progress <- ScanProgress{Phase: PhaseProcessing, Current: total, Total: total}
	}
	return nil
}
