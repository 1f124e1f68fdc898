// Package watcher runs the detection loop: it periodically scans the album
// for items newer than the watermark, queues them for upload and wakes the
// worker. The loop never blocks on network I/O.
package watcher

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/queue"
)

// Scanner enumerates album items. Implemented by pkg/album.
type Scanner interface {
	LastItem() (string, error)
	NewItems(lastItem string) ([]string, error)
}

// Starter wakes the upload worker. Implemented by uploader.Worker.
type Starter interface {
	StartIfIdle(ctx context.Context)
}

// Watcher owns the watermark and drives detection ticks at a fixed interval.
// The watermark advances to every discovered item even when the queue
// rejects it, trading bounded loss under overload for guaranteed forward
// progress.
type Watcher struct {
	scanner   Scanner
	queue     *queue.Queue
	worker    Starter
	interval  time.Duration
	log       zerolog.Logger
	watermark string
}

// New returns a watcher ticking at the given interval, clamped to one second
// minimum.
func New(scanner Scanner, q *queue.Queue, worker Starter, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval < time.Second {
		interval = time.Second
	}
	return &Watcher{
		scanner:  scanner,
		queue:    q,
		worker:   worker,
		interval: interval,
		log:      log,
	}
}

// Watermark returns the most recently observed item path, or "" before the
// first successful scan.
func (w *Watcher) Watermark() string {
	return w.watermark
}

// Run probes the album once to seed the watermark, then ticks forever until
// the context is canceled. Only this goroutine touches the watermark.
func (w *Watcher) Run(ctx context.Context) error {
	if item, err := w.scanner.LastItem(); err == nil {
		w.watermark = item
		w.log.Info().Str("file", item).Msg("current last album item")
	} else {
		w.log.Info().Err(err).Msg("album not ready")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.Tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick performs one detection cycle: scan for new items, enqueue the
// non-empty ones, advance the watermark and wake the worker when work is
// pending. Scan failures skip the cycle without touching the watermark.
func (w *Watcher) Tick(ctx context.Context) {
	items, err := w.scanner.NewItems(w.watermark)
	if err != nil {
		w.log.Debug().Err(err).Msg("scan failed, skipping cycle")
		return
	}

	for _, item := range items {
		size := fileSize(item)
		if size == 0 {
			// Zero bytes usually means the capture is still being
			// written; leave it for a later cycle.
			continue
		}

		if w.queue.Add(item, size) {
			w.log.Info().
				Str("file", item).
				Int("queue", w.queue.Len()).
				Msg("new album item")
		} else {
			w.log.Error().Str("file", item).Msg("queue full, dropping item")
		}
		// Advance even when the add was rejected: a dropped item is lost
		// rather than retried forever.
		w.watermark = item
	}

	if w.queue.Len() > 0 {
		// Once a delivery starts it runs to completion; canceling the
		// detection context stops the ticker, never an in-flight upload.
		w.worker.StartIfIdle(context.WithoutCancel(ctx))
	}
}

// fileSize returns the item's size in bytes, or zero when it cannot be
// determined.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
