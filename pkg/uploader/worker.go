package uploader

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// TaskQueue is the pending-upload buffer the worker drains.
type TaskQueue interface {
	Get() (model.UploadTask, bool)
}

// Recorder persists the outcome of a processed task. Implemented by
// pkg/journal; a nil Recorder disables journaling.
type Recorder interface {
	Record(task model.UploadTask, outcomes map[string]bool) error
}

// Worker drains the upload queue with at most one background drain goroutine
// at a time. For each task it runs the retry scheduler against every
// destination in the configured order and aggregates per-item success.
type Worker struct {
	queue        TaskQueue
	destinations []Destination
	retrier      *Retrier
	journal      Recorder
	log          zerolog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWorker returns an idle worker. destinations must already be filtered to
// the enabled ones and ordered.
func NewWorker(q TaskQueue, destinations []Destination, retrier *Retrier, journal Recorder, log zerolog.Logger) *Worker {
	return &Worker{
		queue:        q,
		destinations: destinations,
		retrier:      retrier,
		journal:      journal,
		log:          log,
	}
}

// Running reports whether a drain goroutine is currently active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// StartIfIdle spawns a drain goroutine unless one is already active. A
// finished previous instance is joined before the replacement starts, so at
// most one drain runs at any time.
func (w *Worker) StartIfIdle(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	prev := w.done
	done := make(chan struct{})
	w.done = done
	w.running = true
	w.mu.Unlock()

	if prev != nil {
		<-prev
	}
	go w.drain(ctx, done)
}

// Wait blocks until the current drain goroutine, if any, has exited.
func (w *Worker) Wait() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (w *Worker) drain(ctx context.Context, done chan struct{}) {
	w.log.Info().Msg("worker started")
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(done)
		w.log.Info().Msg("worker exiting")
	}()

	for {
		task, ok := w.queue.Get()
		if !ok {
			return
		}
		w.process(ctx, task)
	}
}

func (w *Worker) process(ctx context.Context, task model.UploadTask) {
	log := w.log.With().
		Str("task_id", uuid.NewString()).
		Str("file", task.Path).
		Logger()

	log.Info().
		Int64("size", task.Size).
		Str("kind", task.Kind().String()).
		Int("max_attempts", task.Kind().MaxAttempts()).
		Msg("uploading")

	outcomes := make(map[string]bool, len(w.destinations))
	anySuccess := false

	for _, dest := range w.destinations {
		err := w.retrier.Do(ctx, dest, task)
		if err != nil {
			log.Error().
				Err(err).
				Str("destination", dest.Name()).
				Msg("upload failed after all attempts")
			outcomes[dest.Name()] = false
			continue
		}
		outcomes[dest.Name()] = true
		anySuccess = true
	}

	if !anySuccess {
		log.Error().Msg("all uploads failed")
	}

	if w.journal != nil {
		if err := w.journal.Record(task, outcomes); err != nil {
			log.Warn().Err(err).Msg("failed to record journal entry")
		}
	}
}
