package webhook

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

type Sender interface {
	Send(ctx context.Context, event EventPayload) error
}

type WorkerConfig struct {
	MaxAttempts int
	// RetryBase is the first retry delay, doubled on every attempt
	RetryBase time.Duration
	// Tick is how often pending retries are checked
	Tick time.Duration
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxAttempts: 5,
		RetryBase:   time.Second,
		Tick:        time.Second,
	}
}

// Worker delivers emotion changes to the webhook, retrying failures with
// exponential backoff. Pending jobs live in memory and are lost on restart.
type Worker struct {
	sender Sender
	cfg    WorkerConfig
	queue  chan *Job
	logger *slog.Logger

	mu      sync.Mutex
	pending []*Job
}

func NewWorker(sender Sender, cfg WorkerConfig, logger *slog.Logger) *Worker {
	defaults := DefaultWorkerConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaults.RetryBase
	}
	if cfg.Tick <= 0 {
		cfg.Tick = defaults.Tick
	}
	return &Worker{
		sender: sender,
		cfg:    cfg,
		queue:  make(chan *Job, 64),
		logger: logger.With("component", "webhook"),
	}
}

// Listener enqueues an emotion.updated event for every state change.
func (w *Worker) Listener() state.Listener {
	return func(s state.Snapshot) {
		w.Enqueue(EventPayload{
			ID:        uuid.NewString(),
			Type:      EventEmotionUpdated,
			Data:      s,
			Timestamp: time.Now().UTC(),
		})
	}
}

func (w *Worker) Enqueue(event EventPayload) {
	job := &Job{Event: event, MaxAttempts: w.cfg.MaxAttempts}
	select {
	case w.queue <- job:
	default:
		w.logger.Warn("webhook queue full, event dropped", "event_id", event.ID)
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Tick)
	defer ticker.Stop()

	w.logger.Info("webhook worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook worker stopped", "pending", w.Pending())
			return
		case job := <-w.queue:
			w.processJob(ctx, job)
		case <-ticker.C:
			w.processRetries(ctx)
		}
	}
}

// Pending is the number of jobs waiting for a retry.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *Worker) processRetries(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var due []*Job
	kept := w.pending[:0]
	for _, job := range w.pending {
		if !job.NextRetryAt.After(now) {
			due = append(due, job)
		} else {
			kept = append(kept, job)
		}
	}
	w.pending = kept
	w.mu.Unlock()

	for _, job := range due {
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *Job) {
	job.Attempts++
	err := w.sender.Send(ctx, job.Event)
	if err == nil {
		w.logger.Debug("webhook delivered", "event_id", job.Event.ID, "attempts", job.Attempts)
		return
	}

	job.LastError = err.Error()
	if job.Attempts >= job.MaxAttempts {
		w.logger.Warn("webhook job failed", "event_id", job.Event.ID, "attempts", job.Attempts, "error", job.LastError)
		return
	}

	delay := w.cfg.RetryBase * time.Duration(1<<(job.Attempts-1))
	job.NextRetryAt = time.Now().Add(delay)

	w.mu.Lock()
	w.pending = append(w.pending, job)
	w.mu.Unlock()

	w.logger.Info("webhook job scheduled for retry",
		"event_id", job.Event.ID,
		"attempts", job.Attempts,
		"next_retry", job.NextRetryAt,
	)
}
