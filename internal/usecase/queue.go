package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

// DownloadRunner is what the queue hands each request to.
type DownloadRunner interface {
	Download(ctx context.Context, req domain.DownloadRequest, sink ports.UpdateSink) (string, error)
}

type errorAction int

const (
	actionRetry errorAction = iota
	actionCancel
)

const updateBuffer = 64

// Queue processes download requests one at a time in the order they were added.
type Queue struct {
	runner DownloadRunner
	log    *slog.Logger

	mu        sync.Mutex
	pending   []domain.DownloadRequest
	cancelCur context.CancelFunc

	wake    chan struct{}
	actions chan errorAction
	updates chan domain.Update
}

type QueueOption func(*Queue)

func WithQueueLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}

func NewQueue(r DownloadRunner, opts ...QueueOption) *Queue {
	q := &Queue{
		runner:  r,
		log:     slog.New(slog.DiscardHandler),
		wake:    make(chan struct{}, 1),
		actions: make(chan errorAction, 1),
		updates: make(chan domain.Update, updateBuffer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Updates is closed when Run returns.
func (q *Queue) Updates() <-chan domain.Update { return q.updates }

func (q *Queue) Add(req domain.DownloadRequest) {
	q.mu.Lock()
	q.pending = append(q.pending, req)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Remove drops a request that has not started yet.
func (q *Queue) Remove(id uint32) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Pending() []domain.DownloadRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.DownloadRequest, len(q.pending))
	copy(out, q.pending)
	return out
}

// CancelCurrent aborts the running download, including one waiting for
// Retry or CancelOnError.
func (q *Queue) CancelCurrent() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancelCur != nil {
		q.cancelCur()
	}
}

// Retry restarts a failed download from scratch.
func (q *Queue) Retry() { q.sendAction(actionRetry) }

// CancelOnError gives up on a failed download.
func (q *Queue) CancelOnError() { q.sendAction(actionCancel) }

func (q *Queue) sendAction(a errorAction) {
	select {
	case q.actions <- a:
	default:
	}
}

// Run works through the queue until ctx is cancelled. Idle is sent once each
// time the queue runs dry.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.updates)

	idle := false
	for ctx.Err() == nil {
		req, ok := q.pop()
		if !ok {
			if !idle {
				if !q.emit(ctx, domain.Idle{}) {
					return
				}
				idle = true
			}
			select {
			case <-q.wake:
			case <-ctx.Done():
				return
			}
			continue
		}
		idle = false
		q.process(ctx, req)
	}
}

func (q *Queue) pop() (domain.DownloadRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return domain.DownloadRequest{}, false
	}
	req := q.pending[0]
	q.pending = q.pending[1:]
	return req, true
}

func (q *Queue) process(ctx context.Context, req domain.DownloadRequest) {
	reqCtx, cancel := context.WithCancel(ctx)
	q.mu.Lock()
	q.cancelCur = cancel
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.cancelCur = nil
		q.mu.Unlock()
		cancel()
	}()

	sink := ports.SinkFunc(func(u domain.Update) { q.emit(ctx, u) })
	for {
		_, err := q.runner.Download(reqCtx, req, sink)
		if err == nil {
			return
		}
		if reqCtx.Err() != nil {
			q.log.Info("queue.cancelled", "id", req.ID)
			return
		}

		q.log.Error("queue.download_failed", "id", req.ID, "err", err)
		q.drainActions()
		if !q.emit(ctx, domain.Failed{Err: err}) {
			return
		}

		select {
		case a := <-q.actions:
			if a == actionCancel {
				q.log.Info("queue.dropped", "id", req.ID)
				return
			}
			q.log.Info("queue.retry", "id", req.ID)
		case <-reqCtx.Done():
			q.log.Info("queue.cancelled", "id", req.ID)
			return
		}
	}
}

// drainActions discards answers given while no download was waiting for one.
func (q *Queue) drainActions() {
	for {
		select {
		case <-q.actions:
		default:
			return
		}
	}
}

func (q *Queue) emit(ctx context.Context, u domain.Update) bool {
	select {
	case q.updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
