package services

import (
	"context"
	"sync"
	"time"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/sse"
)

const (
	progressTickInterval = 500 * time.Millisecond
	progressStep         = 7
	// progressCeiling caps the simulated percentage. 100 is only ever
	// reported by Complete, after the provider has actually responded.
	progressCeiling = 90
)

// ProgressService runs one cosmetic progress simulation per channel. The
// percentage advances on a fixed interval and carries no correctness
// contract; it exists so clients have something to render while the
// provider round trip is outstanding. Starting a simulation for a
// channel cancels any previous one on that channel.
type ProgressService interface {
	Start(ctx context.Context, channel string) ProgressHandle
}

// ProgressHandle finishes or abandons one simulation. Exactly one of
// Complete or Fail should be called; both are safe to call after the
// handle was superseded.
type ProgressHandle interface {
	Complete(data any)
	Fail(message string)
}

type progressService struct {
	log *logger.Logger
	hub *sse.Hub

	mu     sync.Mutex
	active map[string]*progressRun
}

func NewProgressService(log *logger.Logger, hub *sse.Hub) ProgressService {
	return &progressService{
		log:    log.With("service", "ProgressService"),
		hub:    hub,
		active: make(map[string]*progressRun),
	}
}

type progressRun struct {
	svc     *progressService
	channel string
	cancel  context.CancelFunc

	mu   sync.Mutex
	done bool
}

func (s *progressService) Start(ctx context.Context, channel string) ProgressHandle {
	runCtx, cancel := context.WithCancel(ctx)
	run := &progressRun{svc: s, channel: channel, cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.active[channel]; ok {
		// A newer request supersedes the old simulation; stale progress
		// must never reach clients once the new request has started.
		prev.stop()
	}
	s.active[channel] = run
	s.mu.Unlock()

	go run.loop(runCtx)
	return run
}

func (r *progressRun) loop(ctx context.Context) {
	ticker := time.NewTicker(progressTickInterval)
	defer ticker.Stop()

	percent := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			percent += progressStep
			if percent > progressCeiling {
				percent = progressCeiling
			}
			r.svc.hub.Broadcast(sse.Message{
				Channel: r.channel,
				Event:   sse.EventTranscriptionProgress,
				Data:    map[string]any{"percent": percent},
			})
		}
	}
}

// stop halts the ticker without emitting a terminal event; used when a
// newer request supersedes this one.
func (r *progressRun) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.done = true
	r.cancel()
}

func (r *progressRun) finish(event sse.Event, data any) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.cancel()
	r.mu.Unlock()

	r.svc.mu.Lock()
	if r.svc.active[r.channel] == r {
		delete(r.svc.active, r.channel)
	}
	r.svc.mu.Unlock()

	r.svc.hub.Broadcast(sse.Message{Channel: r.channel, Event: event, Data: data})
}

func (r *progressRun) Complete(data any) {
	r.finish(sse.EventTranscriptionCompleted, map[string]any{"percent": 100, "result": data})
}

func (r *progressRun) Fail(message string) {
	r.finish(sse.EventTranscriptionFailed, map[string]any{"message": message})
}
