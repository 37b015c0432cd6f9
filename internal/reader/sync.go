package reader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blackwell-systems/readctl/internal/library"
)

// DefaultQuietInterval is how long relocation events must stop before a
// progress write fires.
const DefaultQuietInterval = 5 * time.Second

// ProgressWriter persists a progress percentage for a book. Satisfied by
// *library.Service.
type ProgressWriter interface {
	Update(ctx context.Context, bookID string, patch library.Patch) (*library.Entry, error)
}

// ProgressSync collapses a burst of relocation events into at most one
// upstream write per quiet interval, carrying only the last percentage seen.
// It holds the latest pending value explicitly rather than capturing state
// in timer closures.
type ProgressSync struct {
	writer ProgressWriter
	bookID string
	quiet  time.Duration
	log    *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	pending  int
	armed    bool
	canceled bool
	inflight sync.WaitGroup
}

// NewProgressSync creates a synchronizer for one book. quiet <= 0 selects
// the default interval.
func NewProgressSync(writer ProgressWriter, bookID string, quiet time.Duration, log *slog.Logger) *ProgressSync {
	if quiet <= 0 {
		quiet = DefaultQuietInterval
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ProgressSync{
		writer: writer,
		bookID: bookID,
		quiet:  quiet,
		log:    log,
	}
}

// Note records a relocation. The pending value is replaced, not queued, and
// the quiet-interval timer restarts.
func (s *ProgressSync) Note(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.pending = percent
	s.armed = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.quiet, s.flush)
	} else {
		s.timer.Reset(s.quiet)
	}
}

// flush fires after a full quiet interval. An initial or unknown position
// (percent <= 0) is never persisted. Write failures are logged and dropped;
// progress sync is best-effort, not safety-critical.
func (s *ProgressSync) flush() {
	s.mu.Lock()
	if s.canceled || !s.armed {
		s.mu.Unlock()
		return
	}
	percent := s.pending
	s.armed = false
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	if percent <= 0 {
		return
	}

	progress := float64(percent)
	patch := library.Patch{Progress: &progress}
	if _, err := s.writer.Update(context.Background(), s.bookID, patch); err != nil {
		s.log.Warn("progress write failed", "book", s.bookID, "percent", percent, "error", err)
	}
}

// Cancel stops the synchronizer. A pending write that has not fired yet is
// dropped, not flushed.
func (s *ProgressSync) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.armed = false
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	s.inflight.Wait()
}
