package editor

import (
	"context"
	"errors"
	"time"

	"github.com/example/photoedit/internal/importer"
)

// ErrClosed is returned by Post once the session has shut down.
var ErrClosed = errors.New("editor session closed")

// Event is a unit of work run on the session's goroutine.
type Event func(*Session)

// Post hands ev to the goroutine running Run. It blocks while the event
// queue is full and fails once the session is closed.
func (s *Session) Post(ev Event) error {
	select {
	case <-s.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// Run owns the session until ctx is done: it applies posted events and
// import results, and repaints at most once per frame interval. The session
// is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	ticker := time.NewTicker(s.cfg.frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return nil
		case ev := <-s.events:
			ev(s)
		case res := <-s.imp.Results():
			s.HandleImport(res)
		case <-ticker.C:
			s.sched.Tick(s.ctx)
		}
	}
}

// Import decodes src in the background. The result is applied by Run, or by
// HandleImport when the caller drives the session itself.
func (s *Session) Import(src importer.Source) *importer.Job {
	return s.imp.Start(s.ctx, src)
}

// ImportResults exposes finished imports to callers that do not use Run.
func (s *Session) ImportResults() <-chan importer.Result { return s.imp.Results() }

// HandleImport applies a finished import. A failed decode is reported and
// leaves the object model untouched.
func (s *Session) HandleImport(res importer.Result) {
	if res.Err != nil {
		s.log.Printf("import %s: %v", res.Name, res.Err)
		s.report(res.Err)
		return
	}
	if res.Image == nil {
		return
	}
	s.AddImage(res.Image, 0, 0)
}
