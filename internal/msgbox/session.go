package msgbox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often WaitForResult checks whether the dialog has
// been answered.
const DefaultPollInterval = 100 * time.Millisecond

type answer struct {
	code ButtonCode
	err  error
}

// Session wraps a single message box invocation with a pollable result.
//
// The result is written exactly once, by the goroutine started in ShowAsync,
// and may be read from any goroutine afterwards.
type Session struct {
	gateway      Gateway
	req          Request
	pollInterval time.Duration

	start  sync.Once
	result atomic.Pointer[answer]
}

// Option configures a Session.
type Option func(*Session)

// WithPollInterval sets how often WaitForResult polls. Non-positive values
// keep the default.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// NewSession returns an unanswered session for req.
func NewSession(g Gateway, req Request, opts ...Option) *Session {
	s := &Session{
		gateway:      g,
		req:          req,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request returns the request this session shows.
func (s *Session) Request() Request { return s.req }

// ShowAsync starts the dialog on its own goroutine and returns immediately.
// Only the first call has an effect.
func (s *Session) ShowAsync() {
	s.start.Do(func() {
		go func() {
			code, err := s.gateway.Show(s.req)
			s.result.Store(&answer{code: code, err: err})
		}()
	})
}

// TryGetResult reports the result without blocking. ok is false until the
// dialog has been dismissed; after that every call returns the same values.
func (s *Session) TryGetResult() (code ButtonCode, ok bool, err error) {
	a := s.result.Load()
	if a == nil {
		return 0, false, nil
	}
	return a.code, true, a.err
}

// WaitForResult blocks until the dialog has been answered or ctx is done.
// A cancelled ctx stops the wait only; the dialog itself stays on screen.
// WaitForResult does not start the dialog, see ShowAsync.
func (s *Session) WaitForResult(ctx context.Context) (ButtonCode, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if code, ok, err := s.TryGetResult(); ok {
			return code, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Show starts the dialog and waits for the answer.
func (s *Session) Show(ctx context.Context) (ButtonCode, error) {
	s.ShowAsync()
	return s.WaitForResult(ctx)
}
