package msgbox

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// blockingGateway answers once release receives a code.
type blockingGateway struct {
	release chan ButtonCode
	calls   atomic.Int32
	seen    chan Request
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		release: make(chan ButtonCode),
		seen:    make(chan Request, 1),
	}
}

func (g *blockingGateway) Show(req Request) (ButtonCode, error) {
	g.calls.Add(1)
	g.seen <- req
	return <-g.release, nil
}

func TestSessionTryGetResult(t *testing.T) {
	t.Parallel()

	g := newBlockingGateway()
	req := Request{Text: "test text", Title: "test title", Flags: OKCancel | IconError | SystemModal}
	s := NewSession(g, req, WithPollInterval(time.Millisecond))

	if _, ok, _ := s.TryGetResult(); ok {
		t.Fatal("TryGetResult() answered before ShowAsync")
	}

	s.ShowAsync()
	if got := <-g.seen; got != req {
		t.Fatalf("gateway got %+v, want %+v", got, req)
	}

	for i := 0; i < 10; i++ {
		if _, ok, _ := s.TryGetResult(); ok {
			t.Fatal("TryGetResult() answered before the gateway returned")
		}
	}

	g.release <- IDCANCEL

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	code, err := s.WaitForResult(ctx)
	if err != nil {
		t.Fatalf("WaitForResult() error = %v", err)
	}
	if code != IDCANCEL {
		t.Fatalf("WaitForResult() = %v, want %v", code, IDCANCEL)
	}

	for i := 0; i < 10; i++ {
		got, ok, err := s.TryGetResult()
		if !ok || err != nil || got != IDCANCEL {
			t.Fatalf("TryGetResult() = (%v, %v, %v), want (%v, true, nil)", got, ok, err, IDCANCEL)
		}
	}
}

func TestSessionShowAsyncOnce(t *testing.T) {
	t.Parallel()

	g := newBlockingGateway()
	s := NewSession(g, Request{Flags: YesNo}, WithPollInterval(time.Millisecond))

	s.ShowAsync()
	s.ShowAsync()
	<-g.seen
	s.ShowAsync()
	g.release <- IDYES

	code, err := s.WaitForResult(context.Background())
	if err != nil || code != IDYES {
		t.Fatalf("WaitForResult() = (%v, %v), want (%v, nil)", code, err, IDYES)
	}
	if n := g.calls.Load(); n != 1 {
		t.Errorf("gateway called %d times, want 1", n)
	}
}

func TestSessionGatewayError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewSession(GatewayFunc(func(Request) (ButtonCode, error) {
		return 0, boom
	}), Request{}, WithPollInterval(time.Millisecond))

	if _, err := s.Show(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Show() error = %v, want %v", err, boom)
	}
	if _, ok, err := s.TryGetResult(); !ok || !errors.Is(err, boom) {
		t.Errorf("TryGetResult() = (_, %v, %v), want (_, true, %v)", ok, err, boom)
	}
}

func TestSessionWaitHonorsContext(t *testing.T) {
	t.Parallel()

	g := newBlockingGateway()
	s := NewSession(g, Request{}, WithPollInterval(time.Millisecond))
	s.ShowAsync()
	<-g.seen

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.WaitForResult(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitForResult() error = %v, want %v", err, context.DeadlineExceeded)
	}

	// The dialog is still pending and can be answered later.
	g.release <- IDOK
	code, err := s.WaitForResult(context.Background())
	if err != nil || code != IDOK {
		t.Fatalf("WaitForResult() = (%v, %v), want (%v, nil)", code, err, IDOK)
	}
}

func TestWithPollInterval(t *testing.T) {
	t.Parallel()

	if s := NewSession(nil, Request{}); s.pollInterval != DefaultPollInterval {
		t.Errorf("default pollInterval = %v, want %v", s.pollInterval, DefaultPollInterval)
	}
	if s := NewSession(nil, Request{}, WithPollInterval(0)); s.pollInterval != DefaultPollInterval {
		t.Errorf("WithPollInterval(0) pollInterval = %v, want %v", s.pollInterval, DefaultPollInterval)
	}
	if s := NewSession(nil, Request{}, WithPollInterval(5*time.Millisecond)); s.pollInterval != 5*time.Millisecond {
		t.Errorf("pollInterval = %v, want 5ms", s.pollInterval)
	}
}
