package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

type fakeServer struct {
	addr string

	listenErr   error
	shutdownErr error

	// started closes when ListenAndServe runs, so tests can hold the
	// shutdown signal until the listen goroutine is actually scheduled.
	started chan struct{}

	listenCalled   bool
	shutdownCalled bool
	closeCalled    bool
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{
		addr:      ":0",
		listenErr: listenErr,
		started:   make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	f.listenCalled = true
	close(f.started)
	return f.listenErr
}
func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdownCalled = true
	return f.shutdownErr
}
func (f *fakeServer) Close() error {
	f.closeCalled = true
	return nil
}
func (f *fakeServer) Addr() string { return f.addr }

func TestRun_BootstrapFail_Returns1(t *testing.T) {
	build := func() (httpServer, func(), error) {
		return nil, func() {}, errors.New("boom")
	}

	if got := Run(build, make(chan os.Signal, 1), zerolog.Nop()); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestRun_OnSignal_ShutdownAndReturn0(t *testing.T) {
	fs := newFakeServer(http.ErrServerClosed)

	// Deliver the signal only after the listen goroutine has run, so the
	// signal path is taken with ListenAndServe observed.
	sigCh := make(chan os.Signal, 1)
	go func() {
		<-fs.started
		sigCh <- os.Interrupt
	}()

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if got := Run(build, sigCh, zerolog.Nop()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if !fs.listenCalled || !fs.shutdownCalled {
		t.Fatalf("expected listen and shutdown to be called")
	}
	if fs.closeCalled {
		t.Fatalf("did not expect Close on graceful shutdown")
	}
	if !cleanupCalled {
		t.Fatalf("expected cleanup called")
	}
}

func TestRun_OnServerCrash_Return1(t *testing.T) {
	fs := newFakeServer(errors.New("crash"))

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if got := Run(build, make(chan os.Signal, 1), zerolog.Nop()); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if fs.shutdownCalled {
		t.Fatalf("did not expect Shutdown on crash path")
	}
	if !cleanupCalled {
		t.Fatalf("expected cleanup called")
	}
}

func TestRun_ShutdownFail_ForcesClose(t *testing.T) {
	fs := newFakeServer(http.ErrServerClosed)
	fs.shutdownErr = errors.New("shutdown failed")

	sigCh := make(chan os.Signal, 1)
	go func() {
		<-fs.started
		sigCh <- os.Interrupt
	}()

	build := func() (httpServer, func(), error) {
		return fs, func() {}, nil
	}

	_ = Run(build, sigCh, zerolog.Nop())

	if !fs.shutdownCalled {
		t.Fatalf("expected Shutdown called")
	}
	if !fs.closeCalled {
		t.Fatalf("expected Close when Shutdown fails")
	}
}
