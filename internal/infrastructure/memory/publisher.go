package memory

import (
	"context"
	"sync"

	"github.com/taskapp/auth-service/internal/application/auth"
)

// NoopPublisher satisfies auth.EventPublisher when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) PublishSecurityEvent(context.Context, auth.SecurityEvent) error {
	return nil
}

// RecordingPublisher captures published events for assertions in tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []auth.SecurityEvent
}

func NewRecordingPublisher() *RecordingPublisher { return &RecordingPublisher{} }

func (p *RecordingPublisher) PublishSecurityEvent(_ context.Context, evt auth.SecurityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *RecordingPublisher) Events() []auth.SecurityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]auth.SecurityEvent(nil), p.events...)
}
