package service

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"samplehub/internal/domain"
)

type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) *Report
}

// AsyncNotifier dispatches events in the background so callers never wait on
// delivery.
type AsyncNotifier struct {
	dispatcher EventDispatcher
	wg         conc.WaitGroup

	// mu guards closed and every wg.Go, so no dispatch is added once
	// Shutdown has started waiting.
	mu     sync.Mutex
	closed bool
	logger *zap.Logger
}

func NewAsyncNotifier(dispatcher EventDispatcher, logger *zap.Logger) *AsyncNotifier {
	return &AsyncNotifier{dispatcher: dispatcher, logger: logger}
}

func (n *AsyncNotifier) Enqueue(event domain.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		n.logger.Warn("notifier closed, dropping event", zap.String("eventId", event.ID), zap.String("sampleId", event.SampleID))
		return
	}
	n.wg.Go(func() {
		n.dispatcher.Dispatch(context.Background(), event)
	})
}

// Shutdown stops accepting events and waits for in-flight dispatches until
// ctx ends.
func (n *AsyncNotifier) Shutdown(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
