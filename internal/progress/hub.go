package progress

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sink consumes progress events. Implementations must tolerate
// repeated calls and honor ctx deadlines.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Hub satisfies this interface so
// the runner stays agnostic about where events go.
type Emitter interface {
	Emit(evt Event)
}

const sinkTimeout = 5 * time.Second

// Hub fans events out to registered sinks. The batch runner is strictly
// sequential and emits at domain granularity, so dispatch is
// synchronous; a failing sink is logged and never interrupts the run.
type Hub struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewHub builds a Hub over the provided sinks.
func NewHub(logger *zap.Logger, sinks ...Sink) *Hub {
	return &Hub{sinks: append([]Sink(nil), sinks...), logger: logger}
}

// Emit validates evt and dispatches it to every sink.
func (h *Hub) Emit(evt Event) {
	if h == nil {
		return
	}
	if err := evt.Validate(); err != nil {
		h.logger.Debug("Discarding invalid progress event", zap.Error(err))
		return
	}
	for _, s := range h.sinks {
		if s == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := s.Consume(ctx, evt); err != nil {
			h.logger.Warn("Progress sink consume failed", zap.Error(err))
		}
		cancel()
	}
}

// Close shuts down every sink.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	var firstErr error
	for _, s := range h.sinks {
		if s == nil {
			continue
		}
		if err := s.Close(ctx); err != nil {
			h.logger.Warn("Progress sink close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
