// Package sinks provides progress sink implementations.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/progress"
)

// LogSink writes progress milestones through a zap logger, producing
// the per-domain console lines a long run is watched by.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink logging through logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Consume implements progress.Sink.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	switch evt.Stage {
	case progress.StageRunStart:
		s.logger.Info("Harvest run started",
			zap.String("run_id", evt.RunID),
			zap.Int("domains", evt.Total),
			zap.Int("start_index", evt.Index))
	case progress.StageDomainDone:
		s.logger.Info("Domain processed",
			zap.String("run_id", evt.RunID),
			zap.String("domain", evt.Domain),
			zap.Int("index", evt.Index+1),
			zap.Int("total", evt.Total),
			zap.String("result", string(evt.Result)),
			zap.Int("records", evt.Records),
			zap.String("note", evt.Note))
	case progress.StageRunDone:
		s.logger.Info("Harvest run finished",
			zap.String("run_id", evt.RunID),
			zap.Int("records", evt.Records),
			zap.String("note", evt.Note))
	}
	return nil
}

// Close implements progress.Sink.
func (s *LogSink) Close(context.Context) error { return nil }
