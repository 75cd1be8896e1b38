package sinks

import (
	"context"
	"sync"
	"time"

	"github.com/webgov/harvester/internal/progress"
)

// RunState is a point-in-time snapshot of the current harvest run,
// served by the status endpoint.
type RunState struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Domain    string    `json:"domain,omitempty"`
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Records   int       `json:"records"`
	Done      bool      `json:"done"`
}

// StateSink folds progress events into a RunState snapshot.
type StateSink struct {
	mu    sync.RWMutex
	state RunState
}

// NewStateSink returns an empty state sink.
func NewStateSink() *StateSink {
	return &StateSink{}
}

// Consume implements progress.Sink.
func (s *StateSink) Consume(_ context.Context, evt progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch evt.Stage {
	case progress.StageRunStart:
		s.state = RunState{
			RunID:     evt.RunID,
			StartedAt: evt.TS,
			Index:     evt.Index,
			Total:     evt.Total,
		}
	case progress.StageDomainDone:
		s.state.Domain = evt.Domain
		s.state.Index = evt.Index
		s.state.Records += evt.Records
		switch evt.Result {
		case progress.ResultRecorded:
			s.state.Succeeded++
		case progress.ResultEmpty, progress.ResultError:
			s.state.Failed++
		}
	case progress.StageRunDone:
		s.state.Done = true
	}
	return nil
}

// Close implements progress.Sink.
func (s *StateSink) Close(context.Context) error { return nil }

// Snapshot returns a copy of the current state.
func (s *StateSink) Snapshot() RunState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
