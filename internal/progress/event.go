// Package progress defines the events emitted by the batch runner and
// the sinks that consume them.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported progress stages.
const (
	StageRunStart   Stage = "RUN_START"
	StageDomainDone Stage = "DOMAIN_DONE"
	StageRunDone    Stage = "RUN_DONE"
)

// DomainResult classifies the outcome of one domain's scrape.
type DomainResult string

// Domain outcomes tracked per event.
const (
	ResultRecorded DomainResult = "recorded"
	ResultEmpty    DomainResult = "empty"
	ResultError    DomainResult = "error"
	ResultSkipped  DomainResult = "skipped"
)

// Event captures one milestone of a harvest run.
type Event struct {
	// RunID identifies the run this event belongs to.
	RunID string
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage is the milestone kind.
	Stage Stage
	// Domain scopes DOMAIN_DONE events.
	Domain string
	// Index is the domain's position in the input list.
	Index int
	// Total is the input list length.
	Total int
	// Records is the number of signal records written for the event's
	// scope (one domain, or the whole run for RUN_DONE).
	Records int
	// Result classifies DOMAIN_DONE outcomes.
	Result DomainResult
	// Note carries low-volume context such as error text.
	Note string
}

// Validate performs coarse validation before an event is dispatched.
func (e Event) Validate() error {
	if e.RunID == "" {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageDomainDone:
		if e.Domain == "" {
			return errors.New("domain done requires domain")
		}
		switch e.Result {
		case ResultRecorded, ResultEmpty, ResultError, ResultSkipped:
		default:
			return fmt.Errorf("unknown domain result %q", e.Result)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	return nil
}
