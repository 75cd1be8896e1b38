package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type captureSink struct {
	events []Event
	fail   bool
	closed bool
}

func (c *captureSink) Consume(_ context.Context, evt Event) error {
	if c.fail {
		return errors.New("sink down")
	}
	c.events = append(c.events, evt)
	return nil
}

func (c *captureSink) Close(context.Context) error {
	c.closed = true
	return nil
}

func validEvent(stage Stage) Event {
	evt := Event{RunID: "run-1", TS: time.Now().UTC(), Stage: stage, Total: 3}
	if stage == StageDomainDone {
		evt.Domain = "example.com"
		evt.Result = ResultRecorded
	}
	return evt
}

func TestHubDispatchesToAllSinks(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	hub := NewHub(zap.NewNop(), first, second)

	hub.Emit(validEvent(StageRunStart))
	hub.Emit(validEvent(StageDomainDone))

	if len(first.events) != 2 || len(second.events) != 2 {
		t.Fatalf("sinks saw %d/%d events, want 2/2", len(first.events), len(second.events))
	}

	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !first.closed || !second.closed {
		t.Fatal("expected both sinks closed")
	}
}

func TestHubDropsInvalidEvents(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)

	hub.Emit(Event{Stage: StageRunStart}) // no run id, no timestamp
	hub.Emit(Event{RunID: "run-1", TS: time.Now(), Stage: StageDomainDone})

	if len(sink.events) != 0 {
		t.Fatalf("invalid events reached sink: %v", sink.events)
	}
}

func TestHubSurvivesFailingSink(t *testing.T) {
	bad := &captureSink{fail: true}
	good := &captureSink{}
	hub := NewHub(zap.NewNop(), bad, good)

	hub.Emit(validEvent(StageRunStart))
	if len(good.events) != 1 {
		t.Fatal("healthy sink should still receive events")
	}
}

func TestEventValidate(t *testing.T) {
	if err := validEvent(StageDomainDone).Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
	bad := validEvent(StageDomainDone)
	bad.Result = "bogus"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected unknown result to be rejected")
	}
	unknown := validEvent(StageRunStart)
	unknown.Stage = "NOPE"
	if err := unknown.Validate(); err == nil {
		t.Fatal("expected unknown stage to be rejected")
	}
}
