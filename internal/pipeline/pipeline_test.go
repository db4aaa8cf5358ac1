package pipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var timings Timings
	if timings.Has(StageResolve) {
		t.Error("Expected no recorded stages on the zero value")
	}
	if got := timings.Duration(StageResolve); got != 0 {
		t.Errorf("Expected zero duration, got %v", got)
	}

	timings.Set(StageResolve, 10*time.Millisecond)
	timings.Set(StageTranslate, 5*time.Millisecond)

	if !timings.Has(StageResolve) {
		t.Error("Expected resolve to be recorded")
	}
	if timings.Has(StageEmit) {
		t.Error("Expected emit to be absent")
	}
	if got := timings.Duration(StageTranslate); got != 5*time.Millisecond {
		t.Errorf("Expected 5ms, got %v", got)
	}
	if got := timings.Sum(StageResolve, StageTranslate, StageEmit); got != 15*time.Millisecond {
		t.Errorf("Expected 15ms total, got %v", got)
	}
}

func TestTimingsNilReceiver(t *testing.T) {
	var timings *Timings
	timings.Set(StageResolve, time.Second)
}

func TestChannelSinkDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	sink := ChannelSink{Ch: ch}

	sink.OnEvent(Event{Stage: StageResolve, Status: StatusWorking})
	sink.OnEvent(Event{Stage: StageParse, Status: StatusWorking})

	evt := <-ch
	if evt.Stage != StageResolve {
		t.Errorf("Expected the first event to survive, got %v", evt.Stage)
	}
	select {
	case evt := <-ch:
		t.Errorf("Expected the overflow event to be dropped, got %v", evt.Stage)
	default:
	}
}

func TestChannelSinkNilChannel(t *testing.T) {
	ChannelSink{}.OnEvent(Event{Stage: StageResolve})
}

func TestNullSink(t *testing.T) {
	NullSink{}.OnEvent(Event{Stage: StageResolve})
}
