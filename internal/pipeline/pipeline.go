// Package pipeline orchestrates a manifest-driven schema build.
package pipeline

import "time"

// Stage describes a high-level build phase.
type Stage string

const (
	// StageResolve locates and loads the requested packages.
	StageResolve Stage = "resolve"
	// StageParse covers decoding schema documents into files.
	StageParse Stage = "parse"
	// StageModel covers building declarations from parsed files.
	StageModel Stage = "model"
	// StageRegister covers recording symbols in the registry.
	StageRegister Stage = "register"
	// StageTranslate flattens the session into output packages.
	StageTranslate Stage = "translate"
	// StageEmit writes build artifacts.
	StageEmit Stage = "emit"
)

// BuildStages lists the stages of a build in the order they run.
var BuildStages = []Stage{
	StageResolve,
	StageParse,
	StageModel,
	StageRegister,
	StageTranslate,
	StageEmit,
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the stage is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the stage is done.
	StatusDone Status = "done"
	// StatusError indicates the stage encountered an error.
	StatusError Status = "error"
)

// Event reports progress for one stage. Detail carries the item being
// worked on, such as a package key or an artifact path.
type Event struct {
	Stage   Stage
	Status  Status
	Detail  string
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
