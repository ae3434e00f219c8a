// Package common provides shared utilities including timing functionality.
package common

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timer measures one named stage of a conversion.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewNamedTimer creates and starts a timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer name.
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return fmt.Sprintf("%v", t.duration)
}

// Stages accumulates per-stage durations across one conversion.
type Stages struct {
	durations map[string]time.Duration
}

// NewStages returns an empty stage collector.
func NewStages() *Stages {
	return &Stages{durations: make(map[string]time.Duration)}
}

// Record adds a stopped timer's duration under its name.
func (s *Stages) Record(t *Timer) {
	s.durations[t.Name()] += t.Duration()
}

// Get returns the accumulated duration for a stage name.
func (s *Stages) Get(name string) time.Duration {
	return s.durations[name]
}

// Total returns the sum of all recorded stage durations.
func (s *Stages) Total() time.Duration {
	var total time.Duration
	for _, d := range s.durations {
		total += d
	}
	return total
}

// String renders stages sorted by name, e.g. "crop: 1ms, map: 20ms".
func (s *Stages) String() string {
	names := make([]string, 0, len(s.durations))
	for name := range s.durations {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, s.durations[name].Round(time.Microsecond)))
	}
	return strings.Join(parts, ", ")
}
