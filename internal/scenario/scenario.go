// Package scenario runs declarative kernel scenarios.
//
// A scenario is a YAML file describing a kernel configuration, an ordered
// list of steps (spawn, inject, budgeted run), and expectations on the
// final counters and process states. Scenarios drive the conformance
// tests, the golden trace files, and the CLI's run command.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted kernel execution with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario. Used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Grid optionally overrides the kernel's default dimensions.
	Grid *GridSpec `yaml:"grid,omitempty"`

	// Steps is the ordered command sequence. Exactly one of the fields of
	// each step must be set.
	Steps []Step `yaml:"steps"`

	// Expect validates counters and process states after all steps ran.
	Expect *Expect `yaml:"expect,omitempty"`
}

// GridSpec gives explicit kernel dimensions.
type GridSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`
}

// Step is one scripted command. Exactly one field must be set.
type Step struct {
	Spawn  *SpawnStep  `yaml:"spawn,omitempty"`
	Inject *InjectStep `yaml:"inject,omitempty"`
	Run    *RunStep    `yaml:"run,omitempty"`
}

// SpawnStep registers a process.
type SpawnStep struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// InjectStep enqueues an event.
type InjectStep struct {
	X     int   `yaml:"x"`
	Y     int   `yaml:"y"`
	Z     int   `yaml:"z"`
	Value int64 `yaml:"value"`
}

// RunStep drains the queue with a budget.
type RunStep struct {
	Budget int `yaml:"budget"`

	// ExpectProcessed optionally asserts this call's return value.
	ExpectProcessed *int `yaml:"expect_processed,omitempty"`
}

// Expect validates final kernel state. Counter fields are pointers so an
// explicit 0 is still asserted.
type Expect struct {
	EventsProcessed *uint64      `yaml:"events_processed,omitempty"`
	CurrentTime     *uint64      `yaml:"current_time,omitempty"`
	ProcessCount    *int         `yaml:"process_count,omitempty"`
	PendingEvents   *int         `yaml:"pending_events,omitempty"`
	States          []StateCheck `yaml:"states,omitempty"`
}

// StateCheck asserts one process counter.
type StateCheck struct {
	X     int   `yaml:"x"`
	Y     int   `yaml:"y"`
	Z     int   `yaml:"z"`
	Value int64 `yaml:"value"`
}

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario YAML bytes with strict field validation.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields (catches typos)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// Validate checks that required fields are present and each step names
// exactly one command.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Grid != nil {
		if s.Grid.Width < 1 || s.Grid.Height < 1 || s.Grid.Depth < 1 {
			return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d",
				s.Grid.Width, s.Grid.Height, s.Grid.Depth)
		}
	}

	for i, step := range s.Steps {
		set := 0
		if step.Spawn != nil {
			set++
		}
		if step.Inject != nil {
			set++
		}
		if step.Run != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("step %d must set exactly one of spawn, inject, run", i)
		}
		if step.Run != nil && step.Run.Budget < 0 {
			return fmt.Errorf("step %d: run budget must be non-negative", i)
		}
	}

	return nil
}
