package reasoning

import (
	"fmt"
	"strings"
)

// Step is one completed thought/action/observation cycle.
type Step struct {
	Thought     string
	Action      string
	ActionInput string
	Observation string
}

// Scratchpad is the ordered log of completed steps for one run. It is
// re-rendered into every prompt so the model sees its own prior reasoning.
type Scratchpad struct {
	steps []Step
}

func NewScratchpad() *Scratchpad {
	return &Scratchpad{}
}

func (s *Scratchpad) Add(step Step) {
	s.steps = append(s.steps, step)
}

func (s *Scratchpad) Len() int {
	return len(s.steps)
}

func (s *Scratchpad) Steps() []Step {
	return s.steps
}

// LastObservation returns the most recent observation, used as the degraded
// answer when a run exhausts its iteration budget.
func (s *Scratchpad) LastObservation() (string, bool) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		if s.steps[i].Observation != "" {
			return s.steps[i].Observation, true
		}
	}
	return "", false
}

// Render produces the scratchpad as alternating marker blocks, matching the
// format the prompt instructs the model to emit.
func (s *Scratchpad) Render() string {
	var sb strings.Builder
	for _, step := range s.steps {
		if step.Thought != "" {
			fmt.Fprintf(&sb, "%s %s\n", MarkerThought, step.Thought)
		}
		if step.Action != "" {
			fmt.Fprintf(&sb, "%s %s\n", MarkerAction, step.Action)
			fmt.Fprintf(&sb, "%s %s\n", MarkerActionInput, step.ActionInput)
		}
		fmt.Fprintf(&sb, "%s %s\n", MarkerObservation, step.Observation)
	}
	return sb.String()
}
