package reasoning

import (
	"fmt"
	"strings"
)

// Markers the model must emit for the trace to be machine-readable. Their
// exact spelling is part of the prompt contract.
const (
	MarkerThought     = "Thought:"
	MarkerAction      = "Action:"
	MarkerActionInput = "Action Input:"
	MarkerObservation = "Observation:"
	MarkerFinalAnswer = "Final Answer:"
)

// ParseError reports a completion that violates the Thought/Action/Final
// Answer format. It is recoverable: the orchestrator feeds it back to the
// model as an observation instead of aborting the run.
type ParseError struct {
	Message    string
	Completion string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse completion: %s", e.Message)
}

func NewParseError(message, completion string) *ParseError {
	return &ParseError{Message: message, Completion: completion}
}

// ParsedStep is one structured step extracted from a raw completion. Either
// it names a tool call (Action + ActionInput) or it is terminal and carries
// the final answer.
type ParsedStep struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
	Terminal    bool
}

// Parse converts one raw completion into a structured step.
//
// The first marker wins: a completion containing both "Final Answer:" and
// "Action:" is terminal only if the final answer marker appears first.
// A completion with neither marker is a format violation.
func Parse(completion string) (*ParsedStep, error) {
	finalIdx := strings.Index(completion, MarkerFinalAnswer)
	actionIdx := strings.Index(completion, MarkerAction)

	if finalIdx < 0 && actionIdx < 0 {
		return nil, NewParseError(
			fmt.Sprintf("missing both %q and %q markers", MarkerAction, MarkerFinalAnswer),
			completion)
	}

	if finalIdx >= 0 && (actionIdx < 0 || finalIdx < actionIdx) {
		return &ParsedStep{
			Thought:     extractThought(completion[:finalIdx]),
			FinalAnswer: strings.TrimSpace(completion[finalIdx+len(MarkerFinalAnswer):]),
			Terminal:    true,
		}, nil
	}

	inputIdx := strings.Index(completion[actionIdx:], MarkerActionInput)
	if inputIdx < 0 {
		return nil, NewParseError(
			fmt.Sprintf("found %q without a following %q", MarkerAction, MarkerActionInput),
			completion)
	}
	inputIdx += actionIdx

	action := strings.TrimSpace(completion[actionIdx+len(MarkerAction) : inputIdx])
	action = strings.Trim(action, "`\"' \n")
	if action == "" {
		return nil, NewParseError("empty tool name after Action marker", completion)
	}

	input := completion[inputIdx+len(MarkerActionInput):]
	// Some models keep generating past the action and hallucinate an
	// observation; everything from that marker on is discarded.
	if obsIdx := strings.Index(input, MarkerObservation); obsIdx >= 0 {
		input = input[:obsIdx]
	}

	return &ParsedStep{
		Thought:     extractThought(completion[:actionIdx]),
		Action:      action,
		ActionInput: strings.Trim(strings.TrimSpace(input), "`\""),
	}, nil
}

func extractThought(prefix string) string {
	if idx := strings.Index(prefix, MarkerThought); idx >= 0 {
		prefix = prefix[idx+len(MarkerThought):]
	}
	return strings.TrimSpace(prefix)
}
