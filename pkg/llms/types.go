package llms

import (
	"context"
	"fmt"
)

// LLMProvider is the text-generation service: prompt in, completion out.
// Implementations must not retry transport failures; the reasoning loop
// treats them as fatal for the current run.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)

	GetModelName() string

	Close() error
}

// TransportError indicates the text-generation service was unreachable or
// returned a non-recoverable protocol error. It is the only tool-side
// failure that crosses the orchestrator boundary.
type TransportError struct {
	Provider string
	Message  string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("llm %s: %s", e.Provider, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(provider, message string, err error) *TransportError {
	return &TransportError{Provider: provider, Message: message, Err: err}
}
