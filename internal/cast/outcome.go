// Package cast executes spells: static payload reads, subprocess generators,
// and stdin→stdout transforms, with buffered or streaming output.
package cast

import "errors"

// Spell execution failure taxonomy. User cancellation is reported via
// StatusCancelled, not an error.
var (
	// ErrTimeout is returned when a spell exceeds its execution budget.
	ErrTimeout = errors.New("spell timed out")
	// ErrSpellExecution is returned for bad exit codes and unreadable
	// entrypoints. Captured stderr is attached to the wrapping error.
	ErrSpellExecution = errors.New("spell execution failed")
)

// Status describes how an execution finished (or is finishing).
type Status string

const (
	// StatusCompleted means the full output is in Outcome.Content.
	StatusCompleted Status = "completed"
	// StatusStreaming means output arrives via Outcome.Stream.
	StatusStreaming Status = "streaming"
	// StatusFailed means the spell errored; see Outcome.Err.
	StatusFailed Status = "failed"
	// StatusCancelled means the caller cancelled; partial output is dropped.
	StatusCancelled Status = "cancelled"
)

// Outcome is the result of one execution request.
type Outcome struct {
	Status  Status
	Content string
	Stream  *Stream
	Err     error
}

func completed(content string) Outcome { return Outcome{Status: StatusCompleted, Content: content} }
func streaming(s *Stream) Outcome      { return Outcome{Status: StatusStreaming, Stream: s} }
func failed(err error) Outcome         { return Outcome{Status: StatusFailed, Err: err} }
func cancelled() Outcome               { return Outcome{Status: StatusCancelled} }
