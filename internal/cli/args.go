// Package cli parses the positional arguments of the wrapper.
package cli

import (
	"errors"
	"fmt"

	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/recording"
)

// DefaultProgramName is used in the usage line when argv[0] is missing.
const DefaultProgramName = "bbb-playback-capture-wrapper"

// expectedArgs is the program name, the stage and the recording ID.
const expectedArgs = 3

// UsageKind identifies which argument constraint was violated.
type UsageKind string

const (
	// UsageWrongArgCount means the positional argument count is not exactly two.
	UsageWrongArgCount UsageKind = "wrong_argument_count"
	// UsageInvalidStage means the stage token is neither "process" nor "publish".
	UsageInvalidStage UsageKind = "invalid_stage"
	// UsageInvalidID means the recording identifier does not match the grammar.
	UsageInvalidID UsageKind = "invalid_recording_id"
)

// ErrUsage is matched by every *UsageError.
var ErrUsage = errors.New("usage error")

// UsageError reports malformed command-line arguments.
type UsageError struct {
	Kind    UsageKind
	Message string
	Err     error
}

func (e *UsageError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrUsage) hold for every UsageError.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Request is a validated invocation of the wrapper.
type Request struct {
	Stage recording.Stage
	ID    recording.ID
}

// Usage returns the usage line for the given program name.
func Usage(arg0 string) string {
	return fmt.Sprintf("Usage: %s process|publish RECORDING_ID", arg0)
}

// ProgramName returns argv[0], or DefaultProgramName when argv is empty.
func ProgramName(argv []string) string {
	if len(argv) == 0 || argv[0] == "" {
		return DefaultProgramName
	}
	return argv[0]
}

// Parse validates argv (including the program name) and returns the request.
// The recording ID is checked regardless of the stage.
func Parse(argv []string) (*Request, error) {
	if len(argv) != expectedArgs {
		return nil, &UsageError{
			Kind:    UsageWrongArgCount,
			Message: Usage(ProgramName(argv)),
		}
	}

	stage, err := recording.ParseStage(argv[1])
	if err != nil {
		return nil, &UsageError{
			Kind:    UsageInvalidStage,
			Message: fmt.Sprintf("%v: %q", err, argv[1]),
			Err:     err,
		}
	}

	// The rejected value is not echoed.
	id, err := recording.ParseID(argv[2])
	if err != nil {
		return nil, &UsageError{
			Kind:    UsageInvalidID,
			Message: err.Error(),
			Err:     err,
		}
	}

	return &Request{Stage: stage, ID: id}, nil
}
