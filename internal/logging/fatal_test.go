package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalError_Error(t *testing.T) {
	cause := errors.New("exec: permission denied")
	withCause := &FatalError{
		Type:      ErrorTypeLaunch,
		Message:   "failed to start container runtime",
		Component: "launcher",
		RunID:     "01TEST",
		Err:       cause,
	}
	assert.Equal(t,
		"launch_failed: failed to start container runtime: exec: permission denied (component: launcher, run_id: 01TEST)",
		withCause.Error())
	assert.ErrorIs(t, withCause, cause)

	plain := &FatalError{Type: ErrorTypeUsage, Message: "recording id is not correct format", Component: "cli", RunID: "01TEST"}
	assert.Equal(t, "usage_error: recording id is not correct format (component: cli, run_id: 01TEST)", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestHandleFatal(t *testing.T) {
	var console, structured bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&structured, nil))

	HandleFatal(&console, logger, &FatalError{
		Type:      ErrorTypePermission,
		Message:   "This application must be installed setuid root",
		Component: "privilege",
		RunID:     "01TEST",
		Err:       errors.New("not setuid-root"),
	})

	assert.Equal(t, "This application must be installed setuid root\n", console.String())
	assert.Contains(t, structured.String(), `"error_type":"permission_denied"`)
	assert.Contains(t, structured.String(), `"component":"privilege"`)
	assert.Contains(t, structured.String(), `"run_id":"01TEST"`)
	assert.Contains(t, structured.String(), `"error":"not setuid-root"`)
}
