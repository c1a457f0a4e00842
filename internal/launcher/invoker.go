package launcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/audit"
)

// ExitCodeUnknown is reported when the child's exit status cannot be determined.
const ExitCodeUnknown = -1

// exitFailure is the exit code used when the child gives no usable code.
const exitFailure = 1

// Result is the outcome of a runtime that was started.
type Result struct {
	ExitCode int
	Signaled bool
	Signal   syscall.Signal
	Duration time.Duration
}

// Success reports whether the runtime exited with status 0.
func (r *Result) Success() bool {
	return !r.Signaled && r.ExitCode == 0
}

// ProcessExitCode maps the result to the wrapper's own exit status: 0 on
// success, the runtime's code when it exited non-zero, and 1 otherwise.
func (r *Result) ProcessExitCode() int {
	switch {
	case r.Success():
		return 0
	case r.Signaled || r.ExitCode <= 0:
		return exitFailure
	default:
		return r.ExitCode
	}
}

// Invoker starts a Plan and waits for it to finish.
type Invoker struct {
	logger *slog.Logger
	audit  *audit.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewInvoker returns an Invoker wired to the wrapper's own standard streams.
func NewInvoker(logger *slog.Logger, auditLogger *audit.Logger) *Invoker {
	return &Invoker{
		logger: logger,
		audit:  auditLogger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes plan once and blocks until the runtime exits. A non-nil error
// is always a *LaunchError: the runtime was never started. A runtime that
// started and failed is reported through the Result.
func (inv *Invoker) Run(ctx context.Context, plan *Plan) (*Result, error) {
	record := auditInvocation(plan)

	// #nosec G204 - path is resolved from trusted directories and args come from a validated Plan
	cmd := exec.CommandContext(ctx, plan.Path(), plan.Args()...)
	cmd.Env = plan.Env()
	cmd.Dir = plan.Dir()
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	inv.logger.Debug("Starting container runtime", "command", plan.String(), "dir", plan.Dir())
	inv.audit.LogInvocationStart(ctx, record)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		launchErr := &LaunchError{Path: plan.Path(), Err: err}
		inv.audit.LogLaunchFailure(ctx, record, err)
		return nil, launchErr
	}

	waitErr := cmd.Wait()
	result := newResult(cmd.ProcessState, time.Since(start))

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		inv.logger.Warn("Error while waiting for container runtime", "error", waitErr)
	}

	if result.Signaled {
		inv.logger.Error("Container runtime terminated by signal", "signal", result.Signal.String())
	} else {
		level := slog.LevelInfo
		if !result.Success() {
			level = slog.LevelError
		}
		inv.logger.Log(ctx, level, "Container runtime exited", "exit_code", result.ExitCode)
	}

	auditResult := audit.ExecutionResult{ExitCode: result.ExitCode, Signaled: result.Signaled}
	if result.Signaled {
		auditResult.Signal = result.Signal.String()
	}
	inv.audit.LogInvocationResult(ctx, record, auditResult, result.Duration)

	return result, nil
}

func newResult(state *os.ProcessState, duration time.Duration) *Result {
	result := &Result{ExitCode: ExitCodeUnknown, Duration: duration}
	if state == nil {
		return result
	}

	result.ExitCode = state.ExitCode()
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		result.Signaled = true
		result.Signal = ws.Signal()
	}
	return result
}

func auditInvocation(plan *Plan) audit.Invocation {
	return audit.Invocation{
		Path:        plan.Path(),
		Args:        plan.Args(),
		Dir:         plan.Dir(),
		UID:         plan.UID(),
		Stage:       plan.Stage().String(),
		RecordingID: plan.RecordingID().String(),
	}
}
