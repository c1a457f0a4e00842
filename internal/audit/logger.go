// Package audit provides structured audit logging for the privileged gate: every
// privilege decision, rejected input and runtime invocation produces one record.
package audit

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger provides structured audit logging functionality
type Logger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger instance
func NewAuditLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Credentials is the identity triple recorded by LogPrivilegeCheck.
type Credentials struct {
	Real      int
	Effective int
	Saved     int
}

// Invocation describes a runtime invocation for audit logging.
type Invocation struct {
	Path        string
	Args        []string
	Dir         string
	UID         int
	Stage       string
	RecordingID string
}

// ExecutionResult represents the outcome of an invocation for audit logging
type ExecutionResult struct {
	ExitCode int
	Signaled bool
	Signal   string
}

// LogPrivilegeCheck records the outcome of the setuid-root precondition check.
func (a *Logger) LogPrivilegeCheck(ctx context.Context, creds Credentials, err error) {
	attrs := []slog.Attr{
		slog.String("audit_type", "privilege_check"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.Int("real_uid", creds.Real),
		slog.Int("effective_uid", creds.Effective),
		slog.Int("saved_uid", creds.Saved),
		slog.Int("process_id", os.Getpid()),
		slog.Bool("success", err == nil),
	}

	if err == nil {
		a.logger.LogAttrs(ctx, slog.LevelInfo, "Privilege check passed", attrs...)
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	a.logger.LogAttrs(ctx, slog.LevelWarn, "Privilege check failed", attrs...)
}

// LogRejectedInput records refused command-line input. Only the kind of
// violation is recorded, never the rejected value.
func (a *Logger) LogRejectedInput(ctx context.Context, realUID int, kind string) {
	a.logger.LogAttrs(ctx, slog.LevelWarn, "Input rejected",
		slog.String("audit_type", "input_rejected"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.Int("real_uid", realUID),
		slog.String("violation", kind),
		slog.Int("process_id", os.Getpid()),
	)
}

// LogInvocationStart records a runtime invocation about to be started.
func (a *Logger) LogInvocationStart(ctx context.Context, inv Invocation) {
	a.logger.LogAttrs(ctx, slog.LevelInfo, "Container runtime invocation",
		invocationAttrs(inv, "invocation_start")...)
}

// LogLaunchFailure records a runtime that could not be started.
func (a *Logger) LogLaunchFailure(ctx context.Context, inv Invocation, err error) {
	attrs := invocationAttrs(inv, "invocation_launch_failed")
	attrs = append(attrs, slog.String("error", err.Error()))
	a.logger.LogAttrs(ctx, slog.LevelError, "Container runtime launch failed", attrs...)
}

// LogInvocationResult records the outcome of a started runtime.
func (a *Logger) LogInvocationResult(ctx context.Context, inv Invocation, result ExecutionResult, duration time.Duration) {
	attrs := invocationAttrs(inv, "invocation_result")
	attrs = append(attrs,
		slog.Int("exit_code", result.ExitCode),
		slog.Bool("signaled", result.Signaled),
		slog.Int64("execution_duration_ms", duration.Milliseconds()),
	)
	if result.Signaled {
		attrs = append(attrs, slog.String("signal", result.Signal))
	}

	if !result.Signaled && result.ExitCode == 0 {
		a.logger.LogAttrs(ctx, slog.LevelInfo, "Container runtime completed successfully", attrs...)
	} else {
		a.logger.LogAttrs(ctx, slog.LevelError, "Container runtime failed", attrs...)
	}
}

func invocationAttrs(inv Invocation, auditType string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("audit_type", auditType),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("command_path", inv.Path),
		slog.String("command_args", strings.Join(inv.Args, " ")),
		slog.Int("run_as_uid", inv.UID),
		slog.String("stage", inv.Stage),
		slog.String("recording_id", inv.RecordingID),
		slog.Int("user_id", os.Getuid()),
		slog.Int("effective_user_id", os.Geteuid()),
		slog.Int("process_id", os.Getpid()),
	}
	if inv.Dir != "" {
		attrs = append(attrs, slog.String("working_directory", inv.Dir))
	}
	return attrs
}
