package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config holds all configuration for logger setup
type Config struct {
	Program     string
	RunID       string
	Level       slog.Level
	Console     io.Writer // destination of diagnostics, normally os.Stderr
	Interactive bool      // render the console as plain lines instead of logfmt
	// DialSyslog connects to syslog; nil disables the syslog handler.
	DialSyslog func(tag string) (SyslogWriter, error)
	Hostname   string
}

// Loggers is the result of Setup.
type Loggers struct {
	// Logger writes to the console and, when available, syslog.
	Logger *slog.Logger
	// Audit writes to syslog only, so audit records never clutter the console.
	Audit *slog.Logger
	// SyslogErr is the reason syslog is unavailable, if it is.
	SyslogErr error

	syslog *SyslogHandler
}

// ErrConsoleRequired is returned when Config.Console is nil.
var ErrConsoleRequired = errors.New("console writer is required")

// Setup builds the handler stack. It is called once at startup, before any
// input is inspected.
func Setup(cfg Config) (*Loggers, error) {
	if cfg.Console == nil {
		return nil, ErrConsoleRequired
	}

	var console slog.Handler
	if cfg.Interactive {
		h, err := NewInteractiveHandler(InteractiveHandlerOptions{
			Level:   cfg.Level,
			Writer:  cfg.Console,
			Program: cfg.Program,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create interactive handler: %w", err)
		}
		console = h
	} else {
		console = slog.NewTextHandler(cfg.Console, &slog.HandlerOptions{Level: cfg.Level}).
			WithAttrs([]slog.Attr{slog.String("run_id", cfg.RunID)})
	}

	loggers := &Loggers{}
	if cfg.DialSyslog != nil {
		w, err := cfg.DialSyslog(cfg.Program)
		if err != nil {
			loggers.SyslogErr = err
		} else {
			sh, err := NewSyslogHandler(SyslogHandlerOptions{Level: cfg.Level, Writer: w})
			if err != nil {
				return nil, fmt.Errorf("failed to create syslog handler: %w", err)
			}
			loggers.syslog = sh
		}
	}

	var audit slog.Handler = slog.DiscardHandler
	var syslogHandler slog.Handler
	if loggers.syslog != nil {
		syslogHandler = loggers.syslog.WithAttrs([]slog.Attr{
			slog.String("run_id", cfg.RunID),
			slog.String("hostname", cfg.Hostname),
			slog.Int("pid", os.Getpid()),
		})
		audit = syslogHandler
	}

	loggers.Logger = slog.New(NewMultiHandler(console, syslogHandler))
	loggers.Audit = slog.New(audit)

	if loggers.SyslogErr != nil {
		loggers.Logger.Debug("Syslog unavailable, audit records are discarded", "error", loggers.SyslogErr)
	}
	return loggers, nil
}

// Close releases the syslog connection.
func (l *Loggers) Close() error {
	if l.syslog == nil {
		return nil
	}
	return l.syslog.Close()
}
