package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"log/syslog"
	"strings"
	"sync"
)

// ErrSyslogWriterRequired is returned when no syslog writer is configured.
var ErrSyslogWriterRequired = errors.New("SyslogHandler: Writer is required")

// SyslogWriter is the subset of *syslog.Writer used by SyslogHandler.
type SyslogWriter interface {
	Err(m string) error
	Warning(m string) error
	Info(m string) error
	Debug(m string) error
	Close() error
}

// DialSyslog connects to the local syslog daemon on the authpriv facility,
// where privilege-related messages belong.
func DialSyslog(tag string) (SyslogWriter, error) {
	w, err := syslog.New(syslog.LOG_AUTHPRIV|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// SyslogHandler renders records as logfmt and sends them to syslog with a
// priority matching the record level. syslog adds its own timestamp, so the
// time attribute is dropped.
type SyslogHandler struct {
	mu     *sync.Mutex
	buf    *bytes.Buffer
	inner  slog.Handler
	writer SyslogWriter
}

// SyslogHandlerOptions configures the SyslogHandler.
type SyslogHandlerOptions struct {
	Level  slog.Leveler
	Writer SyslogWriter
}

// NewSyslogHandler creates a SyslogHandler.
func NewSyslogHandler(opts SyslogHandlerOptions) (*SyslogHandler, error) {
	if opts.Writer == nil {
		return nil, ErrSyslogWriterRequired
	}

	buf := &bytes.Buffer{}
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	return &SyslogHandler{
		mu:     &sync.Mutex{},
		buf:    buf,
		inner:  inner,
		writer: opts.Writer,
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *SyslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle formats the record and writes it to syslog.
func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	line := strings.TrimSuffix(h.buf.String(), "\n")

	switch {
	case r.Level >= slog.LevelError:
		return h.writer.Err(line)
	case r.Level >= slog.LevelWarn:
		return h.writer.Warning(line)
	case r.Level >= slog.LevelInfo:
		return h.writer.Info(line)
	default:
		return h.writer.Debug(line)
	}
}

// WithAttrs returns a new handler with additional attributes.
func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

// WithGroup returns a new handler with an additional group.
func (h *SyslogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

// Close closes the syslog connection.
func (h *SyslogHandler) Close() error {
	return h.writer.Close()
}
