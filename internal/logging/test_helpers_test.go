package logging

import (
	"strings"
	"sync"
)

type syslogEntry struct {
	priority string
	message  string
}

// fakeSyslog records messages instead of sending them to a daemon.
type fakeSyslog struct {
	mu      sync.Mutex
	entries []syslogEntry
	closed  bool
}

func (f *fakeSyslog) add(priority, m string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, syslogEntry{priority: priority, message: m})
	return nil
}

func (f *fakeSyslog) Err(m string) error     { return f.add("err", m) }
func (f *fakeSyslog) Warning(m string) error { return f.add("warning", m) }
func (f *fakeSyslog) Info(m string) error    { return f.add("info", m) }
func (f *fakeSyslog) Debug(m string) error   { return f.add("debug", m) }

func (f *fakeSyslog) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSyslog) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.message
	}
	return out
}

func (f *fakeSyslog) joined() string {
	return strings.Join(f.messages(), "\n")
}
