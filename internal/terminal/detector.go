// Package terminal decides whether diagnostics go to a person at a terminal or
// to a log collector. Detection looks only at the file descriptor: the wrapper
// reads no environment variables.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// DetectorOptions contains options for controlling interactive detection
type DetectorOptions struct {
	ForceInteractive    bool // Force interactive mode regardless of the descriptor
	ForceNonInteractive bool // Force non-interactive mode regardless of the descriptor
}

// InteractiveDetector reports whether output should be formatted for a person.
type InteractiveDetector interface {
	IsInteractive() bool
	IsTerminal() bool
}

// FileDetector inspects a single output file.
type FileDetector struct {
	file    *os.File
	options DetectorOptions
}

// NewInteractiveDetector creates a detector for f with the given options
func NewInteractiveDetector(f *os.File, options DetectorOptions) InteractiveDetector {
	return &FileDetector{file: f, options: options}
}

// IsInteractive returns true if output to the file should be human-oriented.
func (d *FileDetector) IsInteractive() bool {
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}
	return d.IsTerminal()
}

// IsTerminal checks if the file is connected to a terminal
func (d *FileDetector) IsTerminal() bool {
	if d.file == nil {
		return false
	}
	return term.IsTerminal(int(d.file.Fd()))
}
