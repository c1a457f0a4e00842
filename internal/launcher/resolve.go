package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// Runtime resolution errors
var (
	ErrRuntimeNotFound = errors.New("container runtime not found in trusted search path")
	ErrInsecureRuntime = errors.New("container runtime fails ownership or permission checks")
)

// unsafeWriteBits are the permission bits that would let a non-owner replace
// the runtime binary or its directory.
const unsafeWriteBits fs.FileMode = 0o022

// Resolver locates the container runtime in the profile's trusted directories.
// The invoking user's PATH is never consulted.
type Resolver struct {
	logger *slog.Logger
	// owner is the uid that must own the runtime binary and its directory.
	owner uint32
	lstat func(string) (fs.FileInfo, error)
	eval  func(string) (string, error)
}

// NewResolver returns a Resolver that requires root ownership.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logger,
		owner:  0,
		lstat:  os.Lstat,
		eval:   filepath.EvalSymlinks,
	}
}

// Resolve returns the absolute, symlink-free path of the runtime. The first
// candidate that exists decides the outcome: an insecure candidate is an error
// rather than a reason to keep searching.
func (r *Resolver) Resolve(p *Profile) (string, error) {
	for _, dir := range p.Runtime.SearchPath {
		candidate := filepath.Join(dir, p.Runtime.Name)
		if _, err := r.lstat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", &LaunchError{Path: candidate, Err: err}
		}

		target, err := r.eval(candidate)
		if err != nil {
			return "", &LaunchError{Path: candidate, Err: err}
		}
		if err := r.checkBinary(target); err != nil {
			return "", &LaunchError{Path: target, Err: err}
		}
		if err := r.checkDir(filepath.Dir(target)); err != nil {
			return "", &LaunchError{Path: target, Err: err}
		}

		r.logger.Debug("Resolved container runtime", "candidate", candidate, "path", target)
		return target, nil
	}

	return "", &LaunchError{Path: p.Runtime.Name, Err: ErrRuntimeNotFound}
}

func (r *Resolver) checkBinary(path string) error {
	info, err := r.lstat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInsecureRuntime, path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s is not executable", ErrInsecureRuntime, path)
	}
	return r.checkOwnership(path, info)
}

func (r *Resolver) checkDir(path string) error {
	info, err := r.lstat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInsecureRuntime, path)
	}
	return r.checkOwnership(path, info)
}

func (r *Resolver) checkOwnership(path string, info fs.FileInfo) error {
	if perm := info.Mode().Perm(); perm&unsafeWriteBits != 0 {
		r.logger.Warn("Insecure container runtime permissions detected",
			"path", path,
			"current_permissions", fmt.Sprintf("%04o", perm),
			"disallowed_bits", fmt.Sprintf("%04o", perm&unsafeWriteBits))
		return fmt.Errorf("%w: %s has permissions %04o", ErrInsecureRuntime, path, perm)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("%w: cannot read owner of %s", ErrInsecureRuntime, path)
	}
	if stat.Uid != r.owner {
		return fmt.Errorf("%w: %s is owned by uid %d, want %d", ErrInsecureRuntime, path, stat.Uid, r.owner)
	}
	return nil
}
