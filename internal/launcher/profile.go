// Package launcher builds and runs the container runtime invocation for a
// validated recording request.
package launcher

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
)

//go:embed profile.toml
var defaultProfile []byte

// Profile validation errors
var (
	ErrInvalidProfile  = errors.New("invalid launch profile")
	ErrProfilePath     = errors.New("path must be absolute and clean")
	ErrProfileMountSep = errors.New("mount path must not contain ',' or '='")
	ErrProfileImage    = errors.New("image reference must be non-empty and contain no whitespace")
	ErrProfileRuntime  = errors.New("runtime name must be a bare file name")
	ErrProfileScript   = errors.New("script name and extension must be bare, non-empty names")
	ErrProfileIDFlag   = errors.New("id flag must start with '-'")
)

// RuntimeSpec names the container runtime binary and where it may be found.
type RuntimeSpec struct {
	Name       string   `toml:"name"`
	SearchPath []string `toml:"search_path"`
}

// ScriptSpec names the in-container capture script, <stage>/<name>.<ext>.
type ScriptSpec struct {
	Name string `toml:"name"`
	Ext  string `toml:"ext"`
}

// Profile is the fixed description of how the runtime is invoked.
type Profile struct {
	Runtime RuntimeSpec `toml:"runtime"`
	Script  ScriptSpec  `toml:"script"`
	Image   string      `toml:"image"`
	DataDir string      `toml:"data_dir"`
	LogDir  string      `toml:"log_dir"`
	IDFlag  string      `toml:"id_flag"`
	WorkDir string      `toml:"work_dir"`
}

// ProfileError reports a profile that cannot be used.
type ProfileError struct {
	Field string
	Err   error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidProfile, e.Field, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidProfile) hold for every ProfileError.
func (e *ProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// DefaultProfile decodes and validates the embedded profile.
func DefaultProfile() (*Profile, error) {
	return ParseProfile(defaultProfile)
}

// ParseProfile decodes a TOML profile and validates it. Unknown keys are rejected.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, &ProfileError{Field: "document", Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every value that ends up on the runtime command line.
func (p *Profile) Validate() error {
	if p.Runtime.Name == "" || strings.ContainsRune(p.Runtime.Name, filepath.Separator) ||
		p.Runtime.Name == "." || p.Runtime.Name == ".." {
		return &ProfileError{Field: "runtime.name", Err: ErrProfileRuntime}
	}
	if len(p.Runtime.SearchPath) == 0 {
		return &ProfileError{Field: "runtime.search_path", Err: ErrProfilePath}
	}
	for _, dir := range p.Runtime.SearchPath {
		if !isAbsClean(dir) {
			return &ProfileError{Field: "runtime.search_path", Err: fmt.Errorf("%w: %q", ErrProfilePath, dir)}
		}
	}

	mounts := []struct{ field, dir string }{
		{"data_dir", p.DataDir},
		{"log_dir", p.LogDir},
	}
	for _, m := range mounts {
		if !isAbsClean(m.dir) {
			return &ProfileError{Field: m.field, Err: fmt.Errorf("%w: %q", ErrProfilePath, m.dir)}
		}
		if strings.ContainsAny(m.dir, ",=") {
			return &ProfileError{Field: m.field, Err: fmt.Errorf("%w: %q", ErrProfileMountSep, m.dir)}
		}
	}

	if !isAbsClean(p.WorkDir) {
		return &ProfileError{Field: "work_dir", Err: fmt.Errorf("%w: %q", ErrProfilePath, p.WorkDir)}
	}

	if p.Image == "" || strings.IndexFunc(p.Image, unicode.IsSpace) >= 0 || strings.HasPrefix(p.Image, "-") {
		return &ProfileError{Field: "image", Err: ErrProfileImage}
	}

	if !isBareName(p.Script.Name) || !isBareName(p.Script.Ext) {
		return &ProfileError{Field: "script", Err: ErrProfileScript}
	}

	if len(p.IDFlag) < 2 || p.IDFlag[0] != '-' || strings.IndexFunc(p.IDFlag, unicode.IsSpace) >= 0 {
		return &ProfileError{Field: "id_flag", Err: ErrProfileIDFlag}
	}

	return nil
}

// ScriptPath returns the in-container script for stage, e.g. "process/capture.rb".
func (p *Profile) ScriptPath(stage string) string {
	return stage + "/" + p.Script.Name + "." + p.Script.Ext
}

// BindMount renders a read-write bind mount of dir at the same path in the container.
func BindMount(dir string) string {
	return "type=bind,src=" + dir + ",dst=" + dir
}

func isAbsClean(p string) bool {
	return p != "" && filepath.IsAbs(p) && filepath.Clean(p) == p
}

func isBareName(s string) bool {
	return s != "" && s != "." && s != ".." &&
		!strings.ContainsAny(s, "/\\") && strings.IndexFunc(s, unicode.IsSpace) < 0
}
