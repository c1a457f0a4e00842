package launcher

import (
	"errors"
	"fmt"
)

// ErrLaunch is matched by every *LaunchError.
var ErrLaunch = errors.New("failed to start container runtime")

// LaunchError reports that the runtime process could not be started at all.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrLaunch, e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLaunch) hold for every LaunchError.
func (e *LaunchError) Is(target error) bool {
	return target == ErrLaunch
}
