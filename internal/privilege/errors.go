// Package privilege verifies that the wrapper was started through a setuid-root
// binary by an unprivileged user, and captures the identity the sandboxed command
// has to run as.
package privilege

import (
	"errors"
	"fmt"
)

// Standard errors
var (
	ErrNotSetuidRoot                  = errors.New("not setuid-root")
	ErrRealIdentityIndistinguishable  = errors.New("real identity indistinguishable from privileged identity")
	ErrIdentityQueryFailed            = errors.New("unable to query process identity")
	ErrIdentityQueryUnsupported       = errors.New("process identity query not supported on this platform")
	ErrPrivilegeRestrictionFailed     = errors.New("failed to restrict new privileges")
	ErrPrivilegeRestrictionUnverified = errors.New("no_new_privs flag not set after prctl")
)

// PermissionError reports that the privilege precondition of the wrapper is not met.
type PermissionError struct {
	Credentials Credentials
	Reason      error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission check failed: %v (ruid=%d euid=%d suid=%d)",
		e.Reason, e.Credentials.Real, e.Credentials.Effective, e.Credentials.Saved)
}

func (e *PermissionError) Unwrap() error {
	return e.Reason
}
