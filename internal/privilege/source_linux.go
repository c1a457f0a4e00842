//go:build linux

package privilege

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// getresuid, getuid and geteuid are package-level so tests can simulate a
// misbehaving identity query.
var (
	getresuid = unix.Getresuid
	getuid    = unix.Getuid
	geteuid   = unix.Geteuid
)

// SystemSource reads the credential triple of the running process from the kernel.
type SystemSource struct{}

// Resolve queries getresuid(2). The result is cross-checked against separate
// getuid(2)/geteuid(2) calls because getresuid reports no failure of its own;
// any disagreement is treated as a failed query.
func (SystemSource) Resolve() (Credentials, error) {
	ruid, euid, suid := getresuid()
	creds := Credentials{Real: ruid, Effective: euid, Saved: suid}

	if ruid < 0 || euid < 0 || suid < 0 {
		return creds, fmt.Errorf("%w: negative id in %s", ErrIdentityQueryFailed, creds)
	}
	if uid, eid := getuid(), geteuid(); uid != ruid || eid != euid {
		return creds, fmt.Errorf("%w: getresuid reported %s but getuid=%d geteuid=%d",
			ErrIdentityQueryFailed, creds, uid, eid)
	}
	return creds, nil
}

// RestrictNewPrivileges sets PR_SET_NO_NEW_PRIVS so that nothing started from
// this process can gain privileges through setuid bits or file capabilities.
func RestrictNewPrivileges() error {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrPrivilegeRestrictionFailed, err)
	}
	v, err := unix.PrctlRetInt(unix.PR_GET_NO_NEW_PRIVS, 0, 0, 0, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPrivilegeRestrictionFailed, err)
	}
	if v != 1 {
		return ErrPrivilegeRestrictionUnverified
	}
	return nil
}
