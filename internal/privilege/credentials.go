package privilege

import "fmt"

// RootUID is the privileged identity a setuid-root binary runs with.
const RootUID = 0

// Credentials is the real/effective/saved user ID triple of the current process.
type Credentials struct {
	Real      int
	Effective int
	Saved     int
}

func (c Credentials) String() string {
	return fmt.Sprintf("ruid=%d euid=%d suid=%d", c.Real, c.Effective, c.Saved)
}

// Source reads the credential triple of the running process.
type Source interface {
	Resolve() (Credentials, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (Credentials, error)

// Resolve calls f.
func (f SourceFunc) Resolve() (Credentials, error) {
	return f()
}

// Verify reads the credential triple from src and checks that the process runs
// setuid-root on behalf of a distinguishable unprivileged user.
//
// A failing query is treated as "cannot verify": the returned error is a
// *PermissionError and the caller must not continue.
func Verify(src Source) (Credentials, error) {
	creds, err := src.Resolve()
	if err != nil {
		return creds, &PermissionError{
			Credentials: creds,
			Reason:      fmt.Errorf("%w: %w", ErrIdentityQueryFailed, err),
		}
	}

	if creds.Effective != RootUID {
		return creds, &PermissionError{Credentials: creds, Reason: ErrNotSetuidRoot}
	}

	// Invoked directly as root: there is no unprivileged identity to hand the
	// container, so refuse rather than run it as root.
	if creds.Real == creds.Effective {
		return creds, &PermissionError{Credentials: creds, Reason: ErrRealIdentityIndistinguishable}
	}

	return creds, nil
}
