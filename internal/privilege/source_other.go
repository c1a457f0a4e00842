//go:build !linux

package privilege

// SystemSource reports ErrIdentityQueryUnsupported outside Linux, where the saved
// set-user-ID cannot be read.
type SystemSource struct{}

// Resolve always fails closed.
func (SystemSource) Resolve() (Credentials, error) {
	return Credentials{Real: -1, Effective: -1, Saved: -1}, ErrIdentityQueryUnsupported
}

// RestrictNewPrivileges is a no-op outside Linux.
func RestrictNewPrivileges() error {
	return nil
}
