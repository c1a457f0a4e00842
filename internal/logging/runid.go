package logging

import "github.com/oklog/ulid/v2"

// GenerateRunID returns a lexicographically sortable identifier that ties the
// console, syslog and audit records of one invocation together.
func GenerateRunID() string {
	return ulid.Make().String()
}
