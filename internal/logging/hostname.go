package logging

import "os"

// UnknownHostFallback is returned when the hostname cannot be determined
const UnknownHostFallback = "unknown-host"

// osHostname is replaced in tests to exercise the fallback.
var osHostname = os.Hostname

// Hostname returns the machine hostname, or UnknownHostFallback.
func Hostname() string {
	hostname, err := osHostname()
	if err != nil || hostname == "" {
		return UnknownHostFallback
	}
	return hostname
}
