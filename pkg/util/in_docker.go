// Package util holds small helpers without a better home
package util

import "os"

// Overridden in tests
var dockerEnvFile = "/.dockerenv"

// IsRunningInDocker reports whether the process runs inside a Docker
// container, which always gets a /.dockerenv file.
func IsRunningInDocker() bool {
	_, err := os.Stat(dockerEnvFile)
	return err == nil
}
