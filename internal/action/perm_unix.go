//go:build !windows

package action

// supportsPermissions is true if the platform honours unix permission bits.
const supportsPermissions = true
