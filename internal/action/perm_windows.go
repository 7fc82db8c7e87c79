//go:build windows

package action

// Windows only has a read-only attribute so archive permission bits are ignored.
const supportsPermissions = false
