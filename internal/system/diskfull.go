package system

import "strings"

// IsDiskFullError reports whether err means the storage ran out of space.
// Errno values are checked first; the message check covers wrapped errors
// that lost their errno (e.g. errors produced by filesystem shims).
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	if isDiskFullErrno(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "disk is full") ||
		strings.Contains(msg, "not enough space") ||
		strings.Contains(msg, "quota exceeded")
}
