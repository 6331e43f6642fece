// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// conflictMarkers are the message fragments of a busy or locked database.
// They cover errors that reach us already flattened to text.
var conflictMarkers = []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked"}

// IsSQLiteConflictError reports whether err means another connection holds
// the write lock: a history insert racing the retention sweep, or two tabs
// caching the same explanation. Such writes are safe to retry.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		// Extended result codes keep the primary code in the low byte.
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return false
	}
	msg := err.Error()
	for _, m := range conflictMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
