// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryLoad Op = "load library"
	OpLibrarySave Op = "save library"

	// Lookup operations
	OpSearch     Op = "search"
	OpFind       Op = "find"
	OpList       Op = "list tag values"
	OpListAll    Op = "list songs"
	OpStats      Op = "compute statistics"
	OpMemoryStat Op = "compute memory statistics"
	OpQuery      Op = "parse query"

	// Playlist operations
	OpPlaylistAddTrack Op = "add track to playlist"
	OpPlaylistLoad     Op = "load playlist"
	OpPlaylistList     Op = "list playlists"
	OpPlaylistDelete   Op = "delete playlist"
	OpPlaylistImport   Op = "import playlist metadata"

	// Queue operations
	OpQueueLoad  Op = "load queue"
	OpQueueAdd   Op = "add to queue"
	OpQueueClear Op = "clear queue"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpDBOpen     Op = "open database"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
