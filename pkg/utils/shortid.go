package utils

import (
	"strings"

	"github.com/google/uuid"
)

// HandleID creates a standardized, human-readable identifier for cargo sets
// and tasking processes.
// Format: {kind}-{owner}-{8charHexUUID}
//
// Example:
//   - Input: kind="cargo", owner="BATUMI"
//   - Output: "cargo-BATUMI-a3f8e2b1"
func HandleID(kind, owner string) string {
	return kind + "-" + owner + "-" + ShortUUID()
}

// ShortUUID creates an 8-character hex string from a UUID. Enough uniqueness
// for in-mission identifiers while keeping names readable in menus and logs.
func ShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
