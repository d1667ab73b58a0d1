// Package source provides the launcher's candidate lists: desktop
// applications, executables on PATH, piped stdin lines and lines read from a
// file. Every mode satisfies Source and is chosen once at startup.
package source

import (
	"context"
	"image"
	"io"

	"github.com/justyntemme/quiver/internal/input"
)

// Entry is what one candidate looks like on screen.
type Entry struct {
	Name string
	// Subname is the label of the selected secondary action, if any.
	Subname    string
	HasSubname bool
	Icon       image.Image
}

// Selection identifies what the user activated. Valid is false when the
// filtered view was empty; the mode then falls back to the typed text.
type Selection struct {
	Index int
	Valid bool
	// Sub is 0 for the primary action, 1..SubentryCount for the others.
	Sub int
}

// ExecContext carries everything besides the selection that shapes a launch.
type ExecContext struct {
	Input input.Value
	// Fork keeps the launcher running after the child starts.
	Fork bool
	// Stdout receives dialog output.
	Stdout io.Writer
}

// Source is a read-only list of candidates plus the action that runs one.
type Source interface {
	// Name is the mode name ("apps", "bins", "dialog", "lines").
	Name() string
	Len() int
	// String returns the matchable text: the display name followed by any
	// hidden keywords.
	String(i int) string
	SubentryCount(i int) int
	Entry(i, sub int) Entry
	Execute(ctx context.Context, sel Selection, ec ExecContext) error
}
