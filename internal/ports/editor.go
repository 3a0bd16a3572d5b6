package ports

import (
	"context"
	"os/exec"
)

// EditorOpener opens files in the user's external editor
type EditorOpener interface {
	// OpenFile runs the editor on path and waits for it to exit
	OpenFile(ctx context.Context, path string) error

	// Command returns the editor invocation without starting it, for callers
	// that manage the terminal themselves (bubbletea's ExecProcess)
	Command(path string) (*exec.Cmd, error)
}
