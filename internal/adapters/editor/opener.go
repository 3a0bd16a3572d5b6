package editor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither $EDITOR, $VISUAL nor a fallback editor is found
var ErrNoEditor = errors.New("no editor found: set $EDITOR environment variable")

// fallbacks are tried in order when no editor variable is set
var fallbacks = []string{"nvim", "vim", "vi", "nano", "code"}

// Opener implements ports.EditorOpener
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{getenv: os.Getenv, lookPath: exec.LookPath}
}

// OpenFile opens a document file in the user's editor and waits for it to exit
func (o *Opener) OpenFile(ctx context.Context, path string) error {
	argv, err := o.argv(path)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	attach(cmd)
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv, err := o.argv(path)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	attach(cmd)
	return cmd, nil
}

// argv splits the configured editor so values like "code --wait" work
func (o *Opener) argv(path string) ([]string, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, ErrNoEditor
	}
	return append(strings.Fields(editor), path), nil
}

func (o *Opener) findEditor() string {
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(o.getenv(name)); v != "" {
			return v
		}
	}
	for _, editor := range fallbacks {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}
	return ""
}

func attach(cmd *exec.Cmd) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
}
