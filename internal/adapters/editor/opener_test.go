package editor

import (
	"errors"
	"os/exec"
	"testing"
)

func fakeOpener(env map[string]string, installed ...string) *Opener {
	return &Opener{
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			for _, i := range installed {
				if i == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", exec.ErrNotFound
		},
	}
}

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		installed []string
		wantArgs  []string
		wantErr   error
	}{
		{
			name:     "editor variable",
			env:      map[string]string{"EDITOR": "hx", "VISUAL": "code"},
			wantArgs: []string{"hx", "/p/doc.json"},
		},
		{
			name:     "visual when editor unset",
			env:      map[string]string{"VISUAL": "code --wait"},
			wantArgs: []string{"code", "--wait", "/p/doc.json"},
		},
		{
			name:      "fallback lookup",
			env:       map[string]string{"EDITOR": "  "},
			installed: []string{"nano", "vi"},
			wantArgs:  []string{"/usr/bin/vi", "/p/doc.json"},
		},
		{
			name:    "nothing available",
			env:     map[string]string{},
			wantErr: ErrNoEditor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := fakeOpener(tt.env, tt.installed...).Command("/p/doc.json")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("expected args %v, got %v", tt.wantArgs, cmd.Args)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("expected args %v, got %v", tt.wantArgs, cmd.Args)
					break
				}
			}
		})
	}
}
