package editor

import (
	"errors"
	"testing"
)

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		found    []string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "viewer wins over editor",
			env:      map[string]string{"COSCINDEX_VIEWER": "bat --paging=always", "EDITOR": "vim"},
			wantArgs: []string{"bat", "--paging=always", "/tmp/a.txt"},
		},
		{
			name:     "editor",
			env:      map[string]string{"EDITOR": "code --wait"},
			wantArgs: []string{"code", "--wait", "/tmp/a.txt"},
		},
		{
			name:     "pager",
			env:      map[string]string{"PAGER": "more"},
			wantArgs: []string{"more", "/tmp/a.txt"},
		},
		{
			name:     "fallback on path",
			found:    []string{"vi"},
			wantArgs: []string{"/usr/bin/vi", "/tmp/a.txt"},
		},
		{
			name:    "nothing available",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, env := range []string{"COSCINDEX_VIEWER", "EDITOR", "VISUAL", "PAGER"} {
				t.Setenv(env, tt.env[env])
			}
			o := &Opener{lookPath: func(name string) (string, error) {
				for _, f := range tt.found {
					if f == name {
						return "/usr/bin/" + name, nil
					}
				}
				return "", errors.New("not found")
			}}

			cmd, err := o.Command("/tmp/a.txt")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, cmd.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
