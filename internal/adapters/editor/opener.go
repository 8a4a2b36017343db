package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookPath func(string) (string, error)
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	program := o.findProgram()
	if len(program) == 0 {
		return nil, fmt.Errorf("no viewer found: set $EDITOR or $PAGER")
	}

	cmd := exec.Command(program[0], append(program[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findProgram returns the program and its arguments. Values such as
// "code --wait" are split on spaces.
func (o *Opener) findProgram() []string {
	for _, env := range []string{"COSCINDEX_VIEWER", "EDITOR", "VISUAL", "PAGER"} {
		if value := strings.Fields(os.Getenv(env)); len(value) > 0 {
			return value
		}
	}

	// Try common viewers
	for _, name := range []string{"less", "nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}

	return nil
}
