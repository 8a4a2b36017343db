package ports

import "os/exec"

// EditorOpener opens a local file in an external program
type EditorOpener interface {
	// OpenFile opens the file in the user's editor or pager and waits for it to exit
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file, for use with
	// bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
