package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"coscindex/internal/adapters/tui/views"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewMetadata
	ViewSearch
	ViewHelp
)

// App is the main TUI application model
type App struct {
	snap   *domain.Snapshot
	repo   ports.RemoteRepository
	opener ports.EditorOpener

	state    ViewState
	browser  *views.BrowserModel
	metadata *views.MetadataModel
	search   *views.SearchModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application over a loaded snapshot. Files are
// read from repo and shown with opener.
func NewApp(catalog *domain.Catalog, repo ports.RemoteRepository, opener ports.EditorOpener) *App {
	return &App{
		snap:     catalog.Snapshot(),
		repo:     repo,
		opener:   opener,
		state:    ViewBrowser,
		browser:  views.NewBrowserModel(catalog),
		metadata: views.NewMetadataModel(catalog),
		search:   views.NewSearchModel(catalog.Snapshot()),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// State returns the current view
func (a *App) State() ViewState {
	return a.state
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.metadata.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.ShowMetadataMsg:
		a.state = ViewMetadata
		return a, a.metadata.SetResource(msg.Resource, msg.Name)

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.OpenFileMsg:
		return a, a.openFile(msg)

	case fileClosedMsg:
		if msg.err != nil {
			a.search.Fail(msg.err.Error())
		}
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		a.reveal(msg.Result)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewMetadata:
		_, cmd = a.metadata.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// reveal moves the browser cursor to a search result. Files are shown by
// their resource.
func (a *App) reveal(r commands.SearchResult) {
	switch r.Kind {
	case commands.MatchProject:
		a.browser.Reveal(domain.NodeProject, r.Index)
	case commands.MatchResource:
		a.browser.Reveal(domain.NodeResource, r.Index)
	case commands.MatchFile:
		if f, err := a.snap.File(domain.FileIndex(r.Index)); err == nil {
			a.browser.Reveal(domain.NodeResource, int(f.Resource))
		}
	}
}

type fileClosedMsg struct {
	err error
}

// openFile copies the file content to a temporary file and hands it to the
// viewer. The copy is removed when the viewer exits.
func (a *App) openFile(msg views.OpenFileMsg) tea.Cmd {
	path, err := a.download(msg.Index, msg.Name)
	if err != nil {
		return func() tea.Msg { return fileClosedMsg{err: err} }
	}
	cmd, err := a.opener.Command(path)
	if err != nil {
		os.Remove(path)
		return func() tea.Msg { return fileClosedMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		os.Remove(path)
		return fileClosedMsg{err: err}
	})
}

func (a *App) download(idx domain.FileIndex, name string) (string, error) {
	rc, err := commands.NewFileContentCommand(a.repo, a.snap, idx).Execute(context.Background())
	if err != nil {
		return "", err
	}
	defer rc.Close()

	f, err := os.CreateTemp("", "coscindex-*-"+name)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return f.Name(), f.Close()
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewMetadata:
		return a.metadata.View()
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
