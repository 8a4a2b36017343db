package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"coscindex/internal/adapters/tui/styles"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Open   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "reveal"),
	),
	Open: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open file"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxSearchResults = 10

// SearchModel is the model for the search view
type SearchModel struct {
	Pane
	snap    *domain.Snapshot
	input   textinput.Model
	results []commands.SearchResult
	pager   *Paginator
}

// NewSearchModel creates a new search view model
func NewSearchModel(snap *domain.Snapshot) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search projects, resources and files..."
	input.Focus()

	return &SearchModel{
		snap:  snap,
		input: input,
		pager: NewPaginator(maxSearchResults),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.pager.Reset()
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.pager.Reset()
		m.pager.SetTotal(len(m.results))
		return m, nil

	case tea.KeyMsg:
		m.ClearStatus()
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if c := m.pager.Cursor(); c >= 0 && c < len(m.results) {
				result := m.results[c]
				// Copy path to clipboard
				clipboard.WriteAll(result.Path)
				return m, func() tea.Msg {
					return SearchSelectMsg{Result: result}
				}
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Open):
			if c := m.pager.Cursor(); c >= 0 && c < len(m.results) && m.results[c].Kind == commands.MatchFile {
				result := m.results[c]
				return m, func() tea.Msg {
					return OpenFileMsg{Index: domain.FileIndex(result.Index), Name: result.Name}
				}
			}
			m.Fail("Only files can be opened")
			return m, nil
		}
	}

	// Update input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Trigger search on input change
	query := m.input.Value()
	if len(query) >= 2 {
		return m, tea.Batch(cmd, m.search(query))
	} else if len(query) == 0 {
		m.results = nil
		m.pager.Reset()
	}

	return m, cmd
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchCommand(m.snap, query).Execute(context.Background())
		if err != nil {
			return searchResultsMsg{query: query}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

type searchResultsMsg struct {
	query   string
	results []commands.SearchResult
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Result commands.SearchResult
}

// OpenFileMsg asks for the content of a file to be shown in the viewer
type OpenFileMsg struct {
	Index domain.FileIndex
	Name  string
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if len(m.input.Value()) >= 2 {
			b.WriteString(styles.MutedText.Render("No results found"))
		} else {
			b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
		}
	} else {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")

		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.pager.Cursor()))
			b.WriteString("\n")
		}
		if m.pager.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages())))
		}
	}

	b.WriteString("\n\n")
	if m.Status != "" {
		b.WriteString(m.StatusLine())
		b.WriteString("\n")
	}
	b.WriteString(RenderHelpLine(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Open, SearchKeys.Cancel))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(result commands.SearchResult, selected bool) string {
	text := fmt.Sprintf("[%s] %s", strings.ToUpper(result.Kind), result.Path)
	if selected {
		return styles.NodeSelected.Render(text)
	}
	return text
}
