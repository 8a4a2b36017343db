package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"coscindex/internal/adapters/tui/styles"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Metadata key.Binding
	Copy     key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/metadata"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Metadata: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "metadata"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the project tree view
type BrowserModel struct {
	Pane
	snap      *domain.Snapshot
	schemes   map[string]int
	root      *domain.TreeNode
	problems  []string
	flatNodes []*domain.TreeNode
	pager     *Paginator
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(catalog *domain.Catalog) *BrowserModel {
	schemes := make(map[string]int)
	for i, name := range catalog.SchemeNames() {
		schemes[name] = i
	}
	return &BrowserModel{
		snap:    catalog.Snapshot(),
		schemes: schemes,
		pager:   NewPaginator(20),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	result, err := commands.NewBuildTreeCommand(m.snap).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{root: result.Root, problems: result.Problems}
}

type treeLoadedMsg struct {
	root     *domain.TreeNode
	problems []string
}

type errMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.problems = msg.problems
		if len(m.problems) > 0 {
			m.Fail(fmt.Sprintf("%d inconsistencies in the snapshot, first: %s", len(m.problems), m.problems[0]))
		}
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.Fail(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		m.ClearStatus()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, BrowserKeys.PageUp):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.PageDown):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.SelectedNode(); node != nil {
				if node.IsExpanded {
					node.Collapse()
					m.refreshFlatNodes()
				} else if node.Parent != nil && node.Parent.Kind != domain.NodeRoot {
					m.selectNode(node.Parent)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			node := m.SelectedNode()
			if node == nil {
				return m, nil
			}
			if node.Kind == domain.NodeResource {
				if key.Matches(msg, BrowserKeys.Enter) {
					return m, showMetadata(node)
				}
				return m, nil
			}
			if !node.IsExpanded {
				node.Expand()
			} else if key.Matches(msg, BrowserKeys.Enter) {
				node.Collapse()
			}
			m.refreshFlatNodes()
			return m, nil

		case key.Matches(msg, BrowserKeys.Metadata):
			if node := m.SelectedNode(); node != nil && node.Kind == domain.NodeResource {
				return m, showMetadata(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.SelectedNode(); node != nil {
				if err := clipboard.WriteAll(node.Path); err != nil {
					m.Fail(fmt.Sprintf("Copy failed: %v", err))
				} else {
					m.Info("Copied "+node.Path)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Search):
			return m, func() tea.Msg {
				return SwitchToSearchMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func showMetadata(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		return ShowMetadataMsg{Resource: domain.ResourceIndex(node.Index), Name: node.Path}
	}
}

// SelectedNode returns the node under the cursor
func (m *BrowserModel) SelectedNode() *domain.TreeNode {
	c := m.pager.Cursor()
	if c >= 0 && c < len(m.flatNodes) {
		return m.flatNodes[c]
	}
	return nil
}

func (m *BrowserModel) selectNode(target *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == target {
			m.pager.SetCursor(i)
			return
		}
	}
}

// Reveal expands the ancestors of the node of the given kind and index and
// moves the cursor onto it
func (m *BrowserModel) Reveal(kind domain.NodeKind, index int) bool {
	if m.root == nil {
		return false
	}
	var target *domain.TreeNode
	m.root.Walk(func(n *domain.TreeNode, _ int) {
		if target == nil && n.Kind == kind && n.Index == index {
			target = n
		}
	})
	if target == nil {
		return false
	}
	for p := target.Parent; p != nil; p = p.Parent {
		p.Expand()
	}
	m.refreshFlatNodes()
	m.selectNode(target)
	return true
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	m.pager.SetTotal(len(m.flatNodes))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		if m.Status != "" {
			return styles.App.Render(m.StatusLine())
		}
		return "Loading..."
	}

	v := NewViewBuilder().
		Title("coscindex").
		Subtitle(fmt.Sprintf("%d projects, %d resources, %d files, downloaded %s",
			len(m.snap.Projects), len(m.snap.Resources), len(m.snap.Files),
			humanize.Time(m.snap.DownloadTime)))

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flatNodes[i], i == m.pager.Cursor()))
	}
	if m.pager.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages()))
	}

	v.BlankLine()
	if m.Status != "" {
		v.Status(&m.Pane)
	}
	v.Help(BrowserKeys.Right, BrowserKeys.Left, BrowserKeys.Metadata, BrowserKeys.Copy,
		BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit)
	return v.String()
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth()-1)

	// Prefix (expand indicator)
	var prefix string
	switch {
	case node.Kind == domain.NodeResource:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	text := node.Name
	var style lipgloss.Style
	switch node.Kind {
	case domain.NodeProject:
		text += "/"
		style = styles.NodeProject
	case domain.NodeResource:
		text = fmt.Sprintf("%s  %s · %d files · %s", node.Name, node.Scheme, node.Files, humanize.Bytes(uint64(node.Size)))
		if node.Files == 0 {
			style = styles.NodeEmpty
		} else {
			style = styles.NodeResource.Foreground(styles.SchemeColor(m.schemeIndex(node.Scheme)))
		}
	}

	styledText := style.Render(text)
	if selected {
		styledText = styles.NodeSelected.Render(text)
	}
	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *BrowserModel) schemeIndex(scheme string) int {
	if i, ok := m.schemes[scheme]; ok {
		return i
	}
	return -1
}

// SetSize updates the view dimensions and the page size
func (m *BrowserModel) SetSize(width, height int) {
	m.Pane.SetSize(width, height)
	m.pager.SetPageSize(m.BodyHeight(1))
}

// Messages for view switching
type ShowMetadataMsg struct {
	Resource domain.ResourceIndex
	Name     string
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
