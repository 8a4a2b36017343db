package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"coscindex/internal/adapters/tui/styles"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

// MetadataKeyMap defines key bindings for the metadata view
type MetadataKeyMap struct {
	Composition key.Binding
	Comments    key.Binding
	Back        key.Binding
}

var MetadataKeys = MetadataKeyMap{
	Composition: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "composition"),
	),
	Comments: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "raw comments"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

const (
	maxColumnWidth = 24
	minColumnWidth = 4
)

// MetadataModel shows the metadata table of one resource
type MetadataModel struct {
	Pane
	catalog     *domain.Catalog
	resource    domain.ResourceIndex
	name        string
	scheme      string
	composition bool
	rawComments bool
	data        *domain.Table
	table       table.Model
}

// NewMetadataModel creates a new metadata view model
func NewMetadataModel(catalog *domain.Catalog) *MetadataModel {
	t := table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = styles.TableHeader
	s.Selected = styles.NodeSelected
	t.SetStyles(s)
	return &MetadataModel{catalog: catalog, table: t}
}

// SetResource selects the resource to show and resets the view options
func (m *MetadataModel) SetResource(ri domain.ResourceIndex, name string) tea.Cmd {
	m.resource = ri
	m.name = name
	m.composition = false
	m.rawComments = false
	m.ClearStatus()
	return m.load
}

type metadataLoadedMsg struct {
	scheme string
	table  *domain.Table
}

func (m *MetadataModel) load() tea.Msg {
	ctx := context.Background()
	src := domain.IndexSource(m.resource)
	if m.composition {
		cmd := commands.NewCompositionCommand(m.catalog, domain.DefaultElements(), nil, src)
		t, err := cmd.Execute(ctx)
		if err != nil {
			return errMsg{err}
		}
		return metadataLoadedMsg{scheme: domain.SampleScheme, table: t}
	}
	cmd := commands.NewMetadataCommand(m.catalog, nil, src)
	cmd.ParseComments = !m.rawComments
	result, err := cmd.Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	return metadataLoadedMsg{scheme: result.Scheme, table: result.Table}
}

// Init initializes the metadata view
func (m *MetadataModel) Init() tea.Cmd {
	return m.load
}

// Update handles messages for the metadata view
func (m *MetadataModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case metadataLoadedMsg:
		m.scheme = msg.scheme
		m.data = msg.table
		m.fill()
		return m, nil

	case errMsg:
		m.data = nil
		m.fill()
		m.Fail(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, MetadataKeys.Back):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		case key.Matches(msg, MetadataKeys.Composition):
			m.composition = !m.composition
			m.ClearStatus()
			return m, m.load
		case key.Matches(msg, MetadataKeys.Comments):
			if m.composition {
				return m, nil
			}
			m.rawComments = !m.rawComments
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// fill copies the domain table into the table widget. Rows are cleared
// before the columns change so no row is rendered against fewer columns.
func (m *MetadataModel) fill() {
	m.table.SetRows(nil)
	if m.data == nil {
		m.table.SetColumns(nil)
		return
	}
	m.table.SetColumns(Columns(m.data))
	m.table.SetRows(Rows(m.data))
	m.table.GotoTop()
}

// Columns sizes one widget column per table column to fit its label and cells
func Columns(t *domain.Table) []table.Column {
	cols := make([]table.Column, len(t.Columns))
	for i, c := range t.Columns {
		width := max(len([]rune(c.Label())), minColumnWidth)
		for _, row := range t.Rows {
			width = max(width, len([]rune(domain.FormatCell(row[c]))))
		}
		cols[i] = table.Column{Title: c.Label(), Width: min(width, maxColumnWidth)}
	}
	return cols
}

// Rows renders every cell of the table as text
func Rows(t *domain.Table) []table.Row {
	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		cells := make(table.Row, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = domain.FormatCell(row[c])
		}
		rows[i] = cells
	}
	return rows
}

// View renders the metadata view
func (m *MetadataModel) View() string {
	title := m.name
	if m.composition {
		title += " · composition"
	}
	v := NewViewBuilder().Title(title)

	switch {
	case m.data == nil && m.Status == "":
		v.Muted("This resource does not contain files")
	case m.data != nil:
		v.Line(RenderLabelValue("Scheme", m.scheme))
		v.Subtitle(fmt.Sprintf("%d rows · %d columns", m.data.Len(), len(m.data.Columns)))
		v.Line(m.table.View())
	}
	v.BlankLine().Status(&m.Pane)
	return v.Help(MetadataKeys.Composition, MetadataKeys.Comments, MetadataKeys.Back).String()
}

// SetSize updates the view dimensions and the table viewport
func (m *MetadataModel) SetSize(width, height int) {
	m.Pane.SetSize(width, height)
	m.table.SetWidth(width - 4)
	m.table.SetHeight(m.BodyHeight(3))
}
