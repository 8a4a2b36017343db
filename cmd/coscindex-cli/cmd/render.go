package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"

	"coscindex/internal/domain"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	projectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	resourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// renderRows draws a bordered table
func renderRows(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func cells(t *domain.Table) (headers []string, rows [][]string) {
	headers = make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label()
	}
	rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rows[i][j] = domain.FormatCell(row[c])
		}
	}
	return headers, rows
}

// renderTable draws a metadata table
func renderTable(t *domain.Table) string {
	return renderRows(cells(t))
}

var tsvEscaper = strings.NewReplacer("\t", "\\t", "\n", "\\n")

// renderTSV writes a header line of column labels and one line per row
func renderTSV(t *domain.Table) string {
	headers, rows := cells(t)
	var sb strings.Builder
	sb.WriteString(strings.Join(headers, "\t"))
	sb.WriteByte('\n')
	for _, row := range rows {
		for i := range row {
			row[i] = tsvEscaper.Replace(row[i])
		}
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderTree draws the project hierarchy below the root node
func renderTree(root *domain.TreeNode) string {
	t := tree.Root(".").Enumerator(tree.RoundedEnumerator).EnumeratorStyle(borderStyle)
	for _, child := range root.Children {
		t.Child(treeNode(child))
	}
	return t.String()
}

func treeNode(node *domain.TreeNode) any {
	if node.Kind == domain.NodeResource {
		label := fmt.Sprintf("%s  [%d] %s · %d files · %s",
			node.Name, node.Index, node.Scheme, node.Files, humanize.Bytes(uint64(node.Size)))
		if node.Files == 0 {
			return emptyStyle.Render(label)
		}
		return resourceStyle.Render(label)
	}
	t := tree.Root(projectStyle.Render(node.Name + "/"))
	for _, child := range node.Children {
		t.Child(treeNode(child))
	}
	return t
}
