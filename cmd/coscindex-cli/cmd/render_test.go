package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"coscindex/internal/domain"
)

func TestRenderTSV(t *testing.T) {
	table := domain.NewTable(domain.Col("ID"))
	table.Append(domain.Row{domain.Col("ID"): "S1", {Group: "wt.%", Sub: "Cu"}: 60.0})
	table.Append(domain.Row{domain.Col("ID"): "a\tb"})

	got := renderTSV(table)
	assert.Equal(t, "ID\twt.% / Cu\nS1\t60\na\\tb\t\n", got)
}

func TestRenderTable(t *testing.T) {
	table := domain.NewTable(domain.Col("ID"))
	table.Append(domain.Row{domain.Col("ID"): "S1", {Group: "T", Sub: ""}: 900.0})

	got := renderTable(table)
	for _, want := range []string{"ID", "T", "S1", "900"} {
		assert.Contains(t, got, want)
	}
}

func TestRenderTree(t *testing.T) {
	root := &domain.TreeNode{Kind: domain.NodeRoot}
	alloys := &domain.TreeNode{Kind: domain.NodeProject, Name: "Alloys"}
	root.AddChild(alloys)
	alloys.AddChild(&domain.TreeNode{Kind: domain.NodeResource, Index: 0, Name: "Samples", Scheme: "Sample", Files: 2, Size: 2000})
	batch := &domain.TreeNode{Kind: domain.NodeProject, Name: "Batch1"}
	alloys.AddChild(batch)
	batch.AddChild(&domain.TreeNode{Kind: domain.NodeResource, Index: 1, Name: "Pending", Scheme: "Sample"})

	got := renderTree(root)
	lines := strings.Split(got, "\n")
	assert.Contains(t, got, "Alloys/")
	assert.Contains(t, got, "Samples  [0] Sample · 2 files · 2.0 kB")
	assert.Contains(t, got, "Pending  [1] Sample · 0 files · 0 B")
	assert.Less(t, strings.Index(got, "Samples"), strings.Index(got, "Batch1/"))
	assert.GreaterOrEqual(t, len(lines), 5)
}
