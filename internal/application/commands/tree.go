package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dominikbraun/graph"

	"coscindex/internal/domain"
)

// TreeResult is the project hierarchy of a snapshot and any inconsistencies
// found in its cross-references
type TreeResult struct {
	Root     *domain.TreeNode
	Problems []string
}

// BuildTreeCommand builds the project tree of a snapshot
type BuildTreeCommand struct {
	snap *domain.Snapshot
	// Expanded opens every node of the returned tree
	Expanded bool
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(snap *domain.Snapshot) *BuildTreeCommand {
	return &BuildTreeCommand{snap: snap}
}

func projectKey(i domain.ProjectIndex) string   { return "p" + strconv.Itoa(int(i)) }
func resourceKey(i domain.ResourceIndex) string { return "r" + strconv.Itoa(int(i)) }

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*TreeResult, error) {
	if c.snap.IsEmpty() {
		return nil, domain.ErrNoData
	}

	g, problems, err := c.linkGraph()
	if err != nil {
		return nil, err
	}
	problems = append(problems, c.checkParents(g)...)

	root := &domain.TreeNode{Kind: domain.NodeRoot, Name: "/", IsExpanded: true}
	visited := make(map[domain.ProjectIndex]bool)
	for i, p := range c.snap.Projects {
		if p.Parent == nil {
			root.AddChild(c.projectNode(domain.ProjectIndex(i), visited))
		}
	}
	for i := range c.snap.Projects {
		if !visited[domain.ProjectIndex(i)] {
			problems = append(problems, fmt.Sprintf("project %d is not reachable from a top-level project", i))
		}
	}
	return &TreeResult{Root: root, Problems: problems}, nil
}

// linkGraph adds one vertex per project and resource and one edge per
// listed child. Cycles are rejected by the graph and reported.
func (c *BuildTreeCommand) linkGraph() (graph.Graph[string, string], []string, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for i := range c.snap.Projects {
		if err := g.AddVertex(projectKey(domain.ProjectIndex(i))); err != nil {
			return nil, nil, fmt.Errorf("failed to add project %d: %w", i, err)
		}
	}
	for i := range c.snap.Resources {
		if err := g.AddVertex(resourceKey(domain.ResourceIndex(i))); err != nil {
			return nil, nil, fmt.Errorf("failed to add resource %d: %w", i, err)
		}
	}

	var problems []string
	for i, p := range c.snap.Projects {
		from := projectKey(domain.ProjectIndex(i))
		for _, sub := range p.SubProjects {
			if err := g.AddEdge(from, projectKey(sub)); err != nil {
				problems = append(problems, edgeProblem("project", i, "sub-project", int(sub), err))
			}
		}
		for _, ri := range p.Resources {
			if err := g.AddEdge(from, resourceKey(ri)); err != nil {
				problems = append(problems, edgeProblem("project", i, "resource", int(ri), err))
			}
		}
	}
	return g, problems, nil
}

func edgeProblem(kind string, from int, childKind string, to int, err error) string {
	switch {
	case errors.Is(err, graph.ErrVertexNotFound):
		return fmt.Sprintf("%s %d lists unknown %s %d", kind, from, childKind, to)
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Sprintf("%s %d listing %s %d creates a cycle", kind, from, childKind, to)
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		return fmt.Sprintf("%s %d lists %s %d twice", kind, from, childKind, to)
	default:
		return fmt.Sprintf("%s %d -> %s %d: %v", kind, from, childKind, to, err)
	}
}

// checkParents verifies that every back-reference matches the graph's
// predecessor of that vertex
func (c *BuildTreeCommand) checkParents(g graph.Graph[string, string]) []string {
	preds, err := g.PredecessorMap()
	if err != nil {
		return []string{fmt.Sprintf("cannot read graph: %v", err)}
	}

	var problems []string
	for i, p := range c.snap.Projects {
		in := keys(preds[projectKey(domain.ProjectIndex(i))])
		switch {
		case p.Parent == nil && len(in) > 0:
			problems = append(problems, fmt.Sprintf("top-level project %d is listed by %v", i, in))
		case p.Parent != nil && (len(in) != 1 || in[0] != projectKey(*p.Parent)):
			problems = append(problems, fmt.Sprintf("project %d has parent %d but is listed by %v", i, *p.Parent, in))
		}
	}
	for i, r := range c.snap.Resources {
		in := keys(preds[resourceKey(domain.ResourceIndex(i))])
		if len(in) != 1 || in[0] != projectKey(r.Project) {
			problems = append(problems, fmt.Sprintf("resource %d belongs to project %d but is listed by %v", i, r.Project, in))
		}
	}
	return problems
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *BuildTreeCommand) projectNode(pi domain.ProjectIndex, visited map[domain.ProjectIndex]bool) *domain.TreeNode {
	visited[pi] = true
	p := c.snap.Projects[pi]
	node := &domain.TreeNode{
		Kind:       domain.NodeProject,
		Index:      int(pi),
		ID:         p.ID,
		Name:       p.Name,
		Path:       p.FullPath(),
		IsExpanded: c.Expanded,
	}
	for _, ri := range p.Resources {
		res, err := c.snap.Resource(ri)
		if err != nil {
			continue
		}
		node.AddChild(&domain.TreeNode{
			Kind:   domain.NodeResource,
			Index:  int(ri),
			ID:     res.ID,
			Name:   res.Name,
			Path:   res.Path,
			Scheme: domain.SchemeName(res.Profile),
			Files:  len(res.Files),
			Size:   res.TotalSize,
		})
	}
	for _, sub := range p.SubProjects {
		if int(sub) < 0 || int(sub) >= len(c.snap.Projects) || visited[sub] {
			continue
		}
		node.AddChild(c.projectNode(sub, visited))
	}
	return node
}
