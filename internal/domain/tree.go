package domain

// NodeKind is the kind of entity a tree node stands for
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeProject
	NodeResource
)

func (k NodeKind) String() string {
	switch k {
	case NodeProject:
		return "Project"
	case NodeResource:
		return "Resource"
	default:
		return "Root"
	}
}

// TreeNode represents a node in the project tree for navigation
type TreeNode struct {
	Kind       NodeKind
	Index      int // ProjectIndex or ResourceIndex depending on Kind
	ID         string
	Name       string
	Path       string
	Scheme     string // Resources only
	Files      int    // Resources only
	Size       int64  // Resources only
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// AddChild attaches a child node
func (n *TreeNode) AddChild(child *TreeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Walk visits the node and all descendants depth-first, regardless of expansion
func (n *TreeNode) Walk(visit func(node *TreeNode, depth int)) {
	n.walk(visit, 0)
}

func (n *TreeNode) walk(visit func(*TreeNode, int), depth int) {
	visit(n, depth)
	for _, child := range n.Children {
		child.walk(visit, depth+1)
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}
