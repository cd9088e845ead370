package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/1broseidon/deskshell/internal/icons"
)

var (
	// ErrCycle is returned when a node is reachable twice from the root.
	ErrCycle = errors.New("menu: node reachable more than once")
	// ErrInvalidNode is returned for nodes that are neither leaf nor submenu.
	ErrInvalidNode = errors.New("menu: invalid node")
)

// Action identifiers carried by menu leaves.
const (
	ActionOpenPrefix = "open:"
	ActionSortPrefix = "sort:"
	ActionRefresh    = "refresh"
	ActionLock       = "lock"
)

// Node is an entry in a menu tree: either a leaf with an action or a submenu
// with children, never both.
type Node struct {
	Label    string
	Action   string
	Icon     string
	Checked  bool
	Children []*Node
}

// IsParent returns true if this node has a submenu.
func (n *Node) IsParent() bool {
	return len(n.Children) > 0
}

// NewTree validates root and returns it. Every node must have a label and
// exactly one of action or children, and no node may appear twice.
func NewTree(root *Node) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidNode)
	}
	seen := make(map[*Node]bool)
	if err := validate(root, seen, true); err != nil {
		return nil, err
	}
	return root, nil
}

func validate(n *Node, seen map[*Node]bool, isRoot bool) error {
	if n == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidNode)
	}
	if seen[n] {
		return fmt.Errorf("%w: %q", ErrCycle, n.Label)
	}
	seen[n] = true

	if !isRoot && strings.TrimSpace(n.Label) == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidNode)
	}
	if n.IsParent() && n.Action != "" {
		return fmt.Errorf("%w: %q has both action and children", ErrInvalidNode, n.Label)
	}
	if !isRoot && !n.IsParent() && n.Action == "" {
		return fmt.Errorf("%w: %q has neither action nor children", ErrInvalidNode, n.Label)
	}
	for _, child := range n.Children {
		if err := validate(child, seen, false); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns every action node in depth-first order.
func (n *Node) Leaves() []*Node {
	if !n.IsParent() {
		if n.Action == "" {
			return nil
		}
		return []*Node{n}
	}
	var out []*Node
	for _, child := range n.Children {
		out = append(out, child.Leaves()...)
	}
	return out
}

// Find returns the node reached by following labels from n.
func (n *Node) Find(path ...string) (*Node, bool) {
	cur := n
	for _, label := range path {
		var next *Node
		for _, child := range cur.Children {
			if child.Label == label {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// BuildStartMenu builds the start menu from the authoritative icon order:
// pinned entries first, then every icon under "All apps", then Lock.
func BuildStartMenu(catalog []icons.Def) (*Node, error) {
	root := &Node{Label: "Start"}
	all := &Node{Label: "All apps"}
	for _, icon := range catalog {
		label := icon.Title
		if label == "" {
			label = icon.ID
		}
		if icon.Pinned {
			root.Children = append(root.Children, &Node{Label: label, Icon: icon.IconPath, Action: ActionOpenPrefix + icon.ID})
		}
		all.Children = append(all.Children, &Node{Label: label, Icon: icon.IconPath, Action: ActionOpenPrefix + icon.ID})
	}
	if len(all.Children) > 0 {
		root.Children = append(root.Children, all)
	}
	root.Children = append(root.Children, &Node{Label: "Lock", Action: ActionLock})
	return NewTree(root)
}

// BuildContextMenu builds the desktop context menu. The active sort key is
// marked as checked.
func BuildContextMenu(active icons.SortKey) (*Node, error) {
	sortBy := &Node{Label: "Sort by", Children: []*Node{
		{Label: "Name", Action: ActionSortPrefix + string(icons.SortName), Checked: active == icons.SortName},
		{Label: "Type", Action: ActionSortPrefix + string(icons.SortType), Checked: active == icons.SortType},
		{Label: "Date modified", Action: ActionSortPrefix + string(icons.SortDateModified), Checked: active == icons.SortDateModified},
	}}
	root := &Node{Label: "Desktop", Children: []*Node{
		sortBy,
		{Label: "Refresh", Action: ActionRefresh},
	}}
	return NewTree(root)
}

// Search fuzzy-matches query against every leaf label under root, best match
// first. An empty query returns all leaves in order.
func Search(root *Node, query string) []*Node {
	leaves := root.Leaves()
	// The same app appears both pinned and under "All apps"; keep the first.
	uniq := make([]*Node, 0, len(leaves))
	seenAction := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		if seenAction[leaf.Action] {
			continue
		}
		seenAction[leaf.Action] = true
		uniq = append(uniq, leaf)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return uniq
	}
	labels := make([]string, len(uniq))
	for i, leaf := range uniq {
		labels[i] = leaf.Label
	}
	matches := fuzzy.Find(query, labels)
	out := make([]*Node, 0, len(matches))
	for _, m := range matches {
		out = append(out, uniq[m.Index])
	}
	return out
}
