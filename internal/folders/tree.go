package folders

import "sort"

// TreeNode is one folder with its resolved children.
type TreeNode struct {
	Folder   Folder      `json:"folder"`
	Children []*TreeNode `json:"children,omitempty"`
}

// BuildTree groups a flat folder list into a display tree. It is a pure
// function: no I/O, no mutation of the input, safe to re-run on every change
// of the caller's expanded-node set.
//
// A node whose parentPath matches no other node in the input is placed at the
// tree root rather than dropped, so a partially loaded listing (children of
// collapsed folders never fetched) still renders.
func BuildTree(list []Folder) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(list))
	var order []string

	for _, folder := range list {
		if _, ok := nodes[folder.FullPath]; ok {
			continue
		}
		nodes[folder.FullPath] = &TreeNode{Folder: folder}
		order = append(order, folder.FullPath)
	}

	var roots []*TreeNode
	for _, fullPath := range order {
		node := nodes[fullPath]
		parent, ok := nodes[node.Folder.ParentPath]
		if node.Folder.ParentPath == "" || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortSiblings(roots)
	for _, node := range nodes {
		sortSiblings(node.Children)
	}

	return roots
}

// Siblings order by createdAt ascending; full path breaks ties so the order
// is deterministic across rebuilds.
func sortSiblings(siblings []*TreeNode) {
	sort.SliceStable(siblings, func(i, j int) bool {
		a, b := siblings[i].Folder, siblings[j].Folder
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.FullPath < b.FullPath
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
