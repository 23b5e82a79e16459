package pms

import (
	"sort"

	"github.com/ukydev/marine-pms/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentNode is one equipment item with its children for display.
type EquipmentNode struct {
	models.Equipment
	Children []*EquipmentNode `json:"children"`
}

// childIndex maps each parent id to the indexes of its children. Items
// whose parent is absent from the slice, or that name themselves as
// parent, are returned as roots.
func childIndex(items []models.Equipment) (children map[primitive.ObjectID][]int, roots []int) {
	present := make(map[primitive.ObjectID]bool, len(items))
	for _, eq := range items {
		present[eq.ID] = true
	}
	children = make(map[primitive.ObjectID][]int)
	for i, eq := range items {
		if eq.ParentID != nil && *eq.ParentID != eq.ID && present[*eq.ParentID] {
			children[*eq.ParentID] = append(children[*eq.ParentID], i)
			continue
		}
		roots = append(roots, i)
	}
	return children, roots
}

func sortIndexes(items []models.Equipment, idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := items[idx[a]], items[idx[b]]
		if x.SortOrder != y.SortOrder {
			return x.SortOrder < y.SortOrder
		}
		return x.Name < y.Name
	})
}

// BuildTree arranges a vessel's equipment into a forest ordered by
// (sort_order, name). Every item appears exactly once; items caught in a
// parent cycle are promoted to roots.
func BuildTree(items []models.Equipment) []*EquipmentNode {
	children, roots := childIndex(items)
	visited := make([]bool, len(items))

	var build func(i int) *EquipmentNode
	build = func(i int) *EquipmentNode {
		visited[i] = true
		node := &EquipmentNode{Equipment: items[i], Children: []*EquipmentNode{}}
		kids := children[items[i].ID]
		sortIndexes(items, kids)
		for _, k := range kids {
			if !visited[k] {
				node.Children = append(node.Children, build(k))
			}
		}
		return node
	}

	out := make([]*EquipmentNode, 0, len(roots))
	sortIndexes(items, roots)
	for _, i := range roots {
		out = append(out, build(i))
	}

	var stranded []int
	for i := range items {
		if !visited[i] {
			stranded = append(stranded, i)
		}
	}
	sortIndexes(items, stranded)
	for _, i := range stranded {
		if !visited[i] {
			out = append(out, build(i))
		}
	}
	return out
}

// Descendants returns rootID followed by the ids of every item below it.
func Descendants(items []models.Equipment, rootID primitive.ObjectID) []primitive.ObjectID {
	children, _ := childIndex(items)

	out := []primitive.ObjectID{rootID}
	seen := map[primitive.ObjectID]bool{rootID: true}
	for head := 0; head < len(out); head++ {
		for _, k := range children[out[head]] {
			id := items[k].ID
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
