package filter

import "garagio/models"

// CascadePolicy configures the one cascade rule the product never pinned
// down: whether selecting every child of a category also ticks the parent.
type CascadePolicy struct {
	AutoSelectParent bool
}

// NormalizeTree clamps the category hierarchy to its fixed two levels,
// dropping anything deeper the collaborator might send.
func NormalizeTree(nodes []models.CategoryNode) []models.CategoryNode {
	out := make([]models.CategoryNode, 0, len(nodes))
	for _, parent := range nodes {
		p := models.CategoryNode{ID: parent.ID, Name: parent.Name}
		for _, child := range parent.Children {
			p.Children = append(p.Children, models.CategoryNode{ID: child.ID, Name: child.Name})
		}
		out = append(out, p)
	}
	return out
}

// ChildrenOf returns the child IDs of the given category, in tree order.
func ChildrenOf(tree []models.CategoryNode, parentID string) []string {
	for _, parent := range tree {
		if parent.ID != parentID {
			continue
		}
		out := make([]string, 0, len(parent.Children))
		for _, child := range parent.Children {
			out = append(out, child.ID)
		}
		return out
	}
	return nil
}

// SelectCategory toggles a top-level category. Deselecting removes the
// category and all of its children; selecting adds only the category
// itself — children individually deselected earlier stay deselected.
func SelectCategory(c models.FilterCriteria, categoryID string, selected bool, childIDs []string) models.FilterCriteria {
	out := c.Clone()
	if selected {
		out.CategoryIDs[categoryID] = struct{}{}
		return out
	}
	delete(out.CategoryIDs, categoryID)
	for _, id := range childIDs {
		delete(out.SubcategoryIDs, id)
	}
	return out
}

// SelectSubcategory toggles membership of a single subcategory. The parent
// is only auto-selected when the policy opts in and every sibling is now
// selected; it is never auto-deselected.
func (p CascadePolicy) SelectSubcategory(c models.FilterCriteria, childID string, selected bool, parentID string, siblingIDs []string) models.FilterCriteria {
	out := c.Clone()
	if !selected {
		delete(out.SubcategoryIDs, childID)
		return out
	}
	out.SubcategoryIDs[childID] = struct{}{}

	if p.AutoSelectParent && parentID != "" {
		all := true
		for _, id := range siblingIDs {
			if _, ok := out.SubcategoryIDs[id]; !ok {
				all = false
				break
			}
		}
		if all {
			out.CategoryIDs[parentID] = struct{}{}
		}
	}
	return out
}
