package filter

import (
	"testing"

	"garagio/models"
)

func testTree() []models.CategoryNode {
	return []models.CategoryNode{
		{ID: "c1", Name: "Detailing", Children: []models.CategoryNode{
			{ID: "s1", Name: "Interior"},
			{ID: "s2", Name: "Exterior"},
			{ID: "s3", Name: "Ceramic"},
		}},
		{ID: "c2", Name: "Repair"},
	}
}

func TestNormalizeTree_ClampsDepth(t *testing.T) {
	deep := []models.CategoryNode{
		{ID: "c1", Children: []models.CategoryNode{
			{ID: "s1", Children: []models.CategoryNode{{ID: "grandchild"}}},
		}},
	}
	out := NormalizeTree(deep)
	if len(out[0].Children[0].Children) != 0 {
		t.Error("grandchildren must be dropped")
	}
}

func TestSelectCategory_DeselectRemovesChildren(t *testing.T) {
	policy := CascadePolicy{}
	tree := testTree()
	c := DefaultCriteria()

	c = SelectCategory(c, "c1", true, ChildrenOf(tree, "c1"))
	c = policy.SelectSubcategory(c, "s1", true, "c1", ChildrenOf(tree, "c1"))
	c = policy.SelectSubcategory(c, "s2", true, "c1", ChildrenOf(tree, "c1"))

	c = SelectCategory(c, "c1", false, ChildrenOf(tree, "c1"))
	if _, ok := c.CategoryIDs["c1"]; ok {
		t.Error("category still selected after deselect")
	}
	if len(c.SubcategoryIDs) != 0 {
		t.Errorf("children must cascade-deselect, got %v", c.SubcategoryIDs)
	}
}

func TestSelectCategory_SelectDoesNotForceChildren(t *testing.T) {
	policy := CascadePolicy{}
	tree := testTree()
	c := DefaultCriteria()

	c = policy.SelectSubcategory(c, "s1", true, "c1", ChildrenOf(tree, "c1"))
	c = policy.SelectSubcategory(c, "s1", false, "c1", ChildrenOf(tree, "c1"))

	// Re-selecting the parent must not bring back children the user
	// individually deselected.
	c = SelectCategory(c, "c1", true, ChildrenOf(tree, "c1"))
	if _, ok := c.SubcategoryIDs["s1"]; ok {
		t.Error("parent select re-added a deselected child")
	}

	// Re-selecting one child must not re-add its removed siblings.
	c = policy.SelectSubcategory(c, "s2", true, "c1", ChildrenOf(tree, "c1"))
	if _, ok := c.SubcategoryIDs["s1"]; ok {
		t.Error("sibling re-added by unrelated selection")
	}
	if _, ok := c.SubcategoryIDs["s2"]; !ok {
		t.Error("selected child missing")
	}
}

func TestSelectSubcategory_ParentAutoSelectPolicy(t *testing.T) {
	tree := testTree()
	siblings := ChildrenOf(tree, "c1")

	tests := []struct {
		name       string
		policy     CascadePolicy
		wantParent bool
	}{
		{"policy off leaves parent alone", CascadePolicy{}, false},
		{"policy on selects parent when all children selected", CascadePolicy{AutoSelectParent: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			for _, id := range siblings {
				c = tt.policy.SelectSubcategory(c, id, true, "c1", siblings)
			}
			_, got := c.CategoryIDs["c1"]
			if got != tt.wantParent {
				t.Errorf("parent selected = %v, want %v", got, tt.wantParent)
			}
		})
	}
}

func TestSelectSubcategory_DeselectNeverTouchesParent(t *testing.T) {
	policy := CascadePolicy{AutoSelectParent: true}
	tree := testTree()
	siblings := ChildrenOf(tree, "c1")

	c := DefaultCriteria()
	for _, id := range siblings {
		c = policy.SelectSubcategory(c, id, true, "c1", siblings)
	}
	c = policy.SelectSubcategory(c, "s1", false, "c1", siblings)

	if _, ok := c.CategoryIDs["c1"]; !ok {
		t.Error("parent must not auto-deselect")
	}
	if _, ok := c.SubcategoryIDs["s1"]; ok {
		t.Error("child still selected after deselect")
	}
}
