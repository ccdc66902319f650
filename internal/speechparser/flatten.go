package speechparser

import (
	"fjacquet/speech-expense/internal/models"
)

// IndexedCategory is a category candidate. ParentID is empty for top-level
// categories.
type IndexedCategory struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// CategoryIndex splits a category list into top-level candidates and
// subcategory candidates.
type CategoryIndex struct {
	Categories    []IndexedCategory `json:"categories" yaml:"categories"`
	Subcategories []IndexedCategory `json:"subcategories" yaml:"subcategories"`
	ParentBySubID map[string]string `json:"parent_by_sub_id" yaml:"parent_by_sub_id"`
}

// FlattenCategories builds the candidate index for a category list given in
// either the flat or the nested layout.
func FlattenCategories(nodes []models.CategoryNode) CategoryIndex {
	index := CategoryIndex{
		Categories:    []IndexedCategory{},
		Subcategories: []IndexedCategory{},
		ParentBySubID: map[string]string{},
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case models.FlatCategory:
			if n.IsSubcategory() {
				index.Subcategories = append(index.Subcategories, IndexedCategory{ID: n.ID, Name: n.Name, ParentID: *n.ParentID})
			} else {
				index.Categories = append(index.Categories, IndexedCategory{ID: n.ID, Name: n.Name})
			}
		case models.NestedCategory:
			index.Categories = append(index.Categories, IndexedCategory{ID: n.ID, Name: n.Name})
			for _, sub := range n.Subcategories {
				index.Subcategories = append(index.Subcategories, IndexedCategory{ID: sub.ID, Name: sub.Name, ParentID: n.ID})
				index.ParentBySubID[sub.ID] = n.ID
			}
		}
	}

	// Flat input carries the parent on each subcategory instead.
	if len(index.ParentBySubID) == 0 {
		for _, sub := range index.Subcategories {
			index.ParentBySubID[sub.ID] = sub.ParentID
		}
	}

	return index
}

// ParentOf returns the parent id of a subcategory.
func (ci CategoryIndex) ParentOf(subID string) string {
	return ci.ParentBySubID[subID]
}

// NameOf returns the name of a category or subcategory id.
func (ci CategoryIndex) NameOf(id string) string {
	if id == "" {
		return ""
	}
	for _, c := range ci.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	for _, s := range ci.Subcategories {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}
