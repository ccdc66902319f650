package speechparser

import (
	"testing"

	"fjacquet/speech-expense/internal/models"

	"github.com/stretchr/testify/assert"
)

func flatTree() []models.CategoryNode {
	return []models.CategoryNode{
		models.FlatCategory{ID: "food", Name: "Food & Dining"},
		models.FlatCategory{ID: "coffee", Name: "Coffee", ParentID: models.StringPtr("food")},
		models.FlatCategory{ID: "transport", Name: "Transport", ParentID: nil},
		models.FlatCategory{ID: "taxi", Name: "Taxi", ParentID: models.StringPtr("transport")},
	}
}

func nestedTree() []models.CategoryNode {
	return []models.CategoryNode{
		models.NestedCategory{ID: "food", Name: "Food & Dining", Subcategories: []models.Subcategory{{ID: "coffee", Name: "Coffee"}}},
		models.NestedCategory{ID: "transport", Name: "Transport", Subcategories: []models.Subcategory{{ID: "taxi", Name: "Taxi"}}},
	}
}

func TestFlattenCategories_FlatAndNestedAreEquivalent(t *testing.T) {
	expected := CategoryIndex{
		Categories: []IndexedCategory{
			{ID: "food", Name: "Food & Dining"},
			{ID: "transport", Name: "Transport"},
		},
		Subcategories: []IndexedCategory{
			{ID: "coffee", Name: "Coffee", ParentID: "food"},
			{ID: "taxi", Name: "Taxi", ParentID: "transport"},
		},
		ParentBySubID: map[string]string{"coffee": "food", "taxi": "transport"},
	}

	assert.Equal(t, expected, FlattenCategories(flatTree()))
	assert.Equal(t, expected, FlattenCategories(nestedTree()))
}

func TestFlattenCategories_EdgeCases(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		index := FlattenCategories(nil)
		assert.Empty(t, index.Categories)
		assert.Empty(t, index.Subcategories)
		assert.Empty(t, index.ParentBySubID)
	})

	t.Run("empty parent id is top-level", func(t *testing.T) {
		index := FlattenCategories([]models.CategoryNode{
			models.FlatCategory{ID: "misc", Name: "Misc", ParentID: models.StringPtr("")},
		})
		assert.Equal(t, []IndexedCategory{{ID: "misc", Name: "Misc"}}, index.Categories)
		assert.Empty(t, index.Subcategories)
	})

	t.Run("nested without list is bare top-level", func(t *testing.T) {
		index := FlattenCategories([]models.CategoryNode{
			models.NestedCategory{ID: "gifts", Name: "Gifts"},
		})
		assert.Equal(t, []IndexedCategory{{ID: "gifts", Name: "Gifts"}}, index.Categories)
		assert.Empty(t, index.ParentBySubID)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, FlattenCategories(nestedTree()), FlattenCategories(nestedTree()))
	})
}

func TestCategoryIndex_Lookups(t *testing.T) {
	index := FlattenCategories(nestedTree())

	assert.Equal(t, "food", index.ParentOf("coffee"))
	assert.Equal(t, "", index.ParentOf("unknown"))
	assert.Equal(t, "Taxi", index.NameOf("taxi"))
	assert.Equal(t, "Transport", index.NameOf("transport"))
	assert.Equal(t, "", index.NameOf(""))
}
