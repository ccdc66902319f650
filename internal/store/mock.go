package store

import (
	"fjacquet/speech-expense/internal/models"
)

// MockCategoryStore is a mock implementation of Loader for testing.
type MockCategoryStore struct {
	Categories []models.CategoryRecord

	// LoadCategoriesError is returned instead of Categories when set.
	LoadCategoriesError error
	Calls               int
}

// LoadCategories returns the mock categories.
func (m *MockCategoryStore) LoadCategories() ([]models.CategoryRecord, error) {
	m.Calls++
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return m.Categories, nil
}
