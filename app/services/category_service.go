package services

import (
	"fmt"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/app/repositories"
)

// CategoryService serves the category list backing the product form's
// category selector.
type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(categories *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// All returns every category ordered by title.
func (s *CategoryService) All() ([]models.ProductCategory, error) {
	categories, err := s.categories.All()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
