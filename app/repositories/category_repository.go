package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/pkg/metrics"
)

// CategoryRepository handles database operations for ProductCategory.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns every category ordered by title, for the product form selector.
func (r *CategoryRepository) All() ([]models.ProductCategory, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var categories []models.ProductCategory
	err := r.db.Order("title asc").Find(&categories).Error
	return categories, err
}

// FindByID loads a single category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.ProductCategory, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var category models.ProductCategory
	err := r.db.First(&category, id).Error
	return category, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(category *models.ProductCategory) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(category).Error
}

// Count returns the number of category rows. Used by the seeder gate.
func (r *CategoryRepository) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var count int64
	err := r.db.Model(&models.ProductCategory{}).Count(&count).Error
	return count, err
}
