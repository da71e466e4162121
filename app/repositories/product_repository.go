// Package repositories contains the database access layer.
package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/pkg/metrics"
)

// ProductListItem is one row of the catalogue listing: the product columns
// plus the joined category title (nil when the product is uncategorised).
type ProductListItem struct {
	ID                uint    `json:"id"`
	Code              string  `json:"code"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Stock             int64   `json:"stock"`
	Price             float64 `json:"price"`
	ImagePath         string  `json:"image_path,omitempty"`
	ProductCategoryID *uint   `json:"product_category_id,omitempty"`
	Version           string  `json:"version"`
	CategoryTitle     *string `json:"category_title,omitempty"`
}

// sortClauses whitelists the recognised sort keys. Anything else falls back
// to the default title-ascending order.
var sortClauses = map[string]string{
	"title":         "products.title asc",
	"title_desc":    "products.title desc",
	"sku":           "products.code asc",
	"sku_desc":      "products.code desc",
	"price":         "products.price asc",
	"price_desc":    "products.price desc",
	"category":      "product_categories.title asc",
	"category_desc": "product_categories.title desc",
}

const defaultSort = "products.title asc"

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns the catalogue joined with categories, filtered by search and
// ordered by sortKey. The result is a materialized read-only slice.
func (r *ProductRepository) List(sortKey, search string) ([]ProductListItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	order, ok := sortClauses[sortKey]
	if !ok {
		order = defaultSort
	}

	q := r.db.Model(&models.Product{}).
		Select("products.*, product_categories.title AS category_title").
		Joins("LEFT JOIN product_categories ON product_categories.id = products.product_category_id")

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"products.title LIKE ? OR products.description LIKE ? OR product_categories.title LIKE ?",
			like, like, like,
		)
	}

	var items []ProductListItem
	if err := q.Order(order).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads a single product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	err := r.db.First(&product, id).Error
	return product, err
}

// Exists reports whether a product row with the given id is present.
func (r *ProductRepository) Exists(id uint) (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var count int64
	err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CodeExists reports whether any product owns the given SKU code.
func (r *ProductRepository) CodeExists(code string) (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var count int64
	err := r.db.Model(&models.Product{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// FindIDByCode returns the id of the product owning code, or 0 when the code
// is unclaimed.
func (r *ProductRepository) FindIDByCode(code string) (uint, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	err := r.db.Select("id").Where("code = ?", code).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

// Create persists a new product. A unique-index violation on code surfaces
// as the driver's error; the service treats it as fatal.
func (r *ProductRepository) Create(product *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(product).Error
}

// UpdateVersioned writes the allowed columns of product where the stored
// version still equals expectedVersion, and reports whether a row was hit.
// Zero rows means the token went stale or the row vanished; the caller
// distinguishes the two.
func (r *ProductRepository) UpdateVersioned(id uint, expectedVersion string, product *models.Product) (bool, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	res := r.db.Model(&models.Product{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("code", "title", "description", "stock", "price", "image_path", "product_category_id", "version").
		Updates(product)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the product row permanently.
func (r *ProductRepository) Delete(id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.db.Delete(&models.Product{}, id).Error
}

// Count returns the number of product rows. Used by the seeder gate.
func (r *ProductRepository) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}
