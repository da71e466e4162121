// Package migrations holds the schema migrations. Each one registers itself
// in init(); importing this package (blank import from cmd) is what makes the
// runner see them.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_product_categories_table", &CreateProductCategoriesTable{})
	migration.Register("20240101000001_create_products_table", &CreateProductsTable{})
}

type CreateProductCategoriesTable struct{}

func (CreateProductCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductCategory{})
}

func (CreateProductCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.ProductCategory{})
}

type CreateProductsTable struct{}

func (CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}
