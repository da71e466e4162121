package seeders

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
)

func init() {
	Register("catalog", &CatalogSeeder{})
}

// CatalogSeeder plants one root category and three starter products so a
// fresh install has something to show. It never touches a non-empty table.
type CatalogSeeder struct{}

func (CatalogSeeder) Run(db *gorm.DB) error {
	var categoryCount int64
	if err := db.Model(&models.ProductCategory{}).Count(&categoryCount).Error; err != nil {
		return err
	}

	hardware := models.ProductCategory{
		Title:   "Hardware",
		Slug:    "hardware",
		Version: uuid.NewString(),
	}
	if categoryCount == 0 {
		if err := db.Create(&hardware).Error; err != nil {
			return err
		}
	} else {
		if err := db.Order("id asc").First(&hardware).Error; err != nil {
			return err
		}
	}

	var productCount int64
	if err := db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return nil
	}

	products := []models.Product{
		{
			Code:        "MD-55501",
			Title:       "WD-40 200ml",
			Description: "Etkili pas sökücü",
			Stock:       50,
			Price:       44.10,
		},
		{
			Code:        "MD-55502",
			Title:       "Einhell Tc-Gg 30",
			Description: "Silikon Mum Tabancası 30 Watt",
			Stock:       10,
			Price:       149.00,
		},
		{
			Code:        "MD-55503",
			Title:       "Ersa Proalet",
			Description: "Silikon Tabancası Plastik",
			Stock:       30,
			Price:       15.98,
		},
	}
	for i := range products {
		products[i].ProductCategoryID = &hardware.ID
		products[i].Version = uuid.NewString()
	}
	return db.Create(&products).Error
}
