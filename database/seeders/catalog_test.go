package seeders

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProductCategory{}, &models.Product{}))
	return db
}

func TestCatalogSeederPlantsStarterData(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, (CatalogSeeder{}).Run(db))

	var categories []models.ProductCategory
	require.NoError(t, db.Find(&categories).Error)
	require.Len(t, categories, 1)
	assert.Equal(t, "hardware", categories[0].Slug)

	var products []models.Product
	require.NoError(t, db.Order("code asc").Find(&products).Error)
	require.Len(t, products, 3)
	assert.Equal(t, "MD-55501", products[0].Code)
	for _, p := range products {
		require.NotNil(t, p.ProductCategoryID)
		assert.Equal(t, categories[0].ID, *p.ProductCategoryID)
		assert.NotEmpty(t, p.Version)
	}
}

func TestCatalogSeederIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, (CatalogSeeder{}).Run(db))
	require.NoError(t, (CatalogSeeder{}).Run(db))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
