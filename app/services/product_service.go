// Package services implements the query/command layer of the catalogue:
// listing with sort and search, SKU-uniqueness validation, create, update
// with optimistic concurrency, delete, and image handling.
package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/app/repositories"
	"github.com/shashiranjanraj/webshop-inventory/pkg/cache"
	"github.com/shashiranjanraj/webshop-inventory/pkg/metrics"
	"github.com/shashiranjanraj/webshop-inventory/pkg/storage"
	"github.com/shashiranjanraj/webshop-inventory/pkg/validate"
)

const detailsCacheTTL = 5 * time.Minute

// ProductDraft is the caller-supplied, not-yet-validated input to Create and
// Update. The image file travels separately as an Upload.
type ProductDraft struct {
	ID                uint    `json:"id"`
	Code              string  `json:"code"        validate:"required,min=5,max=10"`
	Title             string  `json:"title"       validate:"required"`
	Description       string  `json:"description" validate:"required"`
	Stock             int64   `json:"stock"       validate:"gte=0"`
	Price             float64 `json:"price"       validate:"gte=0"`
	ProductCategoryID *uint   `json:"product_category_id"`
}

// Upload is an image file received with a create or update request.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// ProductDetails is a product together with its category, when it has one.
type ProductDetails struct {
	Product  models.Product          `json:"product"`
	Category *models.ProductCategory `json:"category,omitempty"`
}

// ProductService is the command/query layer over the product repositories.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	disk       storage.Disk
	uploadsDir string

	// Clock supplies wall-clock time for image filenames; tests pin it.
	Clock func() time.Time
}

func NewProductService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	disk storage.Disk,
	uploadsDir string,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		disk:       disk,
		uploadsDir: uploadsDir,
		Clock:      time.Now,
	}
}

// List returns the catalogue rows for the given sort key and search text.
// Unrecognised sort keys fall back to title ascending; a non-empty search
// keeps only rows whose title, description, or category title contains it.
func (s *ProductService) List(sortKey, search string) ([]repositories.ProductListItem, error) {
	items, err := s.products.List(sortKey, search)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// Details returns one product with its category, through the cache.
func (s *ProductService) Details(id uint) (ProductDetails, error) {
	key := detailsCacheKey(id)

	var details ProductDetails
	if cache.Get(key, &details) {
		metrics.CacheHits.Inc()
		return details, nil
	}
	metrics.CacheMisses.Inc()

	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductDetails{}, ErrNotFound
	}
	if err != nil {
		return ProductDetails{}, fmt.Errorf("find product %d: %w", id, err)
	}

	details = ProductDetails{Product: product}
	if product.ProductCategoryID != nil {
		category, err := s.categories.FindByID(*product.ProductCategoryID)
		if err == nil {
			details.Category = &category
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDetails{}, fmt.Errorf("find category %d: %w", *product.ProductCategoryID, err)
		}
	}

	_ = cache.Set(key, details, detailsCacheTTL)
	return details, nil
}

// Create validates the draft, stores the image if one was uploaded, and
// persists a new product with a fresh version token. Validation failures
// (including a duplicate SKU) come back as *ValidationError and leave the
// store untouched. A duplicate that slips past the pre-check loses at the
// unique index and surfaces as a fatal write error.
func (s *ProductService) Create(draft ProductDraft, upload *Upload) (models.Product, error) {
	errs := validate.Struct(draft)

	if _, hasCodeError := errs["code"]; !hasCodeError {
		taken, err := s.products.CodeExists(draft.Code)
		if err != nil {
			return models.Product{}, fmt.Errorf("check sku %q: %w", draft.Code, err)
		}
		if taken {
			errs["code"] = duplicateSKUMessage(draft.Code)
		}
	}

	if validate.HasErrors(errs) {
		return models.Product{}, &ValidationError{Fields: errs}
	}

	imagePath, err := s.ResolveImagePath("", upload, draft.Code)
	if err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Code:              draft.Code,
		Title:             draft.Title,
		Description:       draft.Description,
		Stock:             draft.Stock,
		Price:             draft.Price,
		ImagePath:         imagePath,
		ProductCategoryID: draft.ProductCategoryID,
		Version:           uuid.NewString(),
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, fmt.Errorf("create product %q: %w", draft.Code, err)
	}
	return product, nil
}

// Update applies a validated draft to the product identified by id, guarded
// by the optimistic version token the draft was loaded with.
//
// Outcomes: *ValidationError (field failures, duplicate SKU owned by another
// record), ErrNotFound (missing id, or path/payload id disagreement),
// ErrConflict (stale token while the row still exists), or nil with the
// updated product.
func (s *ProductService) Update(id uint, draft ProductDraft, expectedVersion string, upload *Upload) (models.Product, error) {
	if draft.ID != 0 && draft.ID != id {
		return models.Product{}, ErrNotFound
	}

	existing, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}

	errs := validate.Struct(draft)

	if _, hasCodeError := errs["code"]; !hasCodeError {
		// Self-exclusion: a record keeping its own code must not reject
		// itself just because the code "exists".
		ownerID, err := s.products.FindIDByCode(draft.Code)
		if err != nil {
			return models.Product{}, fmt.Errorf("find sku owner %q: %w", draft.Code, err)
		}
		if ownerID != 0 && ownerID != id {
			errs["code"] = duplicateSKUMessage(draft.Code)
		}
	}

	if validate.HasErrors(errs) {
		return models.Product{}, &ValidationError{Fields: errs}
	}

	// A new upload replaces the stored image; otherwise the existing path is
	// preserved even when the draft carries none.
	imagePath, err := s.ResolveImagePath(existing.ImagePath, upload, draft.Code)
	if err != nil {
		return models.Product{}, err
	}

	updated := models.Product{
		Code:              draft.Code,
		Title:             draft.Title,
		Description:       draft.Description,
		Stock:             draft.Stock,
		Price:             draft.Price,
		ImagePath:         imagePath,
		ProductCategoryID: draft.ProductCategoryID,
		Version:           uuid.NewString(),
	}

	hit, err := s.products.UpdateVersioned(id, expectedVersion, &updated)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	if !hit {
		// Distinguish a lost race from a vanished row before surfacing.
		stillThere, err := s.products.Exists(id)
		if err != nil {
			return models.Product{}, fmt.Errorf("recheck product %d: %w", id, err)
		}
		if !stillThere {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, ErrConflict
	}

	_ = cache.Del(detailsCacheKey(id))

	updated.ID = id
	return updated, nil
}

// Delete removes the product permanently. Missing ids are reported as
// ErrNotFound rather than deleted blindly.
func (s *ProductService) Delete(id uint) error {
	exists, err := s.products.Exists(id)
	if err != nil {
		return fmt.Errorf("check product %d: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	if err := s.products.Delete(id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	_ = cache.Del(detailsCacheKey(id))
	return nil
}

// ResolveImagePath stores an uploaded image and returns its filename. With no
// upload it returns existing unchanged. The filename is
// {code}-{unix-millis}{ext}: a fixed-width sub-second wall-clock stamp that
// never repeats across the process lifetime for distinct instants.
func (s *ProductService) ResolveImagePath(existing string, upload *Upload, code string) (string, error) {
	if upload == nil {
		return existing, nil
	}

	ext := filepath.Ext(upload.Filename)
	name := fmt.Sprintf("%s-%d%s", code, s.Clock().UnixMilli(), ext)

	if err := s.disk.PutStream(path.Join(s.uploadsDir, name), upload.Reader); err != nil {
		return "", fmt.Errorf("store image %s: %w", name, err)
	}
	return name, nil
}

func duplicateSKUMessage(code string) string {
	return fmt.Sprintf("A product with the SKU code %s already exists.", code)
}

func detailsCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}
