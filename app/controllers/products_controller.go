// Package controllers maps HTTP requests onto the service layer and service
// errors onto response envelopes.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/webshop-inventory/app/services"
	"github.com/shashiranjanraj/webshop-inventory/pkg/logger"
	"github.com/shashiranjanraj/webshop-inventory/pkg/response"
)

// maxUploadBytes caps the in-memory portion of a multipart parse; larger
// image bodies spill to temp files.
const maxUploadBytes = 10 << 20

type ProductsController struct {
	products *services.ProductService
}

func NewProductsController(products *services.ProductService) *ProductsController {
	return &ProductsController{products: products}
}

// Index lists the catalogue. Query parameters: sort (title, title_desc, sku,
// sku_desc, price, price_desc, category, category_desc) and search.
func (c *ProductsController) Index(w http.ResponseWriter, r *http.Request) {
	items, err := c.products.List(r.URL.Query().Get("sort"), r.URL.Query().Get("search"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	response.Success(w, items)
}

// Show returns one product with its category.
func (c *ProductsController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	details, err := c.products.Details(id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	response.Success(w, details)
}

// Store creates a product from a multipart or urlencoded form. The optional
// image travels in the "image" file field.
func (c *ProductsController) Store(w http.ResponseWriter, r *http.Request) {
	draft, upload, err := parseProductForm(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	product, err := c.products.Create(draft, upload)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update edits a product. The form must carry the version token the record
// was loaded with; a stale token comes back as 409.
func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	draft, upload, err := parseProductForm(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	product, err := c.products.Update(id, draft, r.PostFormValue("version"), upload)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Destroy deletes a product permanently.
func (c *ProductsController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.products.Delete(id); err != nil {
		c.fail(w, r, err)
		return
	}
	response.Success(w, map[string]uint{"id": id})
}

// fail translates the service error taxonomy into HTTP statuses. Anything
// outside the taxonomy is a fatal store or I/O failure: logged, 500.
func (c *ProductsController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if verr := services.AsValidationError(err); verr != nil {
		response.ValidationError(w, verr.Fields)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if errors.Is(err, services.ErrConflict) {
		response.Conflict(w, "The record was modified by someone else. Reload and try again.")
		return
	}
	logger.WithCtx(r.Context()).Error("product request failed", "error", err)
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(w, "invalid product id")
		return 0, false
	}
	return uint(id), true
}

// parseProductForm reads the draft fields and the optional image file from a
// multipart or urlencoded body. Number fields default to zero when absent so
// validation, not parsing, decides what a missing value means.
func parseProductForm(r *http.Request) (services.ProductDraft, *services.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return services.ProductDraft{}, nil, errors.New("malformed form body")
	}

	draft := services.ProductDraft{
		Code:        r.PostFormValue("code"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}

	if raw := r.PostFormValue("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return services.ProductDraft{}, nil, errors.New("invalid id field")
		}
		draft.ID = uint(id)
	}
	if raw := r.PostFormValue("stock"); raw != "" {
		stock, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return services.ProductDraft{}, nil, errors.New("invalid stock field")
		}
		draft.Stock = stock
	}
	if raw := r.PostFormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return services.ProductDraft{}, nil, errors.New("invalid price field")
		}
		draft.Price = price
	}
	if raw := r.PostFormValue("product_category_id"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return services.ProductDraft{}, nil, errors.New("invalid product_category_id field")
		}
		id := uint(categoryID)
		draft.ProductCategoryID = &id
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return draft, nil, nil
	}
	if err != nil {
		return services.ProductDraft{}, nil, errors.New("invalid image upload")
	}
	return draft, &services.Upload{Filename: header.Filename, Reader: file}, nil
}
