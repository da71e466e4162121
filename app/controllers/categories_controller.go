package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/webshop-inventory/app/services"
	"github.com/shashiranjanraj/webshop-inventory/pkg/logger"
	"github.com/shashiranjanraj/webshop-inventory/pkg/response"
)

type CategoriesController struct {
	categories *services.CategoryService
}

func NewCategoriesController(categories *services.CategoryService) *CategoriesController {
	return &CategoriesController{categories: categories}
}

// Index lists every category, ordered by title. Feeds the category selector
// on the product form.
func (c *CategoriesController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All()
	if err != nil {
		logger.WithCtx(r.Context()).Error("category list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(w, categories)
}
