// Package routes declares the HTTP surface of the application.
package routes

import (
	"github.com/shashiranjanraj/webshop-inventory/app/controllers"
	"github.com/shashiranjanraj/webshop-inventory/pkg/router"
)

// RegisterAPI mounts the catalogue endpoints under /api.
//
// Updates go through POST (not PUT) so browser forms can submit multipart
// bodies directly, matching how the create endpoint receives them.
func RegisterAPI(r *router.Router, products *controllers.ProductsController, categories *controllers.CategoriesController) {
	api := r.Group("/api")

	api.Get("/products", "products.index", products.Index)
	api.Post("/products", "products.store", products.Store)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Post("/products/{id}", "products.update", products.Update)
	api.Delete("/products/{id}", "products.destroy", products.Destroy)

	api.Get("/categories", "categories.index", categories.Index)
}
