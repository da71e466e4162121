package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutes(t *testing.T) {
	r := New()
	r.Get("/products", "products.index", noop)
	r.Get("/products/{id}", "products.show", noop)

	path, ok := r.Path("products.show")
	require.True(t, ok)
	assert.Equal(t, "/products/{id}", path)

	_, ok = r.Path("nope")
	assert.False(t, ok)
}

func TestURLSubstitution(t *testing.T) {
	r := New()
	r.Get("/products/{id}", "products.show", noop)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "unfilled params must not produce a URL")

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestGroupPrefix(t *testing.T) {
	r := New()
	api := r.Group("/api")
	api.Get("/products", "products.index", noop)

	path, ok := r.Path("products.index")
	require.True(t, ok)
	assert.Equal(t, "/api/products", path)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var touched bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			touched = true
			next.ServeHTTP(w, r)
		})
	}

	r := New()
	api := r.Group("/api", mw)
	api.Get("/products", "products.index", noop)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, touched)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	r.Post("/b", "b.store", noop)
	r.Get("/a", "a.index", noop)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "/a", infos[0].Path)
	assert.Equal(t, "/b", infos[1].Path)
}
