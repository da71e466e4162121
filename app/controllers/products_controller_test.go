package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/webshop-inventory/app/models"
	"github.com/shashiranjanraj/webshop-inventory/app/repositories"
	"github.com/shashiranjanraj/webshop-inventory/app/controllers"
	"github.com/shashiranjanraj/webshop-inventory/app/routes"
	"github.com/shashiranjanraj/webshop-inventory/app/services"
	"github.com/shashiranjanraj/webshop-inventory/pkg/router"
	"github.com/shashiranjanraj/webshop-inventory/pkg/storage"
)

type apiEnvelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProductCategory{}, &models.Product{}))

	disk := storage.NewLocalDisk(t.TempDir(), "/storage")

	productService := services.NewProductService(
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		disk,
		"uploads",
	)
	categoryService := services.NewCategoryService(repositories.NewCategoryRepository(db))

	r := router.New()
	routes.RegisterAPI(r, controllers.NewProductsController(productService), controllers.NewCategoriesController(categoryService))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, db
}

func seedRow(t *testing.T, db *gorm.DB, code, title string) models.Product {
	t.Helper()
	product := models.Product{
		Code:        code,
		Title:       title,
		Description: title + " description",
		Stock:       5,
		Price:       9.99,
		Version:     uuid.NewString(),
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func postForm(t *testing.T, url string, form url.Values) (*http.Response, apiEnvelope) {
	t.Helper()
	resp, err := http.PostForm(url, form)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()
	defer resp.Body.Close()
	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func productForm(code, title string) url.Values {
	return url.Values{
		"code":        {code},
		"title":       {title},
		"description": {title + " description"},
		"stock":       {"5"},
		"price":       {"9.99"},
	}
}

func TestProductsIndex(t *testing.T) {
	srv, db := newTestServer(t)
	seedRow(t, db, "MD-55501", "Wrench")
	seedRow(t, db, "MD-55502", "Adhesive")

	resp, err := http.Get(srv.URL + "/api/products?sort=title")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []repositories.ProductListItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Adhesive", items[0].Title)
	assert.Equal(t, "Wrench", items[1].Title)
}

func TestProductsShow(t *testing.T) {
	srv, db := newTestServer(t)
	product := seedRow(t, db, "MD-55501", "Wrench")

	resp, err := http.Get(fmt.Sprintf("%s/api/products/%d", srv.URL, product.ID))
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details services.ProductDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Equal(t, "Wrench", details.Product.Title)

	resp, err = http.Get(srv.URL + "/api/products/9999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductsStore(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := postForm(t, srv.URL+"/api/products", productForm("MD-55501", "Wrench"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "MD-55501", product.Code)
	assert.NotEmpty(t, product.Version)
}

func TestProductsStoreValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	form := productForm("AB", "") // code too short, title missing
	resp, env := postForm(t, srv.URL+"/api/products", form)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors, "code")
}

func TestProductsStoreDuplicateCode(t *testing.T) {
	srv, db := newTestServer(t)
	seedRow(t, db, "MD-55501", "Existing")

	resp, env := postForm(t, srv.URL+"/api/products", productForm("MD-55501", "Wrench"))

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors["code"], "MD-55501")
}

func TestProductsStoreWithImage(t *testing.T) {
	srv, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range productForm("MD-55501", "Wrench") {
		require.NoError(t, mw.WriteField(key, value[0]))
	}
	part, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "fake image bytes")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/products", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.True(t, strings.HasPrefix(product.ImagePath, "MD-55501-"))
	assert.True(t, strings.HasSuffix(product.ImagePath, ".jpg"))
}

func TestProductsUpdate(t *testing.T) {
	srv, db := newTestServer(t)
	product := seedRow(t, db, "MD-55501", "Wrench")

	form := productForm("MD-55501", "Wrench XL")
	form.Set("version", product.Version)

	resp, env := postForm(t, fmt.Sprintf("%s/api/products/%d", srv.URL, product.ID), form)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Wrench XL", updated.Title)
	assert.NotEqual(t, product.Version, updated.Version)
}

func TestProductsUpdateStaleVersion(t *testing.T) {
	srv, db := newTestServer(t)
	product := seedRow(t, db, "MD-55501", "Wrench")

	form := productForm("MD-55501", "Wrench XL")
	form.Set("version", "stale-token")

	resp, _ := postForm(t, fmt.Sprintf("%s/api/products/%d", srv.URL, product.ID), form)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProductsUpdateMissing(t *testing.T) {
	srv, _ := newTestServer(t)

	form := productForm("MD-55501", "Wrench")
	form.Set("version", "whatever")

	resp, _ := postForm(t, srv.URL+"/api/products/9999", form)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductsDestroy(t *testing.T) {
	srv, db := newTestServer(t)
	product := seedRow(t, db, "MD-55501", "Wrench")

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/products/%d", srv.URL, product.ID), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductsBadID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/products/abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoriesIndex(t *testing.T) {
	srv, db := newTestServer(t)
	require.NoError(t, db.Create(&models.ProductCategory{
		Title:   "Tools",
		Slug:    "tools",
		Version: uuid.NewString(),
	}).Error)

	resp, err := http.Get(srv.URL + "/api/categories")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.ProductCategory
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Tools", categories[0].Title)
}
