package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/webshop-inventory/pkg/validate"
)

type draftInput struct {
	Code        string  `json:"code"        validate:"required,min=5,max=10"`
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Stock       int64   `json:"stock"       validate:"gte=0"`
	Price       float64 `json:"price"       validate:"gte=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(draftInput{
		Code:        "MD-9001",
		Title:       "Lubricant",
		Description: "Multi-purpose spray",
		Stock:       5,
		Price:       9.99,
	})
	assert.False(t, validate.HasErrors(errs), "expected no errors, got: %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(draftInput{})
	assert.Contains(t, errs, "code")
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "description")
}

func TestCodeLengthBounds(t *testing.T) {
	errs := validate.Struct(draftInput{Code: "AB-1", Title: "x", Description: "y"})
	assert.Contains(t, errs, "code")
	assert.Contains(t, errs["code"], "at least 5 characters")

	errs = validate.Struct(draftInput{Code: "MD-12345678901", Title: "x", Description: "y"})
	assert.Contains(t, errs, "code")
	assert.Contains(t, errs["code"], "not exceed 10 characters")

	errs = validate.Struct(draftInput{Code: "MD-90", Title: "x", Description: "y"})
	assert.NotContains(t, errs, "code")
}

func TestNegativeNumbersRejected(t *testing.T) {
	errs := validate.Struct(draftInput{Code: "MD-9001", Title: "x", Description: "y", Stock: -1})
	assert.Contains(t, errs, "stock")

	errs = validate.Struct(draftInput{Code: "MD-9001", Title: "x", Description: "y", Price: -0.01})
	assert.Contains(t, errs, "price")
}

func TestZeroIsValidForStockAndPrice(t *testing.T) {
	errs := validate.Struct(draftInput{Code: "MD-9001", Title: "x", Description: "y", Stock: 0, Price: 0})
	assert.False(t, validate.HasErrors(errs), "zero stock and price must pass: %v", errs)
}

func TestFieldNamesComeFromJSONTags(t *testing.T) {
	type in struct {
		ProductCode string `json:"product_code" validate:"required"`
	}
	errs := validate.Struct(in{})
	assert.Contains(t, errs, "product_code")
}
