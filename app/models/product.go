// Package models holds the GORM entities of the inventory catalogue.
package models

import "time"

// Product is a catalogue entry. Code is the SKU: 5–10 characters, unique
// across the table (the unique index is the last line of defense when two
// concurrent creates race past the service-level check). Version is an opaque
// token regenerated on every successful write; updates presenting a stale
// token are rejected.
type Product struct {
	ID                uint       `gorm:"primaryKey"                      json:"id"`
	Code              string     `gorm:"size:10;not null;uniqueIndex"    json:"code"`
	Title             string     `gorm:"size:255;not null"               json:"title"`
	Description       string     `gorm:"type:text;not null"              json:"description"`
	Stock             int64      `gorm:"not null;default:0"              json:"stock"`
	Price             float64    `gorm:"not null;default:0"              json:"price"`
	ImagePath         string     `gorm:"size:255"                        json:"image_path,omitempty"`
	ProductCategoryID *uint      `gorm:"index"                           json:"product_category_id,omitempty"`
	Version           string     `gorm:"size:36;not null"                json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ProductCategory groups products. ParentCategoryID is a loose self-reference
// (0 for roots) and deliberately not a store-enforced foreign key.
type ProductCategory struct {
	ID               uint      `gorm:"primaryKey"                   json:"id"`
	ParentCategoryID uint      `gorm:"not null;default:0"           json:"parent_category_id"`
	Title            string    `gorm:"size:255;not null"            json:"title"`
	Slug             string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Version          string    `gorm:"size:36;not null"             json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
