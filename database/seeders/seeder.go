// Package seeders populates an empty database with a starter catalogue.
// Seeders register themselves in init() and run in registration order; each
// is idempotent and skips when its table already has rows.
package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/pkg/logger"
)

type Seeder interface {
	Run(db *gorm.DB) error
}

type registeredSeeder struct {
	name string
	s    Seeder
}

var registry []registeredSeeder

func Register(name string, s Seeder) {
	registry = append(registry, registeredSeeder{name: name, s: s})
}

// RunAll executes every registered seeder in order.
func RunAll(db *gorm.DB) error {
	for _, reg := range registry {
		logger.Info("seeder: running", "name", reg.name)
		if err := reg.s.Run(db); err != nil {
			return fmt.Errorf("seeder: %s: %w", reg.name, err)
		}
	}
	return nil
}
