// Package migration is a versioned database migration runner.
//
// Migrations register themselves from init() in database/migrations:
//
//	migration.Register("20220207085805_create_products_table", &CreateProductsTable{})
//
// and are executed in name order (timestamp prefixes sort lexicographically).
// Applied migrations are tracked in a schema_migrations table with a batch
// number so the last batch can be rolled back as a unit.
package migration

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/webshop-inventory/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the GORM model stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. Call from init() with a
// timestamp-prefixed name.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) applied() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	set := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		set[rec.Name] = rec
	}
	return set, nil
}

// Pending returns the registered migrations that have not yet been run,
// sorted by name.
func (r *Runner) Pending() ([]registeredMigration, error) {
	ranSet, err := r.applied()
	if err != nil {
		return nil, err
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if _, ok := ranSet[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})
	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		return nil
	}

	batch, err := r.nextBatch()
	if err != nil {
		return fmt.Errorf("migration: next batch: %w", err)
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses the most recent batch in reverse name order.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	var last migrationRecord
	err := r.db.Order("batch desc").First(&last).Error
	if err == gorm.ErrRecordNotFound {
		logger.Info("migration: nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration: find last batch: %w", err)
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last.Batch).Order("name desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", last.Batch, err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: %s is recorded but not registered", rec.Name)
		}
		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return fmt.Errorf("migration: unrecord %s: %w", rec.Name, err)
		}
	}
	return nil
}

// Status prints a table of every registered migration and whether it has run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	ranSet, err := r.applied()
	if err != nil {
		return fmt.Errorf("migration: fetch applied: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
	for _, reg := range registry {
		if rec, ok := ranSet[reg.name]; ok {
			fmt.Fprintf(w, "%s\tran\t%d\n", reg.name, rec.Batch)
		} else {
			fmt.Fprintf(w, "%s\tpending\t-\n", reg.name)
		}
	}
	return w.Flush()
}

func (r *Runner) nextBatch() (int, error) {
	var max int
	row := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}
