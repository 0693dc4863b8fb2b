package infra

import (
	"fmt"
	"strings"

	"github.com/st9-8/mouegne/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// IsSQLite reports whether a DATABASE_URL points at a SQLite file.
func IsSQLite(url string) bool { return strings.HasPrefix(url, sqlitePrefix) }

// NewDatabase opens a GORM connection. postgres:// URLs go through pgx;
// sqlite://path opens a local file (":memory:" works too) for development.
func NewDatabase(url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if IsSQLite(url) {
		dialector = sqlite.Open(sqliteDSN(url))
	} else {
		dialector = postgres.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if IsSQLite(url) {
		// SQLite serializes writers; one connection keeps transactions honest.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return db, nil
}

// sqliteDSN turns sqlite://path into a go-sqlite3 DSN with foreign key
// enforcement, which SQLite leaves off per connection by default.
func sqliteDSN(url string) string {
	dsn := strings.TrimPrefix(url, sqlitePrefix)
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// AutoMigrate creates or updates every table from the models. Postgres
// deployments use the goose migrations instead (see Migrate); this path
// serves SQLite development databases and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Vendor{},
		&model.Customer{},
		&model.Item{},
		&model.Purchase{},
		&model.Sale{},
		&model.SaleDetail{},
		&model.Delivery{},
		&model.DeliveryDetail{},
		&model.StockMovement{},
		&model.Receipt{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}
