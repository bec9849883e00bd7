package db

import (
	"fmt"
	"strings"

	"warbler/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database named by databaseURL and migrates the
// schema. A postgres:// URL uses the Postgres driver; anything else is
// treated as an SQLite path (tests use "file::memory:?cache=shared").
//
// TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func Connect(databaseURL string) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)

	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "host=") {
		conn, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		conn, err = gorm.Open(sqlite.Open(sqliteDSN(databaseURL)), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// sqliteDSN adds foreign-key enforcement to the DSN. SQLite enforces
// foreign keys per connection, so the pragma must ride on the DSN where
// every pooled connection picks it up; a one-shot Exec after opening
// would cover only the single connection it happened to run on, and
// cascades would silently not fire on the rest of the pool.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate creates or updates the four Warbler tables.
func Migrate(conn *gorm.DB) error {
	for _, model := range []interface{}{
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	} {
		if err := conn.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}
	return nil
}
