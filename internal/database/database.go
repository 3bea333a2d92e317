package database

import (
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Pure-Go sqlite driver, registered under the name "sqlite".
	_ "modernc.org/sqlite"
)

// Connect opens the local session database. The DSN is a file path, or
// ":memory:" in tests.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
}
