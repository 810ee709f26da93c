package database

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Connect opens a postgres connection for postgres:// DSNs and a pure-Go
// sqlite database for anything else.
func Connect(dsn string, log *zap.Logger, quiet bool) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if quiet {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	} else {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite", zap.String("dsn", dsn))
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Migrate creates or updates the tables for models.
func Migrate(db *gorm.DB, models ...any) error {
	return db.AutoMigrate(models...)
}
