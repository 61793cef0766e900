// Package db opens the relational store: PostgreSQL in production, SQLite for
// local runs and tests
package db

import (
	"fmt"
	"os"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/pkg/util"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New() (*gorm.DB, error) {
	dsn := viper.GetString("database.dsn")

	var dialector gorm.Dialector
	switch viper.GetString("database.driver") {
	case "postgres":
		// Prepared statements break behind transaction poolers like pgbouncer
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		// Inside a container the file has to be mounted, not created on the fly
		if util.IsRunningInDocker() {
			if _, err := os.Stat(dsn); err != nil {
				return nil, fmt.Errorf("SQLite database file %s not mounted, please use docker volumes to mount it", dsn)
			}
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", viper.GetString("database.driver"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB, %w", err)
	}

	sqlDB.SetMaxOpenConns(viper.GetInt("database.max_open_conns"))
	sqlDB.SetMaxIdleConns(viper.GetInt("database.max_open_conns"))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if viper.GetBool("migrate") {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates every table the service touches
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

// Close releases the connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func newLogger() logger.Interface {
	return logger.New(
		zap.NewStdLog(zap.L().Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
