package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/config"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

// GetPostgres opens the shared connection pool on first use. The pool is
// sized for the responder plus concurrent report fan-out.
func GetPostgres(cfg *config.Config) (*gorm.DB, error) {
	var err error
	dbOnce.Do(func() {
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.PostgresHost,
			cfg.PostgresUser,
			cfg.PostgresPassword,
			cfg.PostgresDB,
			cfg.PostgresPort,
			cfg.PostgresSSLMode,
		)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			logger.Log.WithError(err).Error("Failed to connect to PostgreSQL")
			return
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = dbErr
			return
		}
		sqlDB.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.PostgresMaxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)

		logger.Log.WithField("max_open_conns", cfg.PostgresMaxOpenConns).Info("Connected to PostgreSQL")
	})
	if err == nil && db == nil {
		err = fmt.Errorf("postgres connection previously failed")
	}

	return db, err
}

func ClosePostgres() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
