package postgres

import (
	"database/sql"
	"dtrivia/config"
	"dtrivia/models/postgres"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver for sql.Open
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg config.PostgresConfig, zl *zap.Logger) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB1, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		zl.Error("[POSTGRES] Error opening PostgreSQL connection", zap.Error(err))
		return nil, err
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB1,
		PreferSimpleProtocol: true,
	}), gormConfig(cfg.Verbose))
	if err != nil {
		zl.Error("[POSTGRES] Error connecting to PostgreSQL with GORM", zap.Error(err))
		return nil, err
	}

	// Get the underlying SQL DB object
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting underlying SQL DB: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		zl.Error("[POSTGRES] Error pinging PostgreSQL", zap.String("host", cfg.Host), zap.Error(err))
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	zl.Info("[POSTGRES] Connected to PostgreSQL with GORM", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return db, nil
}

func gormConfig(verbose bool) *gorm.Config {
	if !verbose {
		return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	}
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		),
	}
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB, zl *zap.Logger) error {
	// NOTE: needs postgres driver >= v1.4.0, see https://github.com/pilinux/gorest/issues/167
	// NOTE: for more info, execute db.Debug().AutoMigrate(...)
	err := db.AutoMigrate(
		postgres.User{},
		postgres.Category{},
		postgres.Question{},
		postgres.Game{})

	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	zl.Info("[POSTGRES] Database migrated successfully")

	return nil
}
