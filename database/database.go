package database

import (
	"fmt"
	"log"
	"os"

	"examprep/config"
	"examprep/models"
	courseModels "examprep/models/course"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the handle globally
func ConnectDb() {
	cfg := config.AppConfig

	db, err := Open(cfg.DBDriver, dsnFor(cfg), cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.Println("Running Migrations...")
	if err := Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully.")

	Database = DbInstance{Db: db}
}

// Open connects with the given driver ("postgres" or "sqlite").
func Open(driver, dsn, logMode string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch logMode {
	case "debug":
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	case "test", "nop":
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.Permission{},
		&models.CoursePayment{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Article{},
		&courseModels.Question{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.PastPaper{},
		&courseModels.Enrollment{},
	)
}

func dsnFor(cfg *config.Config) string {
	if cfg.DBDriver == "sqlite" {
		return cfg.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)
}
