// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenbourne277/zbwcloud/internal/config"
	"github.com/greenbourne277/zbwcloud/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	switch cfg.LogLevel {
	case "silent":
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	case "info":
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Info)}
	default:
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.ItemMetadata{},
		&models.ItemRight{},
		&models.RightGroup{},
		&models.GroupRightPair{},
		&models.ItemEntry{},
		&models.Bookmark{},
		&models.BookmarkTemplatePair{},
		&models.User{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Item association lookups run in both directions.
		"CREATE INDEX IF NOT EXISTS idx_item_entries_right ON item_entries(right_id)",
		"CREATE INDEX IF NOT EXISTS idx_item_entries_metadata ON item_entries(metadata_id)",

		// Filter columns.
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_publication_date ON item_metadata(publication_date)",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_publication_type ON item_metadata(publication_type)",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_paket_sigel ON item_metadata(paket_sigel)",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_zdb_id ON item_metadata(zdb_id)",

		// Full-text search indexes, one per addressable search key column.
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_fts_title ON item_metadata USING GIN(to_tsvector('english', coalesce(title,'')))",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_fts_collection ON item_metadata USING GIN(to_tsvector('english', coalesce(collection_name,'')))",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_fts_community ON item_metadata USING GIN(to_tsvector('english', coalesce(community_name,'')))",
		"CREATE INDEX IF NOT EXISTS idx_item_metadata_fts_handle ON item_metadata USING GIN(to_tsvector('english', coalesce(handle,'')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default admin account on an empty database.
func SeedInitialData(db *gorm.DB) error {
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)
	if adminCount > 0 {
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Role:     models.UserRoleAdmin,
	}
	if err := admin.SetPassword("admin123!@#"); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("Default admin user created successfully")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
