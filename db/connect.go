package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect - connection to a db, the entry log table is migrated on connect
func Connect(dbHost, dbUser, dbPassword, dbName string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s", dbHost, dbUser, dbPassword, dbName),
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database, %w", err)
	}
	if err := db.AutoMigrate(&EntryLog{}); err != nil {
		return nil, fmt.Errorf("db migration, %w", err)
	}
	return db, nil
}
