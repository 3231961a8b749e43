// Package db handle work with db
package db

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feed-notifier/entrylog"
)

// EntryLog is the delivered messages of a feed, newest first
type EntryLog struct {
	Feed      string         `gorm:"primaryKey"`
	Messages  pq.StringArray `gorm:"type:text[]"`
	UpdatedAt time.Time
}

// Store is a postgres backed entrylog.Store
type Store struct {
	DB *gorm.DB
}

// Load implements entrylog.Store
func (s *Store) Load(feed string) ([]string, error) {
	var record EntryLog
	err := s.DB.Where("feed = ?", feed).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entrylog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Messages, nil
}

// Save implements entrylog.Store, the row is replaced in one statement
func (s *Store) Save(feed string, messages []string) error {
	kept := pq.StringArray{}
	for _, msg := range messages {
		if msg != "" {
			kept = append(kept, msg)
		}
	}
	return UpsertEntryLog(s.DB, &EntryLog{Feed: feed, Messages: kept}).Error
}

// UpsertEntryLog is function for upsert entry log
func UpsertEntryLog(db *gorm.DB, item *EntryLog) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feed"}},
		UpdateAll: true,
	}).Create(item)
}
