package proc

import (
	"encoding/json"
	"fmt"

	log "github.com/go-pkgz/lgr"
	bolt "go.etcd.io/bbolt"

	"feed-notifier/entrylog"
)

// Load implements entrylog.Store
func (b *Processor) Load(feed string) ([]string, error) {
	var messages []string
	err := b.Store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("no bucket for %s", bucketName)
		}
		data := bucket.Get([]byte(feed))
		if data == nil {
			return entrylog.ErrNotFound
		}
		if err := json.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("%w: %v", entrylog.ErrCorrupt, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Save implements entrylog.Store, the write is one bolt transaction
func (b *Processor) Save(feed string, messages []string) error {
	kept := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg != "" {
			kept = append(kept, msg)
		}
	}
	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return b.Store.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		log.Printf("[DEBUG] save %d messages of %s", len(kept), feed)
		return bucket.Put([]byte(feed), data)
	})
}

// Delete drops the log of a feed
func (b *Processor) Delete(feed string) error {
	return b.Store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("no bucket for %s", bucketName)
		}
		return bucket.Delete([]byte(feed))
	})
}
