// Package proc keeps entry logs in a bolt database, one key per feed
package proc

import (
	"os"
	"path"
	"time"

	log "github.com/go-pkgz/lgr"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "log"

// Processor is a bolt backed entrylog.Store
type Processor struct {
	Store *bolt.DB
}

// NewBoltDB makes persistent boltdb based store
func NewBoltDB(dbFile string) (*Processor, error) {
	log.Printf("[INFO] bolt (persistent) store, %s", dbFile)
	if err := os.MkdirAll(path.Dir(dbFile), 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(dbFile, 0600, &bolt.Options{Timeout: 1 * time.Second}) //nolint
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return &Processor{Store: db}, nil
}

// Close releases the database file
func (b *Processor) Close() error {
	return b.Store.Close()
}
