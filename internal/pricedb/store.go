// Package pricedb persists the operator's price dictionaries between runs so
// rates survive restarts. Two buckets, {groupName: price} and
// {materialName: price}; only strictly-positive prices are written.
package pricedb

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"estimate-service/internal/estimate/pricing"
)

var (
	bucketGroups    = []byte("group_prices")
	bucketMaterials = []byte("material_prices")
)

type Store struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open never fails hard: an unopenable or corrupt file degrades to an
// in-memory no-op store with empty tables, and a warning.
func Open(path string, log zerolog.Logger) *Store {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("price db unavailable, starting with empty tables")
		return &Store{log: log}
	}
	return &Store{db: db, log: log}
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Load reads both price tables. Any read problem yields empty tables.
func (s *Store) Load() pricing.Tables {
	t := pricing.NewTables()
	if s.db == nil {
		return t
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		readBucket(tx, bucketGroups, t.Group)
		readBucket(tx, bucketMaterials, t.Material)
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("price db read failed, using empty tables")
		return pricing.NewTables()
	}
	return t
}

// Save writes every strictly-positive entry, replacing existing keys.
// Non-positive entries are deleted so a cleared price stays cleared.
func (s *Store) Save(t pricing.Tables) {
	if s.db == nil {
		return
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := writeBucket(tx, bucketGroups, t.Group); err != nil {
			return err
		}
		return writeBucket(tx, bucketMaterials, t.Material)
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("price db write failed")
	}
}

func readBucket(tx *bolt.Tx, name []byte, dst map[string]float64) {
	b := tx.Bucket(name)
	if b == nil {
		return
	}
	_ = b.ForEach(func(k, v []byte) error {
		// skip entries that do not parse instead of failing the load
		if f, err := strconv.ParseFloat(string(v), 64); err == nil && f > 0 {
			dst[string(k)] = f
		}
		return nil
	})
}

func writeBucket(tx *bolt.Tx, name []byte, src map[string]float64) error {
	b, err := tx.CreateBucketIfNotExists(name)
	if err != nil {
		return err
	}
	for k, v := range src {
		if v > 0 {
			if err := b.Put([]byte(k), []byte(strconv.FormatFloat(v, 'f', -1, 64))); err != nil {
				return err
			}
		} else {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
	}
	return nil
}
