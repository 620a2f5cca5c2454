package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/cinelist/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketGenres  = []byte("genres")
	bucketHistory = []byte("history")

	allBuckets = [][]byte{bucketGenres, bucketHistory}
)

const (
	keyGenreDict    = "dict"
	keyGenreFetched = "fetched_at"
	keyLastQuery    = "last_query"
)

// CatalogStore implements domain.Store using BoltDB.
type CatalogStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	now func() time.Time
}

var _ domain.Store = (*CatalogStore)(nil)

// NewCatalogStore opens the cache for one catalog. Each base URL gets its own
// directory so switching providers never mixes genre IDs.
func NewCatalogStore(baseCacheDir, catalogURL string) (*CatalogStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &CatalogStore{cache: make(map[string][]byte), now: time.Now}, nil
	}

	dir := baseCacheDir
	if catalogURL != "" {
		dir = filepath.Join(baseCacheDir, hashCatalogURL(catalogURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "cinelist.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CatalogStore{db: db, cache: make(map[string][]byte), now: time.Now}, nil
}

func hashCatalogURL(catalogURL string) string {
	normalized := strings.TrimRight(strings.ToLower(catalogURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CatalogStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CatalogStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *CatalogStore) clearBucket(bucket []byte) {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Genres ===

func (s *CatalogStore) GetGenres() (*domain.GenreDictionary, bool) {
	var dict domain.GenreDictionary
	if !s.get(bucketGenres, keyGenreDict, &dict) {
		return nil, false
	}
	return &dict, true
}

func (s *CatalogStore) SaveGenres(dict *domain.GenreDictionary, fetchedAt time.Time) error {
	if dict == nil {
		return fmt.Errorf("save genres: nil dictionary")
	}
	if err := s.set(bucketGenres, keyGenreDict, dict); err != nil {
		return err
	}
	// Timestamp kept separately for freshness checks
	return s.set(bucketGenres, keyGenreFetched, fetchedAt.Unix())
}

// GenresFresh reports whether a stored dictionary is younger than maxAge.
// A non-positive maxAge means stored genres never expire.
func (s *CatalogStore) GenresFresh(maxAge time.Duration) bool {
	var fetched int64
	if !s.get(bucketGenres, keyGenreFetched, &fetched) {
		return false
	}
	if maxAge <= 0 {
		return true
	}
	return s.now().Sub(time.Unix(fetched, 0)) < maxAge
}

// === Browse history ===

func (s *CatalogStore) GetLastQuery() (string, bool) {
	var raw string
	ok := s.get(bucketHistory, keyLastQuery, &raw)
	return raw, ok
}

func (s *CatalogStore) SaveLastQuery(rawQuery string) error {
	return s.set(bucketHistory, keyLastQuery, rawQuery)
}

// === Invalidation ===

func (s *CatalogStore) InvalidateGenres() {
	s.clearBucket(bucketGenres)
}

func (s *CatalogStore) InvalidateAll() {
	for _, bucket := range allBuckets {
		s.clearBucket(bucket)
	}
}
