package collect

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bResponses = []byte("responses") // request key -> stamp(8) + body

// Cache keeps successful upstream bodies on disk so repeated renders inside
// the TTL skip the network. It only ever serves fresh entries: an expired
// entry is treated as missing, never as a fallback for a failed fetch.
type Cache struct {
	db *bolt.DB
}

type CacheOptions struct {
	Path string // e.g. ".geolist/cache.db"
}

func OpenCache(opt CacheOptions) (*Cache, error) {
	if opt.Path == "" {
		return nil, errors.New("collect: missing cache path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bResponses)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the body stored under key if it was written less than ttl
// before now.
func (c *Cache) Get(key string, ttl time.Duration, now time.Time) ([]byte, bool) {
	if c == nil || ttl <= 0 {
		return nil, false
	}
	var body []byte
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bResponses)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		stamp, rest, ok := splitEntry(v)
		if !ok || now.Sub(stamp) >= ttl {
			return nil
		}
		body = append([]byte(nil), rest...)
		return nil
	})
	return body, body != nil
}

func (c *Cache) Put(key string, body []byte, now time.Time) error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bResponses)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), makeEntry(now, body))
	})
}

// Purge drops every entry older than ttl and reports how many went.
func (c *Cache) Purge(ttl time.Duration, now time.Time) (int, error) {
	if c == nil {
		return 0, nil
	}
	removed := 0
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bResponses)
		if b == nil {
			return nil
		}
		var stale [][]byte
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			stamp, _, ok := splitEntry(v)
			if !ok || now.Sub(stamp) >= ttl {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func makeEntry(at time.Time, body []byte) []byte {
	buf := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint64(buf, uint64(at.UnixNano()))
	return append(buf, body...)
}

func splitEntry(v []byte) (time.Time, []byte, bool) {
	if len(v) < 8 {
		return time.Time{}, nil, false
	}
	ns := int64(binary.BigEndian.Uint64(v[:8]))
	return time.Unix(0, ns), v[8:], true
}
