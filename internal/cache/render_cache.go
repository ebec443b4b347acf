// Package cache keeps recently rendered plan PDFs in memory so repeated
// downloads of an unchanged workout skip the layout pass.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitplan/internal/domain"
)

// RenderCache is a size-bounded cache of rendered documents.
type RenderCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

// Entry is one cached document.
type Entry struct {
	Data  []byte
	Pages int
}

// NewRenderCache allocates sizeMB of cache memory. A zero ttl keeps entries
// until they are evicted.
func NewRenderCache(sizeMB int, ttl time.Duration) *RenderCache {
	return &RenderCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
	}
}

// Key identifies a rendering. The version alone is not enough: an import
// resets every workout to version 1, so the content is fingerprinted too.
// The day is part of the key because the footer is dated.
func Key(w *domain.Workout, profile *domain.CoachProfile, day time.Time) []byte {
	var p any
	if profile != nil {
		p = profile
	}
	return []byte(fmt.Sprintf("%s/%d/%x/%x/%s", w.ID, w.Version, fingerprint(w), fingerprint(p), day.Format("2006-01-02")))
}

func fingerprint(v any) uint64 {
	h := fnv.New64a()
	if v == nil {
		return h.Sum64()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return h.Sum64()
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

func (c *RenderCache) Get(key []byte) (*Entry, bool) {
	value, err := c.cache.Get(key)
	if err != nil || len(value) < 4 {
		return nil, false
	}
	return &Entry{
		Pages: int(binary.BigEndian.Uint32(value[:4])),
		Data:  value[4:],
	}, true
}

// Set stores the entry. Documents too large for a single cache segment are
// simply not cached.
func (c *RenderCache) Set(key []byte, entry *Entry) {
	value := make([]byte, 4+len(entry.Data))
	binary.BigEndian.PutUint32(value[:4], uint32(entry.Pages))
	copy(value[4:], entry.Data)

	err := c.cache.Set(key, value, int(c.ttl.Seconds()))
	if errors.Is(err, freecache.ErrLargeEntry) {
		log.Debugf("render cache: %d byte document too large to cache", len(entry.Data))
		return
	}
	if err != nil {
		log.Warnf("render cache: set %s: %v", key, err)
	}
}

func (c *RenderCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

// Clear drops every entry. Called after the store content is replaced wholesale.
func (c *RenderCache) Clear() {
	c.cache.Clear()
}
