package chart

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"CreditExposure/internal/exposure"
)

// DefaultCacheTTL is how long a rendered chart is reused.
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

// Cache keeps recently rendered charts keyed by curve content.
type Cache struct {
	TTL time.Duration

	mu      sync.Mutex
	entries map[uint64]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache. ttl <= 0 uses DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{TTL: ttl, entries: map[uint64]cacheEntry{}, now: time.Now}
}

// Render returns a cached image for an identical curve, rendering it otherwise.
func (c *Cache) Render(curve *exposure.Curve, opts Options) ([]byte, error) {
	key := fingerprint(curve, opts)
	if img, ok := c.get(key); ok {
		return img, nil
	}
	img, err := RenderExposure(curve, opts)
	if err != nil {
		return nil, err
	}
	c.set(key, img)
	return img, nil
}

func (c *Cache) get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.createdAt.Add(c.TTL)) {
		delete(c.entries, key)
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

func (c *Cache) set(key uint64, img []byte) {
	stored := make([]byte, len(img))
	copy(stored, img)
	c.mu.Lock()
	c.entries[key] = cacheEntry{createdAt: c.now(), image: stored}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func fingerprint(curve *exposure.Curve, opts Options) uint64 {
	h := fnv.New64a()
	var b [8]byte
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		h.Write(b[:])
	}
	putFloat(float64(opts.Width))
	putFloat(float64(opts.Height))
	h.Write([]byte(opts.Subtitle))
	if curve == nil {
		return h.Sum64()
	}
	for _, row := range curve.Rows() {
		h.Write([]byte(row.Series))
		putFloat(row.Decline)
		putFloat(row.LossRatio)
	}
	return h.Sum64()
}
