package pathfinding

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"grafed/core"
)

// PathCacheKey represents a unique key for caching routes
type PathCacheKey struct {
	From, To     core.Point
	ObstacleHash uint64 // Hash of obstacle configuration
}

// PathCache stores previously computed routes for reuse
type PathCache struct {
	mu        sync.RWMutex
	cache     map[PathCacheKey]Route
	maxSize   int
	hits      int64 // Use atomic operations
	misses    int64 // Use atomic operations
	evictions int64 // Use atomic operations
}

// NewPathCache creates a new path cache with the specified maximum size
func NewPathCache(maxSize int) *PathCache {
	return &PathCache{
		cache:   make(map[PathCacheKey]Route),
		maxSize: maxSize,
	}
}

// Get retrieves a copy of a cached route if it exists
func (pc *PathCache) Get(start, end core.Point, obstacleHash uint64) (Route, bool) {
	key := PathCacheKey{From: start, To: end, ObstacleHash: obstacleHash}

	pc.mu.RLock()
	route, found := pc.cache[key]
	pc.mu.RUnlock()

	if found {
		atomic.AddInt64(&pc.hits, 1)
		return cloneRoute(route), true
	}
	atomic.AddInt64(&pc.misses, 1)
	return Route{}, false
}

// Put stores a copy of a route in the cache
func (pc *PathCache) Put(start, end core.Point, obstacleHash uint64, route Route) {
	key := PathCacheKey{From: start, To: end, ObstacleHash: obstacleHash}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, exists := pc.cache[key]; !exists && len(pc.cache) >= pc.maxSize && pc.maxSize > 0 {
		// Simple eviction: remove the first entry found
		for k := range pc.cache {
			delete(pc.cache, k)
			atomic.AddInt64(&pc.evictions, 1)
			break
		}
	}

	pc.cache[key] = cloneRoute(route)
}

// Clear removes all entries from the cache
func (pc *PathCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache = make(map[PathCacheKey]Route)
	atomic.StoreInt64(&pc.hits, 0)
	atomic.StoreInt64(&pc.misses, 0)
	atomic.StoreInt64(&pc.evictions, 0)
}

// Stats returns cache statistics
func (pc *PathCache) Stats() (hits, misses, evictions, size int) {
	pc.mu.RLock()
	size = len(pc.cache)
	pc.mu.RUnlock()

	hits = int(atomic.LoadInt64(&pc.hits))
	misses = int(atomic.LoadInt64(&pc.misses))
	evictions = int(atomic.LoadInt64(&pc.evictions))

	return hits, misses, evictions, size
}

// String returns a string representation of cache statistics
func (pc *PathCache) String() string {
	hits, misses, evictions, size := pc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf("PathCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, pc.maxSize, hits, misses, hitRate, evictions)
}

// CachedPathFinder wraps a PathFinder with caching functionality
type CachedPathFinder struct {
	finder PathFinder
	cache  *PathCache
}

// NewCachedPathFinder creates a new cached path finder
func NewCachedPathFinder(finder PathFinder, cacheSize int) *CachedPathFinder {
	return &CachedPathFinder{
		finder: finder,
		cache:  NewPathCache(cacheSize),
	}
}

// FindPath finds a route, using the cache when possible
func (cpf *CachedPathFinder) FindPath(start, end core.Point, obstacles []*core.Node) Route {
	obstacleHash := HashObstacles(obstacles)

	if route, found := cpf.cache.Get(start, end, obstacleHash); found {
		return route
	}

	route := cpf.finder.FindPath(start, end, obstacles)
	cpf.cache.Put(start, end, obstacleHash, route)
	return route
}

// ClearCache clears the path cache
func (cpf *CachedPathFinder) ClearCache() {
	cpf.cache.Clear()
}

// CacheStats returns the cache statistics
func (cpf *CachedPathFinder) CacheStats() string {
	return cpf.cache.String()
}

// HashObstacles digests the ids, types and bounds of the obstacles in order.
// Two obstacle lists with the same hash produce the same route.
func HashObstacles(obstacles []*core.Node) uint64 {
	if len(obstacles) == 0 {
		return 0
	}

	d := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}

	for _, n := range obstacles {
		if n == nil {
			continue
		}
		_, _ = d.WriteString(n.ID)
		_, _ = d.WriteString(string(n.Type))
		writeFloat(n.Position.X)
		writeFloat(n.Position.Y)
		writeFloat(n.Size.Width)
		writeFloat(n.Size.Height)
	}
	return d.Sum64()
}

func cloneRoute(r Route) Route {
	out := Route{
		Segments: core.CloneSegments(r.Segments),
		Detour:   r.Detour,
	}
	if r.Collisions != nil {
		out.Collisions = append([]string(nil), r.Collisions...)
	}
	return out
}
