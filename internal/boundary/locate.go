package boundary

import (
	"context"
	"sync"
	"time"

	"commonyouth/internal/metrics"
)

// 文档注释：坐标 → 省份反查
// 背景：组织登记时的坐标与访客定位都需要知道落在哪个省；边界快照来自 Cache，名称由调用方解析。
// 约束：包围盒过滤后做 Even-Odd 判定；第一个命中的要素即结果；geohash(6) 结果缓存，快照更换时清空。
type Locator struct {
	cache *Cache
	name  func(*Feature) string
	memo  *lru

	mu   sync.Mutex
	seen *Collection
}

// NewLocator：name 为要素显示名解析函数；ttl<=0 时默认 1 小时
func NewLocator(cache *Cache, name func(*Feature) string, capacity int, ttl time.Duration) *Locator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Locator{cache: cache, name: name, memo: newLRU(capacity, ttl)}
}

// Locate：返回命中要素的显示名；未落在任何要素内时 ok=false
func (l *Locator) Locate(ctx context.Context, lat, lon float64) (string, bool, error) {
	coll, err := l.cache.Get(ctx)
	if err != nil {
		return "", false, err
	}
	l.mu.Lock()
	if l.seen != coll {
		l.memo.purge()
		l.seen = coll
	}
	l.mu.Unlock()

	key := encodeGeohash(lat, lon, 6)
	if v, ok := l.memo.get(key); ok {
		metrics.LocateCacheHitsTotal.Inc()
		return v, v != "", nil
	}
	name := ""
	if f := FindFeature(coll, Point{Lat: lat, Lon: lon}); f != nil {
		name = l.name(f)
	}
	l.memo.set(key, name)
	return name, name != "", nil
}

// FindFeature：线性扫描，返回第一个包含该点的要素
func FindFeature(coll *Collection, pt Point) *Feature {
	if coll == nil {
		return nil
	}
	for i := range coll.Features {
		if coll.Features[i].Contains(pt) {
			return &coll.Features[i]
		}
	}
	return nil
}
