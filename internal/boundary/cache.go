package boundary

import (
	"context"
	"sync"
	"time"

	"commonyouth/internal/logger"
	"commonyouth/internal/metrics"
)

// 文档注释：边界数据的显式缓存（初始化一次 / Reset）
// 背景：边界文件体积大且只读，进程内共享一份快照；并发首次请求只触发一次加载。
// 约束：成功结果保留到 Reset；失败不缓存，下一次 Get 会重新尝试。
type Cache struct {
	src  Source
	mu   sync.Mutex
	coll *Collection
}

func NewCache(src Source) *Cache { return &Cache{src: src} }

// Get：返回已加载的快照，未加载时同步加载
func (c *Cache) Get(ctx context.Context) (*Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coll != nil {
		return c.coll, nil
	}
	if c.src == nil {
		metrics.BoundaryLoadTotal.WithLabelValues("fail").Inc()
		return nil, ErrEmpty
	}
	start := time.Now()
	coll, err := c.src.Load(ctx)
	if err != nil {
		metrics.BoundaryLoadTotal.WithLabelValues("fail").Inc()
		return nil, err
	}
	metrics.BoundaryLoadTotal.WithLabelValues("ok").Inc()
	logger.L().Info("boundary_load_ok", "features", len(coll.Features), "ms", time.Since(start).Milliseconds())
	c.coll = coll
	return coll, nil
}

// Loaded：是否已有成功快照（不触发加载）
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll != nil
}

// Reset：丢弃快照，下一次 Get 重新加载
func (c *Cache) Reset() {
	c.mu.Lock()
	c.coll = nil
	c.mu.Unlock()
}
