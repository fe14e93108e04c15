package store

import (
	"context"
	"encoding/json"
	"time"

	"commonyouth/internal/logger"
	"commonyouth/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	keyGroupsVisible = "cy:groups:visible"
	keyGroupsAll     = "cy:groups:all"
)

// 文档注释：组织列表的 Redis 读穿缓存
// 背景：地图页与列表页每次请求都读取全量组织；列表变化只来自本服务的写操作，写后整体失效即可。
// 约束：rc 为 nil 时直接透传；Redis 读写失败只记日志，不影响主流程；其余读操作不缓存。
type Cached struct {
	Directory
	rc  *redis.Client
	ttl time.Duration
}

func NewCached(inner Directory, rc *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{Directory: inner, rc: rc, ttl: ttl}
}

func (c *Cached) ListGroups(ctx context.Context, includeHidden bool) ([]Group, error) {
	if c.rc == nil {
		return c.Directory.ListGroups(ctx, includeHidden)
	}
	key := keyGroupsVisible
	if includeHidden {
		key = keyGroupsAll
	}
	if s, _ := c.rc.Get(ctx, key).Result(); s != "" {
		var out []Group
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			metrics.GroupsCacheHitsTotal.Inc()
			return out, nil
		}
	}
	metrics.GroupsCacheMissesTotal.Inc()
	out, err := c.Directory.ListGroups(ctx, includeHidden)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rc.Set(ctx, key, string(b), c.ttl).Err(); err != nil {
			logger.L().Warn("redis_set_error", "key", key, "err", err)
		}
	}
	return out, nil
}

func (c *Cached) invalidate(ctx context.Context) {
	if c.rc == nil {
		return
	}
	if err := c.rc.Del(ctx, keyGroupsVisible, keyGroupsAll).Err(); err != nil {
		logger.L().Warn("redis_del_error", "err", err)
	}
}

func (c *Cached) CreateGroup(ctx context.Context, g Group) (*Group, error) {
	out, err := c.Directory.CreateGroup(ctx, g)
	if err == nil {
		c.invalidate(ctx)
	}
	return out, err
}

func (c *Cached) UpdateGroup(ctx context.Context, id string, g Group) (*Group, error) {
	out, err := c.Directory.UpdateGroup(ctx, id, g)
	if err == nil {
		c.invalidate(ctx)
	}
	return out, err
}

func (c *Cached) DeleteGroup(ctx context.Context, id string) error {
	err := c.Directory.DeleteGroup(ctx, id)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}

func (c *Cached) SetGroupHidden(ctx context.Context, id string, hidden bool) error {
	err := c.Directory.SetGroupHidden(ctx, id, hidden)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}
