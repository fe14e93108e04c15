package location

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"commonyouth/internal/logger"
	"commonyouth/internal/metrics"
)

// DefaultURL：kongvut/thai-province-data 发布地址，cmd/fetch-data 默认下载源
const DefaultURL = "https://raw.githubusercontent.com/kongvut/thai-province-data/master/api/v1/province_with_amphure_tambon.json"

type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read location data: %w", err)
	}
	return Parse(b)
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Load(ctx context.Context) (*Catalog, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch location data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch location data: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// 文档注释：地名目录的显式缓存（初始化一次 / Reset）
// 约束：失败不缓存；加载失败时调用方拿到错误，并以空目录继续（坐标回退到曼谷）。
type Cache struct {
	src Source
	mu  sync.Mutex
	cat *Catalog
}

func NewCache(src Source) *Cache { return &Cache{src: src} }

func (c *Cache) Get(ctx context.Context) (*Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cat != nil {
		return c.cat, nil
	}
	if c.src == nil {
		metrics.LocationLoadTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("location data source not configured")
	}
	cat, err := c.src.Load(ctx)
	if err != nil {
		metrics.LocationLoadTotal.WithLabelValues("fail").Inc()
		logger.L().Warn("location_load_error", "err", err)
		return nil, err
	}
	metrics.LocationLoadTotal.WithLabelValues("ok").Inc()
	logger.L().Info("location_load_ok", "provinces", len(cat.provinces))
	c.cat = cat
	return cat, nil
}

func (c *Cache) Reset() {
	c.mu.Lock()
	c.cat = nil
	c.mu.Unlock()
}
