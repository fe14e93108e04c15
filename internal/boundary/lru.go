package boundary

import (
	"container/list"
	"sync"
	"time"
)

// 文档注释：带 TTL 的进程内 LRU（geohash 为键，省名为值）
// 约束：容量满时淘汰最久未访问项；过期项在读取时删除。空字符串值表示“未落在任何省内”，同样缓存。
type lru struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
}

type lruEntry struct {
	k   string
	v   string
	exp time.Time
}

func newLRU(capacity int, ttl time.Duration) *lru {
	if capacity <= 0 {
		capacity = 4096
	}
	return &lru{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *lru) get(k string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.dict[k]
	if !ok {
		return "", false
	}
	it := e.Value.(lruEntry)
	if time.Now().Before(it.exp) {
		c.lst.MoveToFront(e)
		return it.v, true
	}
	c.lst.Remove(e)
	delete(c.dict, k)
	return "", false
}

func (c *lru) set(k, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := lruEntry{k: k, v: v, exp: time.Now().Add(c.ttl)}
	if e, ok := c.dict[k]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(lruEntry).k)
		c.lst.Remove(back)
	}
}

func (c *lru) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst.Init()
	c.dict = make(map[string]*list.Element)
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
