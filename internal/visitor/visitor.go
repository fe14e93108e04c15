// 包 visitor：基于 GeoIP 数据库推测访问者所在府（仅泰国）
package visitor

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

var ErrInvalidIP = errors.New("visitor: invalid ip")

// Resolver：GeoLite2/GeoIP2 City 查询器；nil 接收者视为未配置
type Resolver struct {
	db *geoip2.Reader
}

// Open：打开 mmdb 文件；路径为空时返回 (nil, nil)
func Open(path string) (*Resolver, error) {
	if path == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &Resolver{db: db}, nil
}

func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// 文档注释：查询 IP 所在的一级行政区英文名
// 约束：只在国家代码为 TH 时返回；数据库未配置、IP 非法或无记录时 ok=false。
func (r *Resolver) Subdivision(ip string) (string, bool, error) {
	if r == nil || r.db == nil {
		return "", false, nil
	}
	p := net.ParseIP(strings.TrimSpace(ip))
	if p == nil {
		return "", false, ErrInvalidIP
	}
	rec, err := r.db.City(p)
	if err != nil {
		return "", false, fmt.Errorf("geoip lookup: %w", err)
	}
	if !strings.EqualFold(rec.Country.IsoCode, "TH") || len(rec.Subdivisions) == 0 {
		return "", false, nil
	}
	name := rec.Subdivisions[0].Names["en"]
	return name, name != "", nil
}

// ClientIP：按常见代理头顺序取访问者 IP，最后回退 RemoteAddr
func ClientIP(h interface{ Get(string) string }, remoteAddr string) string {
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	for _, k := range []string{"cf-connecting-ip", "x-real-ip", "x-client-ip"} {
		if x := h.Get(k); x != "" {
			return strings.TrimSpace(x)
		}
	}
	if x := h.Get("forwarded"); x != "" {
		if i := strings.Index(strings.ToLower(x), "for="); i >= 0 {
			y := strings.Trim(x[i+4:], "\" ")
			if p := strings.IndexAny(y, ";,"); p >= 0 {
				y = y[:p]
			}
			return strings.Trim(y, "\"[]")
		}
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
