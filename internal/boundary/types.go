package boundary

import (
	"errors"
	"time"
)

// ErrEmpty：数据集可解析但不含任何多边形要素
var ErrEmpty = errors.New("boundary: dataset has no polygon features")

// Point：WGS84 经纬度
type Point struct {
	Lat float64
	Lon float64
}

// Polygon：GeoJSON 约定的环集合，第一环为外环，其后为洞
type Polygon struct {
	Rings [][]Point
	BBox  [4]float64 // minLon, minLat, maxLon, maxLat
}

// 文档注释：行政区边界要素
// 背景：属性字段原样保留，名称字段在不同发布版本中键名不一致，由 matcher.ResolveDisplayName 解析。
// 约束：加载后只读；同一渲染周期内由渲染器持有引用，不做修改。
type Feature struct {
	Properties map[string]any
	Polys      []Polygon
	BBox       [4]float64
}

// Collection：一次加载得到的边界快照
type Collection struct {
	Features []Feature
	LoadedAt time.Time
}

func emptyBBox() [4]float64 { return [4]float64{180, 90, -180, -90} }

func extend(b *[4]float64, o [4]float64) {
	if o[0] < b[0] {
		b[0] = o[0]
	}
	if o[1] < b[1] {
		b[1] = o[1]
	}
	if o[2] > b[2] {
		b[2] = o[2]
	}
	if o[3] > b[3] {
		b[3] = o[3]
	}
}

func computeBBox(p Polygon) [4]float64 {
	b := emptyBBox()
	for _, r := range p.Rings {
		for _, pt := range r {
			extend(&b, [4]float64{pt.Lon, pt.Lat, pt.Lon, pt.Lat})
		}
	}
	return b
}

func (f *Feature) finish() {
	f.BBox = emptyBBox()
	for i := range f.Polys {
		f.Polys[i].BBox = computeBBox(f.Polys[i])
		extend(&f.BBox, f.Polys[i].BBox)
	}
}

// BBox：整个集合的包围盒；空集合返回 ok=false
func (c *Collection) BBox() ([4]float64, bool) {
	if c == nil || len(c.Features) == 0 {
		return [4]float64{}, false
	}
	b := emptyBBox()
	for _, f := range c.Features {
		extend(&b, f.BBox)
	}
	return b, b[0] <= b[2] && b[1] <= b[3]
}

// Str：读取字符串属性，缺失或非字符串时返回空
func (f *Feature) Str(key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}
