package choropleth

import (
	"math"

	"commonyouth/internal/boundary"
)

// 泰国中心，几何缺失时的默认视图中心
const (
	centerLon = 100.5
	centerLat = 13.0
	maxLat    = 85.05112878
)

// Projection：球面墨卡托 + 屏幕平移缩放；屏幕 y 轴向下
type Projection struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

func mercator(lon, lat float64) (float64, float64) {
	if lat > maxLat {
		lat = maxLat
	} else if lat < -maxLat {
		lat = -maxLat
	}
	x := lon * math.Pi / 180
	y := math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
	return x, y
}

// Project：经纬度 → 屏幕坐标
func (p Projection) Project(pt boundary.Point) (float64, float64) {
	x, y := mercator(pt.Lon, pt.Lat)
	return p.Scale*x + p.TX, -p.Scale*y + p.TY
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// centerOn：以给定经纬度为视图中心，固定缩放
func centerOn(lon, lat, scale float64, w, h int) Projection {
	x, y := mercator(lon, lat)
	return Projection{Scale: scale, TX: float64(w)/2 - scale*x, TY: float64(h)/2 + scale*y}
}

// 文档注释：把包围盒放入视口（留 pad 内边距）
// 约束：宽或高为零、负值或非有限值时返回 ok=false，由调用方退回到质心居中。
func fitBBox(b [4]float64, w, h int, pad float64) (Projection, bool) {
	if !finite(b[:]...) || b[0] > b[2] || b[1] > b[3] {
		return Projection{}, false
	}
	x0, y0 := mercator(b[0], b[1])
	x1, y1 := mercator(b[2], b[3])
	dx, dy := x1-x0, y1-y0
	aw, ah := float64(w)-2*pad, float64(h)-2*pad
	if !(dx > 0) || !(dy > 0) || !(aw > 0) || !(ah > 0) {
		return Projection{}, false
	}
	s := math.Min(aw/dx, ah/dy)
	p := Projection{
		Scale: s,
		TX:    float64(w)/2 - s*(x0+x1)/2,
		TY:    float64(h)/2 + s*(y0+y1)/2,
	}
	if !finite(p.Scale, p.TX, p.TY) {
		return Projection{}, false
	}
	return p, true
}

// vertexCentroid：全部顶点的经纬度均值，退化几何的居中点；无有限顶点时 ok=false
func vertexCentroid(feats []*boundary.Feature) (float64, float64, bool) {
	var sx, sy float64
	n := 0
	for _, f := range feats {
		for _, p := range f.Polys {
			for _, r := range p.Rings {
				for _, pt := range r {
					if finite(pt.Lon, pt.Lat) {
						sx += pt.Lon
						sy += pt.Lat
						n++
					}
				}
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / float64(n), sy / float64(n), true
}

// 文档注释：求投影平面上的面积加权质心
// 约束：外环计正、洞计负；总面积为零或结果非有限时 ok=false（该要素不放图标，但照常着色）。
func projectedCentroid(p Projection, f *boundary.Feature) (float64, float64, bool) {
	var area, cx, cy float64
	for _, poly := range f.Polys {
		for ri, ring := range poly.Rings {
			a, x, y := ringMoments(p, ring)
			if a == 0 || !finite(a, x, y) {
				continue
			}
			sign := 1.0
			if ri > 0 {
				sign = -1
			}
			w := sign * math.Abs(a)
			area += w
			cx += w * x
			cy += w * y
		}
	}
	if area == 0 {
		return 0, 0, false
	}
	cx, cy = cx/area, cy/area
	return cx, cy, finite(cx, cy)
}

// ringMoments：环的有向面积与质心（鞋带公式，以首点为原点减小舍入误差）
func ringMoments(p Projection, ring []boundary.Point) (float64, float64, float64) {
	n := len(ring)
	if n < 3 {
		return 0, 0, 0
	}
	ox, oy := p.Project(ring[0])
	var a, cx, cy float64
	px, py := 0.0, 0.0
	for i := 1; i <= n; i++ {
		x, y := p.Project(ring[i%n])
		x, y = x-ox, y-oy
		cross := px*y - x*py
		a += cross
		cx += (px + x) * cross
		cy += (py + y) * cross
		px, py = x, y
	}
	a /= 2
	if math.Abs(a) < 1e-9 {
		return 0, 0, 0
	}
	return a, ox + cx/(6*a), oy + cy/(6*a)
}
