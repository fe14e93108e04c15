package boundary

// 文档注释：点入多边形判定（Even-Odd）
// 约束：外环命中且不落在任一洞内视为命中；边界上的点结果不稳定，调用方不应依赖。
func pointInPoly(pt Point, poly Polygon) bool {
	if len(poly.Rings) == 0 || !inBBox(pt, poly.BBox) {
		return false
	}
	if !pointInRing(pt, poly.Rings[0]) {
		return false
	}
	for i := 1; i < len(poly.Rings); i++ {
		if pointInRing(pt, poly.Rings[i]) {
			return false
		}
	}
	return true
}

// Contains：点是否落在要素任一多边形内
func (f *Feature) Contains(pt Point) bool {
	if !inBBox(pt, f.BBox) {
		return false
	}
	for _, p := range f.Polys {
		if pointInPoly(pt, p) {
			return true
		}
	}
	return false
}

// 射线法
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt.Lon, pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi) {
			inside = !inside
		}
	}
	return inside
}

func inBBox(pt Point, b [4]float64) bool {
	return pt.Lon >= b[0] && pt.Lon <= b[2] && pt.Lat >= b[1] && pt.Lat <= b[3]
}
