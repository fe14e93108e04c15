package boundary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	shp "github.com/jonas-p/go-shp"
)

// 文档注释：边界数据源接口
// 背景：页面只消费一次加载结果；数据既可能是本地文件（GeoJSON/Shapefile），也可能是远端静态文档。
type Source interface {
	Load(ctx context.Context) (*Collection, error)
}

// FileSource：本地文件数据源，按扩展名区分 GeoJSON 与 Shapefile
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(s.Path), ".shp") {
		return LoadShapefile(s.Path)
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}
	return ParseGeoJSON(b)
}

// 文档注释：远端 GeoJSON 数据源
// 约束：非 200 视为失败；默认 10s 超时；不做重试，由缓存层在下一次请求时再尝试。
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Load(ctx context.Context) (*Collection, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch boundary: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch boundary: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read boundary body: %w", err)
	}
	return ParseGeoJSON(b)
}

// 文档注释：解析 GeoJSON（FeatureCollection 或单个 Feature）
// 约束：仅保留 Polygon/MultiPolygon 要素；无任何多边形时返回 ErrEmpty。
func ParseGeoJSON(b []byte) (*Collection, error) {
	var gj map[string]any
	if err := json.Unmarshal(b, &gj); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	var feats []Feature
	switch strings.ToLower(getStr(gj, "type")) {
	case "featurecollection":
		arr, _ := gj["features"].([]any)
		for _, it := range arr {
			if f, ok := it.(map[string]any); ok {
				if ft, ok := parseFeature(f); ok {
					feats = append(feats, ft)
				}
			}
		}
	case "feature":
		if ft, ok := parseFeature(gj); ok {
			feats = append(feats, ft)
		}
	default:
		return nil, errors.New("parse geojson: not a Feature or FeatureCollection")
	}
	if len(feats) == 0 {
		return nil, ErrEmpty
	}
	return &Collection{Features: feats, LoadedAt: time.Now()}, nil
}

func parseFeature(f map[string]any) (Feature, bool) {
	var ft Feature
	ft.Properties, _ = f["properties"].(map[string]any)
	if ft.Properties == nil {
		ft.Properties = map[string]any{}
	}
	g, ok := f["geometry"].(map[string]any)
	if !ok {
		return ft, false
	}
	coords, _ := g["coordinates"].([]any)
	switch strings.ToLower(getStr(g, "type")) {
	case "polygon":
		ft.Polys = append(ft.Polys, parsePolygon(coords))
	case "multipolygon":
		for _, part := range coords {
			if rings, ok := part.([]any); ok {
				ft.Polys = append(ft.Polys, parsePolygon(rings))
			}
		}
	default:
		return ft, false
	}
	if len(ft.Polys) == 0 {
		return ft, false
	}
	ft.finish()
	return ft, true
}

func parsePolygon(rings []any) Polygon {
	var poly Polygon
	for _, ring := range rings {
		arr, ok := ring.([]any)
		if !ok {
			continue
		}
		rr := make([]Point, 0, len(arr))
		for _, p := range arr {
			if vv, ok := p.([]any); ok && len(vv) >= 2 {
				rr = append(rr, Point{Lon: toFloat(vv[0]), Lat: toFloat(vv[1])})
			}
		}
		poly.Rings = append(poly.Rings, rr)
	}
	return poly
}

// 文档注释：读取 Shapefile（.shp + 同名 .dbf）
// 背景：部分公开的省界数据只以 Shapefile 发布；DBF 字段按字段名写入 Properties。
// 约束：坐标须为经纬度（WGS84）；按 Shapefile 约定，顺时针环为外环，逆时针环为前一外环的洞。
func LoadShapefile(path string) (*Collection, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()
	fields := r.Fields()
	var feats []Feature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		ft := Feature{Properties: make(map[string]any, len(fields))}
		for i, f := range fields {
			ft.Properties[strings.TrimRight(f.String(), "\x00 ")] = strings.TrimSpace(strings.Trim(r.ReadAttribute(idx, i), "\x00"))
		}
		n := len(poly.Parts)
		for pi := 0; pi < n; pi++ {
			start := int(poly.Parts[pi])
			end := len(poly.Points)
			if pi+1 < n {
				end = int(poly.Parts[pi+1])
			}
			ring := make([]Point, 0, end-start)
			for i := start; i < end; i++ {
				ring = append(ring, Point{Lat: poly.Points[i].Y, Lon: poly.Points[i].X})
			}
			if signedArea(ring) <= 0 || len(ft.Polys) == 0 {
				ft.Polys = append(ft.Polys, Polygon{Rings: [][]Point{ring}})
				continue
			}
			last := &ft.Polys[len(ft.Polys)-1]
			last.Rings = append(last.Rings, ring)
		}
		if len(ft.Polys) == 0 {
			continue
		}
		ft.finish()
		feats = append(feats, ft)
	}
	if len(feats) == 0 {
		return nil, ErrEmpty
	}
	return &Collection{Features: feats, LoadedAt: time.Now()}, nil
}

// signedArea：鞋带公式，逆时针为正
func signedArea(ring []Point) float64 {
	var a float64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a += ring[j].Lon*ring[i].Lat - ring[i].Lon*ring[j].Lat
	}
	return a / 2
}

func getStr(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	default:
		return 0
	}
}
