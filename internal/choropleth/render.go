// 包 choropleth：省级分级着色地图的渲染计划与 SVG 输出
package choropleth

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"commonyouth/internal/boundary"
	"commonyouth/internal/icons"
	"commonyouth/internal/logger"
	"commonyouth/internal/matcher"
	"commonyouth/internal/metrics"
	"commonyouth/internal/store"
)

// 区域状态
const (
	StatusSelected  = "selected"
	StatusHasGroups = "has-groups"
	StatusEmpty     = "empty"
)

const (
	colorOrange   = "#EC6839"
	colorBud      = "#B5D340"
	colorGray     = "#E5E5E5"
	colorObsidian = "#161716"
)

type style struct {
	fill    string
	opacity float64
	stroke  float64
}

var styles = map[string]style{
	StatusSelected:  {colorOrange, 0.9, 2.5},
	StatusHasGroups: {colorBud, 0.7, 0.5},
	StatusEmpty:     {colorGray, 0.3, 0.5},
}

const (
	hoverOpacity = 0.95
	hoverStroke  = 1.5
)

// BoundarySource：边界快照提供方（boundary.Cache）
type BoundarySource interface {
	Get(ctx context.Context) (*boundary.Collection, error)
}

type Config struct {
	Width           int
	Height          int
	SelectedPadding float64
	FullPadding     float64
	FallbackScale   float64
	IconSize        float64
}

func DefaultConfig() Config {
	return Config{Width: 800, Height: 1000, SelectedPadding: 40, FullPadding: 10, FallbackScale: 4000, IconSize: 28}
}

// Selection：选中与悬停的省份标签，空串表示无
type Selection struct {
	Selected string
	Hovered  string
}

type Region struct {
	Name        string  `json:"name"`
	Label       string  `json:"label,omitempty"`
	Status      string  `json:"status"`
	Fill        string  `json:"fill"`
	FillOpacity float64 `json:"fillOpacity"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Hovered     bool    `json:"hovered,omitempty"`
	Clickable   bool    `json:"clickable"`
	GroupCount  int     `json:"groupCount"`
	Path        string  `json:"path"`
}

type Icon struct {
	Label  string  `json:"label"`
	Issue  string  `json:"issue"`
	Asset  string  `json:"asset"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	Groups int     `json:"groups"`
}

// Plan：一次渲染的完整结果，不跨请求保留
type Plan struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Projection Projection `json:"projection"`
	Selected   string     `json:"selected,omitempty"`
	Regions    []Region   `json:"regions"`
	Icons      []Icon     `json:"icons"`
}

// 文档注释：分级着色渲染器
// 背景：页面传入已筛选的组织列表与选择状态，每次请求完整重算投影、着色与图标，不做增量更新。
// 约束：边界加载失败时记录 boundary_load_error 并返回空计划（nil error）；渲染器自身不持有跨请求状态。
type Renderer struct {
	src BoundarySource
	log *slog.Logger
	cfg Config
}

func NewRenderer(src BoundarySource, log *slog.Logger, cfg Config) *Renderer {
	if log == nil {
		log = logger.L()
	}
	def := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.FallbackScale <= 0 {
		cfg.FallbackScale = def.FallbackScale
	}
	if cfg.IconSize <= 0 {
		cfg.IconSize = def.IconSize
	}
	return &Renderer{src: src, log: log, cfg: cfg}
}

func (r *Renderer) emptyPlan(sel Selection) *Plan {
	return &Plan{
		Width:      r.cfg.Width,
		Height:     r.cfg.Height,
		Projection: centerOn(centerLon, centerLat, r.cfg.FallbackScale, r.cfg.Width, r.cfg.Height),
		Selected:   sel.Selected,
		Regions:    []Region{},
		Icons:      []Icon{},
	}
}

// Render：单次渲染；groups 应为页面筛选后的可见组织
func (r *Renderer) Render(ctx context.Context, groups []store.Group, sel Selection) (*Plan, error) {
	start := time.Now()
	defer func() { metrics.MapRenderDurationMs.Observe(float64(time.Since(start).Milliseconds())) }()

	coll, err := r.src.Get(ctx)
	if err != nil || coll == nil || len(coll.Features) == 0 {
		r.log.Error("boundary_load_error", "err", err)
		metrics.MapRendersTotal.WithLabelValues("empty").Inc()
		return r.emptyPlan(sel), nil
	}

	idx := matcher.NewProvinceIndex(groups)
	matches := matcher.MatchFeatures(coll.Features, idx)
	for _, m := range matches {
		metrics.ProvinceMatchTotal.WithLabelValues(m.Kind.String()).Inc()
	}

	plan := r.emptyPlan(sel)
	plan.Projection = r.project(coll, matches, sel.Selected)

	hovered := matcher.Normalize(sel.Hovered)
	selected := matcher.Normalize(sel.Selected)
	for i := range coll.Features {
		m := matches[i]
		status := StatusEmpty
		if m.OK {
			status = StatusHasGroups
			if selected != "" && matcher.Normalize(m.Label) == selected {
				status = StatusSelected
			}
		}
		st := styles[status]
		reg := Region{
			Name:        m.Name,
			Label:       m.Label,
			Status:      status,
			Fill:        st.fill,
			FillOpacity: st.opacity,
			Stroke:      colorObsidian,
			StrokeWidth: st.stroke,
			Clickable:   m.OK,
			Path:        pathData(plan.Projection, &coll.Features[i]),
		}
		if m.OK {
			reg.GroupCount = len(idx.Groups(m.Label))
		}
		if hovered != "" && (hovered == matcher.Normalize(m.Label) || (!m.OK && hovered == matcher.Normalize(m.Name))) {
			reg.Hovered = true
			reg.FillOpacity = hoverOpacity
			if status != StatusSelected {
				reg.StrokeWidth = hoverStroke
			}
		}
		plan.Regions = append(plan.Regions, reg)
	}

	if sel.Selected == "" {
		plan.Icons = r.icons(plan.Projection, coll, matches, idx)
	}
	metrics.MapRendersTotal.WithLabelValues("ok").Inc()
	r.log.Debug("map_render_ok", "regions", len(plan.Regions), "icons", len(plan.Icons), "selected", sel.Selected, "provinces", idx.Len())
	return plan, nil
}

// 选中省份存在对应要素时贴合该省（可能多个要素），否则贴合全集
func (r *Renderer) project(coll *boundary.Collection, matches []matcher.MatchResult, selected string) Projection {
	var target []*boundary.Feature
	pad := r.cfg.FullPadding
	if selected = matcher.Normalize(selected); selected != "" {
		for i, m := range matches {
			if m.OK && matcher.Normalize(m.Label) == selected {
				target = append(target, &coll.Features[i])
			}
		}
		if len(target) > 0 {
			pad = r.cfg.SelectedPadding
		}
	}
	if len(target) == 0 {
		target = make([]*boundary.Feature, len(coll.Features))
		for i := range coll.Features {
			target[i] = &coll.Features[i]
		}
	}
	bb := [4]float64{180, 90, -180, -90}
	for _, f := range target {
		bb[0] = min(bb[0], f.BBox[0])
		bb[1] = min(bb[1], f.BBox[1])
		bb[2] = max(bb[2], f.BBox[2])
		bb[3] = max(bb[3], f.BBox[3])
	}
	if p, ok := fitBBox(bb, r.cfg.Width, r.cfg.Height, pad); ok {
		return p
	}
	lon, lat, ok := vertexCentroid(target)
	if !ok {
		lon, lat = centerLon, centerLat
	}
	r.log.Debug("map_projection_fallback", "lon", lon, "lat", lat, "selected", selected)
	return centerOn(lon, lat, r.cfg.FallbackScale, r.cfg.Width, r.cfg.Height)
}

// 每个有组织的省份一个图标，位于第一个质心有效的匹配要素
func (r *Renderer) icons(p Projection, coll *boundary.Collection, matches []matcher.MatchResult, idx *matcher.ProvinceIndex) []Icon {
	out := []Icon{}
	done := make(map[string]bool)
	for i, m := range matches {
		if !m.OK || done[m.Label] {
			continue
		}
		groups := idx.Groups(m.Label)
		if len(groups) == 0 {
			continue
		}
		x, y, ok := projectedCentroid(p, &coll.Features[i])
		if !ok {
			r.log.Debug("map_icon_skip", "label", m.Label, "reason", "degenerate_centroid")
			continue
		}
		done[m.Label] = true
		issue := MajorityIssue(groups)
		out = append(out, Icon{
			Label:  m.Label,
			Issue:  issue,
			Asset:  icons.Asset(issue),
			X:      x,
			Y:      y,
			Size:   r.cfg.IconSize,
			Groups: len(groups),
		})
	}
	return out
}

// 文档注释：统计出现次数最多的议题标签
// 约束：并列时取最先出现者（按组织顺序、组织内标签顺序）；无任何标签时返回空串。
func MajorityIssue(groups []store.Group) string {
	counts := make(map[string]int)
	var order []string
	for _, g := range groups {
		for _, tag := range g.Issues {
			if tag == "" {
				continue
			}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	best, bestN := "", 0
	for _, tag := range order {
		if counts[tag] > bestN {
			best, bestN = tag, counts[tag]
		}
	}
	return best
}

// pathData：SVG path，每环一个子路径；洞依赖 fill-rule=evenodd
func pathData(p Projection, f *boundary.Feature) string {
	var b strings.Builder
	for _, poly := range f.Polys {
		for _, ring := range poly.Rings {
			if len(ring) < 3 {
				continue
			}
			first := true
			for _, pt := range ring {
				x, y := p.Project(pt)
				if !finite(x, y) {
					continue
				}
				if first {
					b.WriteByte('M')
					first = false
				} else {
					b.WriteByte('L')
				}
				b.WriteString(fmtNum(x))
				b.WriteByte(',')
				b.WriteString(fmtNum(y))
			}
			if !first {
				b.WriteByte('Z')
			}
		}
	}
	return b.String()
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
