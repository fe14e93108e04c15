package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commonyouth_api_requests_total",
		Help: "Total API requests by route",
	}, []string{"route"})
	MapRendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commonyouth_map_renders_total",
		Help: "Choropleth render passes by outcome (ok, empty)",
	}, []string{"outcome"})
	MapRenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commonyouth_map_render_duration_ms",
		Help:    "Choropleth render pass duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ProvinceMatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commonyouth_province_match_total",
		Help: "Boundary feature to province label match outcomes (exact, substring, none)",
	}, []string{"kind"})
	BoundaryLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commonyouth_boundary_load_total",
		Help: "Boundary dataset loads by status (ok, fail)",
	}, []string{"status"})
	LocationLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commonyouth_location_load_total",
		Help: "Thai location catalogue loads by status (ok, fail)",
	}, []string{"status"})
	GroupsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commonyouth_groups_cache_hits_total",
		Help: "Redis hits for the group list cache",
	})
	GroupsCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commonyouth_groups_cache_misses_total",
		Help: "Redis misses for the group list cache",
	})
	LocateCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commonyouth_locate_cache_hits_total",
		Help: "In-process LRU hits for coordinate to province lookups",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(MapRendersTotal)
	prometheus.MustRegister(MapRenderDurationMs)
	prometheus.MustRegister(ProvinceMatchTotal)
	prometheus.MustRegister(BoundaryLoadTotal)
	prometheus.MustRegister(LocationLoadTotal)
	prometheus.MustRegister(GroupsCacheHitsTotal)
	prometheus.MustRegister(GroupsCacheMissesTotal)
	prometheus.MustRegister(LocateCacheHitsTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
