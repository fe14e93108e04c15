// 包 api：集中注册 HTTP API 路由，主入口挂载到 API_BASE 前缀下
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"commonyouth/internal/boundary"
	"commonyouth/internal/choropleth"
	"commonyouth/internal/location"
	"commonyouth/internal/logger"
	"commonyouth/internal/metrics"
	"commonyouth/internal/store"
	"commonyouth/internal/validate"
	"commonyouth/internal/visitor"

	"github.com/redis/go-redis/v9"
)

// 文档注释：路由依赖
// 约束：Dir 与 Renderer 必填；其余为 nil 时对应接口降级（定位返回 503、推荐返回 ok=false）。
type Deps struct {
	Dir        store.Directory
	Boundaries *boundary.Cache
	Locations  *location.Cache
	Renderer   *choropleth.Renderer
	Locator    *boundary.Locator
	Visitor    *visitor.Resolver
	Redis      *redis.Client
	// Base：API 挂载前缀，用于生成 SVG 内的点击链接
	Base       string
	SuggestTTL time.Duration
	Log        *slog.Logger
	Now        func() time.Time
}

type server struct {
	Deps
}

// BuildRoutes：独立 ServeMux，路径不含 API_BASE 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = logger.L()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.SuggestTTL <= 0 {
		d.SuggestTTL = 24 * time.Hour
	}
	s := &server{Deps: d}
	mux := http.NewServeMux()
	route := func(pattern, name string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			metrics.RequestsTotal.WithLabelValues(name).Inc()
			h(w, r)
		})
	}
	route("GET /health", "health", s.health)

	route("GET /groups", "groups_list", s.listGroups)
	route("POST /groups", "groups_create", s.createGroup)
	route("GET /groups/{id}", "groups_get", s.getGroup)
	route("PUT /groups/{id}", "groups_update", s.updateGroup)
	route("DELETE /groups/{id}", "groups_delete", s.deleteGroup)
	route("GET /groups/{id}/activities", "groups_activities", s.groupActivities)
	route("GET /me/groups", "me_groups", s.myGroups)
	route("POST /admin/groups/{id}/visibility", "admin_visibility", s.setVisibility)

	route("GET /activities", "activities", s.listActivities)
	route("GET /projects", "projects_list", s.listProjects)
	route("GET /projects/{id}", "projects_get", s.getProject)
	route("GET /issues", "issues", s.listIssues)

	route("GET /locations/provinces", "locations", s.provinces)
	route("GET /locations/amphoes", "locations", s.amphoes)
	route("GET /locations/tambons", "locations", s.tambons)
	route("GET /locations/coordinates", "locations", s.coordinates)

	route("GET /map", "map", s.mapPlan)
	route("GET /map.svg", "map_svg", s.mapSVG)
	route("GET /map/suggest", "map_suggest", s.suggest)
	route("GET /locate", "locate", s.locate)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError：哨兵错误映射为状态码；未知错误记录日志并返回 500
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Fields: verrs})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	case errors.Is(err, store.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, errUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthenticated"})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.Log.Error("api_error", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
	}
}

var (
	errUnauthenticated = errors.New("unauthenticated")
	errBadRequest      = errors.New("bad request")
)

func badRequest(msg string) error { return &wrapped{msg: msg, err: errBadRequest} }

type wrapped struct {
	msg string
	err error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.err }

// decodeBody：请求体上限 1MB
func decodeBody(r *http.Request, v any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return badRequest("invalid json body")
	}
	return nil
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	loaded := s.Boundaries != nil && s.Boundaries.Loaded()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "boundaryLoaded": loaded})
}
