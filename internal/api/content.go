package api

import (
	"net/http"
	"sort"
	"time"

	"commonyouth/internal/icons"
	"commonyouth/internal/location"
	"commonyouth/internal/store"
)

// 文档注释：活动列表
// 约束：mode=upcoming（默认）取日期不早于当前时间者按日期升序；mode=past 取早于当前者按日期降序。
func (s *server) listActivities(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "upcoming"
	}
	if mode != "upcoming" && mode != "past" {
		s.writeError(w, r, badRequest("mode must be upcoming or past"))
		return
	}
	acts, err := s.Dir.ListActivities(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SplitActivities(acts, mode == "past", s.Now()))
}

// SplitActivities：按当前时间切分并排序，不修改入参
func SplitActivities(acts []store.Activity, past bool, now time.Time) []store.Activity {
	out := make([]store.Activity, 0, len(acts))
	for _, a := range acts {
		if a.Date.Before(now) == past {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if past {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *server) listProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Dir.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.Dir.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) listIssues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, icons.All())
}

// catalog：目录加载失败时记录日志并返回 nil（各查询方法对 nil 安全）
func (s *server) catalog(r *http.Request) *location.Catalog {
	if s.Locations == nil {
		return nil
	}
	cat, err := s.Locations.Get(r.Context())
	if err != nil {
		s.Log.Warn("location_catalog_unavailable", "err", err)
		return nil
	}
	return cat
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func (s *server) provinces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.catalog(r).Provinces()))
}

func (s *server) amphoes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.catalog(r).Amphoes(r.URL.Query().Get("province"))))
}

func (s *server) tambons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, nonNil(s.catalog(r).Tambons(q.Get("province"), q.Get("amphoe"))))
}

func (s *server) coordinates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.catalog(r).Coordinates(q.Get("province"), q.Get("amphoe"), q.Get("tambon")))
}
