package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"commonyouth/internal/choropleth"
	"commonyouth/internal/matcher"
	"commonyouth/internal/validate"
	"commonyouth/internal/visitor"
)

// 地图只展示公开组织；province 为选中省份，不参与筛选
func (s *server) renderMap(r *http.Request) (*choropleth.Plan, error) {
	groups, err := s.Dir.ListGroups(r.Context(), false)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	groups = FilterGroups(groups, q.Get("q"), q.Get("issue"), "")
	sel := choropleth.Selection{Selected: strings.TrimSpace(q.Get("province")), Hovered: strings.TrimSpace(q.Get("hover"))}
	return s.Renderer.Render(r.Context(), groups, sel)
}

func (s *server) mapPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.renderMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *server) mapSVG(w http.ResponseWriter, r *http.Request) {
	plan, err := s.renderMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("content-type", "image/svg+xml; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	if err := choropleth.WriteSVG(w, plan, s.mapLink(r.URL.Query())); err != nil {
		s.Log.Warn("map_svg_write_error", "err", err)
	}
}

// mapLink：点击链接保留筛选条件，province 由 WriteSVG 追加
func (s *server) mapLink(q url.Values) string {
	keep := url.Values{}
	for _, k := range []string{"q", "issue"} {
		if v := q.Get(k); v != "" {
			keep.Set(k, v)
		}
	}
	base := s.Base + "/map.svg"
	if len(keep) > 0 {
		base += "?" + keep.Encode()
	}
	return base
}

// visibleLabels：当前公开组织使用的省份标签
func (s *server) visibleLabels(ctx context.Context) ([]string, error) {
	groups, err := s.Dir.ListGroups(ctx, false)
	if err != nil {
		return nil, err
	}
	return matcher.NewProvinceIndex(groups).Labels(), nil
}

type suggestion struct {
	IP          string `json:"ip"`
	Subdivision string `json:"subdivision,omitempty"`
	Name        string `json:"name,omitempty"`
	Province    string `json:"province,omitempty"`
	OK          bool   `json:"ok"`
}

// 文档注释：按访客 IP 推荐省份
// 背景：GeoIP 给出英文府名，经边界要素英文名（或地名目录）换成泰文显示名，再与在用标签匹配。
// 约束：IP → 显示名的结果写入 Redis（suggest:<ip>）；标签匹配每次重算，组织变化即时生效。
func (s *server) suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))
	if ip == "" {
		ip = visitor.ClientIP(r.Header, r.RemoteAddr)
	}
	out := suggestion{IP: ip}
	key := "suggest:" + ip
	cached := false
	if s.Redis != nil && ip != "" {
		if b, _ := s.Redis.Get(ctx, key).Bytes(); len(b) > 0 && json.Unmarshal(b, &out) == nil {
			cached = true
		}
	}
	if !cached {
		sub, ok, err := s.Visitor.Subdivision(ip)
		if err != nil {
			s.Log.Debug("suggest_lookup_error", "ip", ip, "err", err)
		}
		if ok {
			out.Subdivision = sub
			out.Name = s.thaiName(ctx, sub)
		}
		if s.Redis != nil && s.Visitor != nil && ip != "" && err == nil {
			b, _ := json.Marshal(suggestion{IP: ip, Subdivision: out.Subdivision, Name: out.Name})
			_ = s.Redis.Set(ctx, key, b, s.SuggestTTL).Err()
		}
	}
	out.Province, out.OK = "", false
	if out.Name != "" {
		labels, err := s.visibleLabels(ctx)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out.Province, out.OK = matcher.MatchProvinceName(out.Name, labels)
	}
	writeJSON(w, http.StatusOK, out)
}

var subdivisionAffixes = strings.NewReplacer("Changwat ", "", " Province", "")

// thaiName：英文府名 → 泰文显示名；边界要素优先，其次地名目录
func (s *server) thaiName(ctx context.Context, en string) string {
	en = strings.TrimSpace(subdivisionAffixes.Replace(en))
	if en == "" {
		return ""
	}
	if s.Boundaries != nil {
		if coll, err := s.Boundaries.Get(ctx); err == nil {
			for i := range coll.Features {
				f := &coll.Features[i]
				for _, k := range matcher.EnglishNameKeys {
					if strings.EqualFold(strings.TrimSpace(f.Str(k)), en) {
						if name := matcher.ResolveDisplayName(f.Properties); name != "" {
							return name
						}
					}
				}
			}
		}
	}
	if s.Locations != nil {
		if cat, err := s.Locations.Get(ctx); err == nil {
			for _, p := range cat.Provinces() {
				if strings.EqualFold(cat.EnglishName(p), en) {
					return p
				}
			}
		}
	}
	return ""
}

type locateResult struct {
	Name     string `json:"name,omitempty"`
	Province string `json:"province,omitempty"`
	OK       bool   `json:"ok"`
}

func (s *server) locate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil || !validate.Coordinates(lat, lon) {
		s.writeError(w, r, badRequest("lat and lon must be valid coordinates"))
		return
	}
	if s.Locator == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "boundary_unavailable"})
		return
	}
	name, ok, err := s.Locator.Locate(r.Context(), lat, lon)
	if err != nil {
		s.Log.Error("boundary_load_error", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "boundary_unavailable"})
		return
	}
	out := locateResult{Name: name}
	if ok {
		labels, err := s.visibleLabels(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out.Province, out.OK = matcher.MatchProvinceName(name, labels)
	}
	writeJSON(w, http.StatusOK, out)
}

