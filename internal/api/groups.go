package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"commonyouth/internal/matcher"
	"commonyouth/internal/middleware"
	"commonyouth/internal/store"
	"commonyouth/internal/validate"
)

const summaryRunes = 140

// groupView：列表输出附带摘要
type groupView struct {
	store.Group
	Summary string `json:"summary"`
}

func views(groups []store.Group) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = groupView{Group: g, Summary: validate.TruncateText(g.Description, summaryRunes, true)}
	}
	return out
}

// 文档注释：地图页与社区页共用的筛选
// 约束：q 对名称与府名做不区分大小写的包含匹配；issue 为空或 All 时不过滤；province 按归一化后全等过滤。
func FilterGroups(groups []store.Group, q, issue, province string) []store.Group {
	q = strings.ToLower(strings.TrimSpace(q))
	issue = strings.TrimSpace(issue)
	if issue == "All" {
		issue = ""
	}
	province = matcher.Normalize(province)
	out := make([]store.Group, 0, len(groups))
	for _, g := range groups {
		if q != "" && !strings.Contains(strings.ToLower(g.Name), q) && !strings.Contains(strings.ToLower(g.Province), q) {
			continue
		}
		if issue != "" && !hasIssue(g, issue) {
			continue
		}
		if province != "" && matcher.Normalize(g.Province) != province {
			continue
		}
		out = append(out, g)
	}
	return out
}

func hasIssue(g store.Group, issue string) bool {
	for _, t := range g.Issues {
		if t == issue {
			return true
		}
	}
	return false
}

func (s *server) visibleGroups(r *http.Request) ([]store.Group, error) {
	sess := middleware.SessionFrom(r.Context())
	groups, err := s.Dir.ListGroups(r.Context(), sess.Admin)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	return FilterGroups(groups, q.Get("q"), q.Get("issue"), q.Get("province")), nil
}

func (s *server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.visibleGroups(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(groups))
}

// 隐藏的组织仅所有者与管理员可见
func (s *server) getGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.Dir.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := middleware.SessionFrom(r.Context())
	if g.Hidden && store.CheckOwner(g, sess.UID, sess.Admin) != nil {
		s.writeError(w, r, store.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *server) groupActivities(w http.ResponseWriter, r *http.Request) {
	g, err := s.Dir.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	acts, err := s.Dir.ListGroupActivities(r.Context(), g.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (s *server) myGroups(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() {
		s.writeError(w, r, errUnauthenticated)
		return
	}
	groups, err := s.Dir.ListGroupsByOwner(r.Context(), sess.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(groups))
}

// 文档注释：表单提交前的补全与校验
// 背景：登记页只选地名；坐标缺省时由地名目录推出，府名缺省而坐标已知时由边界反查。
// 约束：补全失败不报错，交给校验给出字段提示。
func (s *server) prepare(ctx context.Context, in store.Group) (store.Group, error) {
	g := validate.Clean(in)
	if g.Coordinates.Lat == 0 && g.Coordinates.Lng == 0 && g.Province != "" && s.Locations != nil {
		cat, err := s.Locations.Get(ctx)
		if err != nil {
			s.Log.Warn("group_coordinates_fallback", "province", g.Province, "err", err)
		}
		c := cat.Coordinates(g.Province, g.Amphoe, g.Tambon)
		g.Coordinates = store.Coordinates{Lat: c.Lat, Lng: c.Lng}
	}
	if g.Province == "" && s.Locator != nil && (g.Coordinates.Lat != 0 || g.Coordinates.Lng != 0) &&
		validate.Coordinates(g.Coordinates.Lat, g.Coordinates.Lng) {
		if name, ok, err := s.Locator.Locate(ctx, g.Coordinates.Lat, g.Coordinates.Lng); err == nil && ok {
			g.Province = name
		}
	}
	return g, validate.Group(g).Err()
}

func (s *server) createGroup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() {
		s.writeError(w, r, errUnauthenticated)
		return
	}
	var in store.Group
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.prepare(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// 主键与创建时间由存储层生成
	g.ID, g.CreatedAt = "", time.Time{}
	g.OwnerID = sess.UID
	g.Hidden = false
	created, err := s.Dir.CreateGroup(r.Context(), g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Log.Info("group_created", "id", created.ID, "owner", created.OwnerID, "province", created.Province)
	writeJSON(w, http.StatusCreated, created)
}

// authorize：读取组织并校验所有权
func (s *server) authorize(r *http.Request) (*store.Group, error) {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() && !sess.Admin {
		return nil, errUnauthenticated
	}
	g, err := s.Dir.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return g, store.CheckOwner(g, sess.UID, sess.Admin)
}

func (s *server) updateGroup(w http.ResponseWriter, r *http.Request) {
	cur, err := s.authorize(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in store.Group
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.prepare(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.Dir.UpdateGroup(r.Context(), cur.ID, g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	cur, err := s.authorize(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Dir.DeleteGroup(r.Context(), cur.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Log.Info("group_deleted", "id", cur.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) setVisibility(w http.ResponseWriter, r *http.Request) {
	if !middleware.SessionFrom(r.Context()).Admin {
		s.writeError(w, r, store.ErrForbidden)
		return
	}
	var body struct {
		Hidden *bool `json:"hidden"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Hidden == nil {
		s.writeError(w, r, badRequest("hidden is required"))
		return
	}
	id := r.PathValue("id")
	if err := s.Dir.SetGroupHidden(r.Context(), id, *body.Hidden); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Log.Info("group_visibility", "id", id, "hidden", *body.Hidden)
	w.WriteHeader(http.StatusNoContent)
}
