package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"commonyouth/internal/boundary"
	"commonyouth/internal/choropleth"
	"commonyouth/internal/location"
	"commonyouth/internal/matcher"
	"commonyouth/internal/middleware"
	"commonyouth/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	h   http.Handler
	srv *server
	dir *store.Memory
	mr  *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bc := boundary.NewCache(boundary.FileSource{Path: "testdata/provinces.geojson"})
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	dir := store.NewSeededMemory()
	d := Deps{
		Dir:        dir,
		Boundaries: bc,
		Locations:  location.NewCache(location.FileSource{Path: "../location/testdata/provinces.json"}),
		Renderer:   choropleth.NewRenderer(bc, log, choropleth.DefaultConfig()),
		Locator: boundary.NewLocator(bc, func(f *boundary.Feature) string {
			return matcher.ResolveDisplayName(f.Properties)
		}, 64, time.Minute),
		Redis: rc,
		Base:  "/api",
		Log:   log,
	}
	mux := BuildRoutes(d)
	cfg := middleware.SessionConfig{AdminToken: "admin-secret", AdminUIDs: map[string]bool{}}
	return &harness{
		h:   middleware.Sessions(cfg)(mux),
		srv: &server{Deps: d},
		dir: dir,
		mr:  mr,
	}
}

func (hs *harness) do(t *testing.T, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var (
	asAdmin = map[string]string{"x-admin-token": "admin-secret"}
	asOwner = map[string]string{"x-user-id": "mock-user-123"}
	asOther = map[string]string{"x-user-id": "someone-else"}
)

const validBody = `{"name":"Lanna Riders","province":"เชียงใหม่","amphoe":"เมืองเชียงใหม่","tambon":"พระสิงห์",
"issues":["การพัฒนาเมือง"],"description":"ปั่นจักรยานสำรวจเมืองเก่าทุกสัปดาห์","contact":"lanna@riders.org"}`

func TestListGroupsFilters(t *testing.T) {
	hs := newHarness(t)
	rec := hs.do(t, http.MethodGet, "/groups", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]groupView](t, rec)
	assert.Len(t, all, 3)
	assert.NotEmpty(t, all[0].Summary)

	assert.Len(t, decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups?q=CHIANG", "", nil)), 1)
	byIssue := decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups?issue=สิทธิดิจิทัล", "", nil))
	require.Len(t, byIssue, 1)
	assert.Equal(t, "2", byIssue[0].ID)
	assert.Len(t, decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups?issue=All", "", nil)), 3)
	assert.Len(t, decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups?province=สงขลา", "", nil)), 1)
}

func TestCreateGroup(t *testing.T) {
	hs := newHarness(t)
	assert.Equal(t, http.StatusUnauthorized, hs.do(t, http.MethodPost, "/groups", validBody, nil).Code)

	rec := hs.do(t, http.MethodPost, "/groups", `{"name":""}`, asOther)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "validation", body.Error)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "contact")

	assert.Equal(t, http.StatusBadRequest, hs.do(t, http.MethodPost, "/groups", `{`, asOther).Code)

	rec = hs.do(t, http.MethodPost, "/groups", validBody, asOther)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	g := decode[store.Group](t, rec)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "someone-else", g.OwnerID)
	assert.Equal(t, store.Coordinates{Lat: 18.788, Lng: 98.982}, g.Coordinates)

	mine := decode[[]groupView](t, hs.do(t, http.MethodGet, "/me/groups", "", asOther))
	require.Len(t, mine, 1)
	assert.Equal(t, g.ID, mine[0].ID)
	assert.Equal(t, http.StatusUnauthorized, hs.do(t, http.MethodGet, "/me/groups", "", nil).Code)
}

func TestCreateGroupInfersProvinceFromCoordinates(t *testing.T) {
	hs := newHarness(t)
	body := `{"name":"Isan Makers","coordinates":{"lat":16.5,"lng":102.8},"issues":["สิทธิดิจิทัล"],
"description":"พื้นที่ทดลองเทคโนโลยีชุมชน","contact":"hi@isan.dev"}`
	rec := hs.do(t, http.MethodPost, "/groups", body, asOther)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "จังหวัดขอนแก่น", decode[store.Group](t, rec).Province)
}

func TestCreateGroupAssignsServerID(t *testing.T) {
	hs := newHarness(t)
	body := strings.Replace(validBody, "{", `{"id":"1","createdAt":"2001-01-01T00:00:00Z",`, 1)
	rec := hs.do(t, http.MethodPost, "/groups", body, asOther)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	g := decode[store.Group](t, rec)
	assert.NotEmpty(t, g.ID)
	assert.NotEqual(t, "1", g.ID)
	assert.NotEqual(t, 2001, g.CreatedAt.Year())

	orig := decode[groupView](t, hs.do(t, http.MethodGet, "/groups/1", "", nil))
	assert.Equal(t, "admin", orig.OwnerID)
	assert.NotEqual(t, "Lanna Riders", orig.Name)

	rec = hs.do(t, http.MethodGet, "/groups/"+g.ID+"/activities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	hs := newHarness(t)
	assert.Equal(t, http.StatusUnauthorized, hs.do(t, http.MethodPut, "/groups/2", validBody, nil).Code)
	assert.Equal(t, http.StatusForbidden, hs.do(t, http.MethodPut, "/groups/2", validBody, asOther).Code)
	assert.Equal(t, http.StatusNotFound, hs.do(t, http.MethodPut, "/groups/nope", validBody, asOwner).Code)

	rec := hs.do(t, http.MethodPut, "/groups/2", validBody, asOwner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	g := decode[store.Group](t, rec)
	assert.Equal(t, "Lanna Riders", g.Name)
	assert.Equal(t, "mock-user-123", g.OwnerID)

	assert.Equal(t, http.StatusForbidden, hs.do(t, http.MethodDelete, "/groups/2", "", asOther).Code)
	assert.Equal(t, http.StatusNoContent, hs.do(t, http.MethodDelete, "/groups/2", "", asAdmin).Code)
	assert.Equal(t, http.StatusNotFound, hs.do(t, http.MethodGet, "/groups/2", "", nil).Code)
}

func TestAdminVisibility(t *testing.T) {
	hs := newHarness(t)
	assert.Equal(t, http.StatusForbidden, hs.do(t, http.MethodPost, "/admin/groups/1/visibility", `{"hidden":true}`, asOwner).Code)
	assert.Equal(t, http.StatusBadRequest, hs.do(t, http.MethodPost, "/admin/groups/1/visibility", `{}`, asAdmin).Code)
	require.Equal(t, http.StatusNoContent, hs.do(t, http.MethodPost, "/admin/groups/1/visibility", `{"hidden":true}`, asAdmin).Code)

	assert.Len(t, decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups", "", nil)), 2)
	assert.Len(t, decode[[]groupView](t, hs.do(t, http.MethodGet, "/groups", "", asAdmin)), 3)
	assert.Equal(t, http.StatusNotFound, hs.do(t, http.MethodGet, "/groups/1", "", nil).Code)
	assert.Equal(t, http.StatusOK, hs.do(t, http.MethodGet, "/groups/1", "", asAdmin).Code)
	assert.Equal(t, http.StatusOK, hs.do(t, http.MethodGet, "/groups/1", "", map[string]string{"x-user-id": "admin"}).Code)

	plan := decode[choropleth.Plan](t, hs.do(t, http.MethodGet, "/map", "", nil))
	for _, reg := range plan.Regions {
		assert.NotEqual(t, "เชียงใหม่", reg.Label, "hidden groups stay off the map")
	}
}

func TestGroupActivities(t *testing.T) {
	hs := newHarness(t)
	acts := decode[[]store.Activity](t, hs.do(t, http.MethodGet, "/groups/3/activities", "", nil))
	require.Len(t, acts, 1)
	assert.Equal(t, "103", acts[0].ID)
	assert.Equal(t, http.StatusNotFound, hs.do(t, http.MethodGet, "/groups/404/activities", "", nil).Code)
}

func TestActivitiesMode(t *testing.T) {
	hs := newHarness(t)
	ids := func(acts []store.Activity) []string {
		out := make([]string, len(acts))
		for i, a := range acts {
			out[i] = a.ID
		}
		return out
	}
	up := decode[[]store.Activity](t, hs.do(t, http.MethodGet, "/activities", "", nil))
	assert.Equal(t, []string{"101", "103", "102"}, ids(up))
	assert.Empty(t, decode[[]store.Activity](t, hs.do(t, http.MethodGet, "/activities?mode=past", "", nil)))
	assert.Equal(t, http.StatusBadRequest, hs.do(t, http.MethodGet, "/activities?mode=later", "", nil).Code)

	now := time.Now()
	acts, _ := hs.dir.ListActivities(context.Background())
	assert.Equal(t, []string{"102"}, ids(SplitActivities(acts, false, now.Add(10*24*time.Hour))))
	assert.Equal(t, []string{"103", "101"}, ids(SplitActivities(acts, true, now.Add(10*24*time.Hour))))
}

func TestProjectsAndIssues(t *testing.T) {
	hs := newHarness(t)
	assert.Len(t, decode[[]store.Project](t, hs.do(t, http.MethodGet, "/projects", "", nil)), 3)
	p := decode[store.Project](t, hs.do(t, http.MethodGet, "/projects/2", "", nil))
	assert.Equal(t, "2", p.ID)
	assert.Equal(t, http.StatusNotFound, hs.do(t, http.MethodGet, "/projects/99", "", nil).Code)

	issues := decode[[]map[string]string](t, hs.do(t, http.MethodGet, "/issues", "", nil))
	require.Len(t, issues, 7)
	assert.Equal(t, "/icons/climate-justice.svg", issues[0]["icon"])
}

func TestLocations(t *testing.T) {
	hs := newHarness(t)
	provs := decode[[]string](t, hs.do(t, http.MethodGet, "/locations/provinces", "", nil))
	assert.Equal(t, []string{"กรุงเทพมหานคร", "เชียงใหม่", "สงขลา"}, provs)
	assert.Equal(t, []string{}, decode[[]string](t, hs.do(t, http.MethodGet, "/locations/amphoes?province=ไม่มี", "", nil)))
	tambons := decode[[]location.Tambon](t, hs.do(t, http.MethodGet, "/locations/tambons?province=เชียงใหม่&amphoe=เมืองเชียงใหม่", "", nil))
	assert.NotEmpty(t, tambons)
	c := decode[location.Coordinates](t, hs.do(t, http.MethodGet, "/locations/coordinates?province=ไม่มี", "", nil))
	assert.Equal(t, location.Bangkok, c)
}

func TestMapPlan(t *testing.T) {
	hs := newHarness(t)
	rec := hs.do(t, http.MethodGet, "/map", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[choropleth.Plan](t, rec)
	require.Len(t, plan.Regions, 3)
	assert.Equal(t, choropleth.StatusHasGroups, plan.Regions[0].Status)
	assert.Equal(t, "ขอนแก่น", plan.Regions[1].Label)
	assert.Equal(t, choropleth.StatusEmpty, plan.Regions[2].Status)
	assert.Len(t, plan.Icons, 2)

	plan = decode[choropleth.Plan](t, hs.do(t, http.MethodGet, "/map?province=เชียงใหม่", "", nil))
	assert.Equal(t, choropleth.StatusSelected, plan.Regions[0].Status)
	assert.Empty(t, plan.Icons)

	plan = decode[choropleth.Plan](t, hs.do(t, http.MethodGet, "/map?issue=สิทธิดิจิทัล", "", nil))
	assert.Equal(t, choropleth.StatusEmpty, plan.Regions[0].Status)
	assert.Equal(t, choropleth.StatusHasGroups, plan.Regions[1].Status)
}

func TestMapSVG(t *testing.T) {
	hs := newHarness(t)
	rec := hs.do(t, http.MethodGet, "/map.svg?q=chiang&hover=ภูเก็ต", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml; charset=utf-8", rec.Header().Get("content-type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, `href="/api/map.svg?q=chiang&amp;province=`)
	assert.Contains(t, body, "region empty hovered")
}

func TestLocate(t *testing.T) {
	hs := newHarness(t)
	res := decode[locateResult](t, hs.do(t, http.MethodGet, "/locate?lat=18.5&lon=99", "", nil))
	assert.Equal(t, locateResult{Name: "เชียงใหม่", Province: "เชียงใหม่", OK: true}, res)

	res = decode[locateResult](t, hs.do(t, http.MethodGet, "/locate?lat=8&lon=98.3", "", nil))
	assert.Equal(t, locateResult{Name: "ภูเก็ต"}, res)

	res = decode[locateResult](t, hs.do(t, http.MethodGet, "/locate?lat=0&lon=0", "", nil))
	assert.False(t, res.OK)

	assert.Equal(t, http.StatusBadRequest, hs.do(t, http.MethodGet, "/locate?lat=120&lon=0", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, hs.do(t, http.MethodGet, "/locate?lat=abc", "", nil).Code)
}

func TestSuggestWithoutGeoIP(t *testing.T) {
	hs := newHarness(t)
	res := decode[suggestion](t, hs.do(t, http.MethodGet, "/map/suggest", "", map[string]string{"x-forwarded-for": "203.0.113.9, 10.0.0.1"}))
	assert.Equal(t, suggestion{IP: "203.0.113.9"}, res)
	assert.False(t, hs.mr.Exists("suggest:203.0.113.9"))
}

func TestSuggestUsesCachedName(t *testing.T) {
	hs := newHarness(t)
	require.NoError(t, hs.mr.Set("suggest:198.51.100.4", `{"ip":"198.51.100.4","subdivision":"Khon Kaen","name":"จังหวัดขอนแก่น"}`))
	res := decode[suggestion](t, hs.do(t, http.MethodGet, "/map/suggest?ip=198.51.100.4", "", nil))
	assert.Equal(t, "ขอนแก่น", res.Province)
	assert.True(t, res.OK)
}

func TestThaiName(t *testing.T) {
	hs := newHarness(t)
	ctx := context.Background()
	assert.Equal(t, "จังหวัดขอนแก่น", hs.srv.thaiName(ctx, "Changwat Khon Kaen"))
	assert.Equal(t, "เชียงใหม่", hs.srv.thaiName(ctx, "chiang mai"))
	assert.Equal(t, "สงขลา", hs.srv.thaiName(ctx, "Songkhla Province"))
	assert.Empty(t, hs.srv.thaiName(ctx, "Narnia"))
}

func TestHealth(t *testing.T) {
	hs := newHarness(t)
	body := decode[map[string]any](t, hs.do(t, http.MethodGet, "/health", "", nil))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["boundaryLoaded"])
	hs.do(t, http.MethodGet, "/map", "", nil)
	body = decode[map[string]any](t, hs.do(t, http.MethodGet, "/health", "", nil))
	assert.Equal(t, true, body["boundaryLoaded"])
}
