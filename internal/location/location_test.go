package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := FileSource{Path: filepath.Join("testdata", "provinces.json")}.Load(context.Background())
	require.NoError(t, err)
	return cat
}

func TestCascade(t *testing.T) {
	cat := loadCatalog(t)
	assert.Equal(t, []string{"กรุงเทพมหานคร", "เชียงใหม่", "สงขลา"}, cat.Provinces())
	assert.Equal(t, []string{"เมืองสงขลา", "หาดใหญ่"}, cat.Amphoes("สงขลา"))
	assert.Nil(t, cat.Amphoes("ไม่มี"))

	tb := cat.Tambons("เชียงใหม่", "เมืองเชียงใหม่")
	require.Len(t, tb, 3)
	assert.Equal(t, "ศรีภูมิ", tb[0].Name)
	assert.True(t, tb[0].Coordinates.IsZero())
	assert.Equal(t, 50200, tb[1].ZipCode)
	assert.Nil(t, cat.Tambons("เชียงใหม่", "ไม่มี"))
	assert.Equal(t, "Songkhla", cat.EnglishName("สงขลา"))
}

func TestCoordinatesFallbacks(t *testing.T) {
	cat := loadCatalog(t)

	assert.Equal(t, Bangkok, cat.Coordinates("ไม่มีจังหวัดนี้", "", ""))
	assert.Equal(t, Coordinates{Lat: 18.7883, Lng: 98.9853}, cat.Coordinates("เชียงใหม่", "", ""), "fixed table")
	assert.Equal(t, Coordinates{Lat: 7.008, Lng: 100.474}, cat.Coordinates("สงขลา", "", ""), "first amphoe with coordinates")

	assert.Equal(t, Coordinates{Lat: 18.788, Lng: 98.982}, cat.Coordinates("เชียงใหม่", "เมืองเชียงใหม่", ""), "first tambon with coordinates")
	assert.Equal(t, Coordinates{Lat: 18.776, Lng: 98.983}, cat.Coordinates("เชียงใหม่", "เมืองเชียงใหม่", "หายยา"))
	assert.Equal(t, Coordinates{Lat: 18.788, Lng: 98.982}, cat.Coordinates("เชียงใหม่", "เมืองเชียงใหม่", "ศรีภูมิ"), "tambon without coordinates keeps amphoe")
	assert.Equal(t, Coordinates{Lat: 18.7883, Lng: 98.9853}, cat.Coordinates("เชียงใหม่", "ไม่มี", "หายยา"))
	assert.Equal(t, Coordinates{Lat: 7.008, Lng: 100.474}, cat.Coordinates("สงขลา", "เมืองสงขลา", ""), "amphoe without coordinates keeps province")

	var nilCat *Catalog
	assert.Equal(t, Bangkok, nilCat.Coordinates("เชียงใหม่", "", ""))
	assert.Nil(t, nilCat.Provinces())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)
	_, err = Parse([]byte("[]"))
	assert.Error(t, err)
}

type flakySource struct {
	calls int
	fail  bool
	cat   *Catalog
}

func (s *flakySource) Load(ctx context.Context) (*Catalog, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("offline")
	}
	return s.cat, nil
}

func TestCacheLifecycle(t *testing.T) {
	src := &flakySource{fail: true, cat: loadCatalog(t)}
	c := NewCache(src)

	_, err := c.Get(context.Background())
	require.Error(t, err)

	src.fail = false
	cat, err := c.Get(context.Background())
	require.NoError(t, err)
	again, _ := c.Get(context.Background())
	assert.Same(t, cat, again)
	assert.Equal(t, 2, src.calls)

	c.Reset()
	_, _ = c.Get(context.Background())
	assert.Equal(t, 3, src.calls)

	_, err = NewCache(nil).Get(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "provinces.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cat, err := HTTPSource{URL: srv.URL + "/data.json"}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Provinces(), 3)

	_, err = HTTPSource{URL: srv.URL + "/down"}.Load(context.Background())
	assert.Error(t, err)
}
