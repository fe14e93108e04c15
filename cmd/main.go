// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"commonyouth/internal/api"
	"commonyouth/internal/boundary"
	"commonyouth/internal/choropleth"
	"commonyouth/internal/ingest"
	"commonyouth/internal/location"
	"commonyouth/internal/logger"
	"commonyouth/internal/matcher"
	"commonyouth/internal/metrics"
	"commonyouth/internal/middleware"
	"commonyouth/internal/migrate"
	"commonyouth/internal/store"
	"commonyouth/internal/utils"
	"commonyouth/internal/version"
	"commonyouth/internal/visitor"

	"github.com/joho/godotenv"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok", "commit", version.Commit)
	apiBase := envOr("API_BASE", "/api")
	l.Debug("config_api_base", "base", apiBase)
	ui := envOr("UI_DIST", filepath.Join("ui", "dist"))
	l.Debug("config_ui_dir", "dir", ui)

	// 目录存储：DB_DISABLED=true 时使用内存演示数据
	var dir store.Directory
	if os.Getenv("DB_DISABLED") == "true" {
		dir = store.NewSeededMemory()
		l.Info("db_disabled", "store", "memory")
	} else {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		l.Info("db_open_ok")
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		pg := store.AttachDB(db)
		if os.Getenv("SEED_DEMO") == "true" {
			g, a, p := store.SeedData(time.Now())
			if err := pg.Seed(context.Background(), g, a, p); err != nil {
				l.Error("seed_error", "err", err)
			} else {
				l.Info("seed_ok", "groups", len(g), "activities", len(a), "projects", len(p))
			}
		}
		dir = pg
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		dir = store.NewCached(dir, rc, envSeconds("GROUPS_CACHE_TTL_S", 5*time.Minute))
	}

	// 边界数据：BOUNDARY_URL 优先，否则读取本地 GeoJSON / Shapefile
	var bsrc boundary.Source
	bpath := envOr("BOUNDARY_PATH", filepath.Join("data", "boundary", "thailand-provinces.geojson"))
	if u := os.Getenv("BOUNDARY_URL"); u != "" {
		bsrc = boundary.HTTPSource{URL: u}
		l.Debug("config_boundary", "url", u)
	} else {
		bsrc = boundary.FileSource{Path: bpath}
		l.Debug("config_boundary", "path", bpath)
	}
	bc := boundary.NewCache(bsrc)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := bc.Get(ctx); err != nil {
			l.Warn("boundary_warmup_error", "err", err)
		}
	}()

	// 地名目录：本地文件缺失时回退到公开数据地址
	var lsrc location.Source
	lp := envOr("LOCATION_DATA_PATH", filepath.Join("data", "thai", "provinces.json"))
	if _, err := os.Stat(lp); err == nil {
		lsrc = location.FileSource{Path: lp}
	} else {
		u := envOr("LOCATION_DATA_URL", location.DefaultURL)
		lsrc = location.HTTPSource{URL: u}
		l.Info("location_remote", "url", u)
	}
	lc := location.NewCache(lsrc)

	// 文档注释：每周刷新本地数据文件
	// 约束：仅 DATA_REFRESH_ENABLED=true 时启用；远端边界源（BOUNDARY_URL）不落盘；下载完成后清空缓存。
	if os.Getenv("DATA_REFRESH_ENABLED") == "true" {
		sets := []ingest.Dataset{{
			Name:  "location",
			URL:   envOr("LOCATION_DATA_URL", location.DefaultURL),
			Path:  lp,
			Check: func(b []byte) error { _, err := location.Parse(b); return err },
		}}
		if u := os.Getenv("BOUNDARY_SOURCE_URL"); u != "" && os.Getenv("BOUNDARY_URL") == "" && !strings.EqualFold(filepath.Ext(bpath), ".shp") {
			sets = append(sets, ingest.Dataset{
				Name:  "boundary",
				URL:   u,
				Path:  bpath,
				Check: func(b []byte) error { _, err := boundary.ParseGeoJSON(b); return err },
			})
		}
		ingest.StartWeekly(context.Background(), func(ctx context.Context) error {
			err := ingest.FetchAll(ctx, nil, sets)
			bc.Reset()
			lc.Reset()
			l.Info("data_refreshed", "ok", err == nil)
			return err
		})
	}

	vr, err := visitor.Open(os.Getenv("GEOIP_DB_PATH"))
	if err != nil {
		l.Error("geoip_open_error", "err", err)
	} else if vr != nil {
		defer vr.Close()
		l.Info("geoip_ready")
	}

	locator := boundary.NewLocator(bc, func(f *boundary.Feature) string {
		return matcher.ResolveDisplayName(f.Properties)
	}, 4096, envSeconds("LOCATE_CACHE_TTL_S", time.Hour))

	apiMux := api.BuildRoutes(api.Deps{
		Dir:        dir,
		Boundaries: bc,
		Locations:  lc,
		Renderer:   choropleth.NewRenderer(bc, l, choropleth.DefaultConfig()),
		Locator:    locator,
		Visitor:    vr,
		Redis:      rc,
		Base:       apiBase,
		SuggestTTL: envSeconds("SUGGEST_CACHE_TTL_S", 24*time.Hour),
		Log:        l,
	})
	sessions := middleware.Sessions(middleware.SessionConfigFromEnv())

	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, sessions(apiMux)))
	mux.Handle(apiBase+"/metrics", metrics.Handler())
	// 文档注释：重新加载边界与地名数据
	// 约束：需要 x-admin-token；只清空缓存，下一次请求时重新加载。
	mux.HandleFunc(apiBase+"/admin/reload", func(w http.ResponseWriter, r *http.Request) {
		t := r.Header.Get("x-admin-token")
		if t == "" || t != os.Getenv("ADMIN_TOKEN") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		bc.Reset()
		lc.Reset()
		l.Info("data_reloaded")
		w.WriteHeader(http.StatusNoContent)
	})

	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'\n"))
		_, _ = w.Write([]byte("window.__MAP_SVG__='" + apiBase + "/map.svg'\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	addr := envOr("ADDR", ":8080")
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	tlsEnable := os.Getenv("TLS_ENABLE")
	if tlsEnable == "" || tlsEnable == "true" {
		certPath := envOr("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt"))
		keyPath := envOr("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key"))
		if err := utils.EnsureSelfSignedCert(certPath, keyPath, "commonyouth.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
		}
		// 可选：HTTP 重定向到 HTTPS
		if os.Getenv("TLS_REDIRECT_ENABLE") == "true" {
			redirAddr := envOr("TLS_REDIRECT_ADDR", ":80")
			go func() {
				httpRedir := http.NewServeMux()
				httpRedir.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
					baseHost := r.Host
					if i := strings.LastIndex(baseHost, ":"); i != -1 {
						baseHost = baseHost[:i]
					}
					if p := strings.TrimPrefix(addr, ":"); p != "" && p != "443" {
						baseHost += ":" + p
					}
					target := "https://" + baseHost + r.URL.RequestURI()
					http.Redirect(w, r, target, http.StatusMovedPermanently)
				})
				l.Info("http_redirect_listening", "addr", redirAddr, "to", "https"+addr)
				_ = http.ListenAndServe(redirAddr, logger.AccessMiddleware(l)(httpRedir))
			}()
		}
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		if err := s.ListenAndServeTLS(certPath, keyPath); err != nil {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
	}
}
