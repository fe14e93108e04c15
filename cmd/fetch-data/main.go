// fetch-data：下载地名目录与省界 GeoJSON 到 data/，供服务离线读取
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commonyouth/internal/boundary"
	"commonyouth/internal/ingest"
	"commonyouth/internal/location"
	"commonyouth/internal/logger"

	"github.com/joho/godotenv"
)

// DefaultBoundaryURL：泰国府级边界（GeoJSON，属性含 name）
const DefaultBoundaryURL = "https://raw.githubusercontent.com/apisit/thailand.json/master/thailand.json"

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	envFile := filepath.Join("data", "env", ".env")
	outDir := "data"
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--env" && i+1 < len(os.Args) {
			envFile = os.Args[i+1]
			i++
		} else if os.Args[i] == "--out" && i+1 < len(os.Args) {
			outDir = os.Args[i+1]
			i++
		} else if strings.HasSuffix(os.Args[i], ".env") {
			envFile = os.Args[i]
		}
	}
	_ = godotenv.Load(".env")
	_ = godotenv.Load(envFile)
	logger.Setup()

	locURL := envOr("LOCATION_DATA_URL", location.DefaultURL)
	bURL := envOr("BOUNDARY_SOURCE_URL", DefaultBoundaryURL)
	sets := []ingest.Dataset{
		{
			Name: "location",
			URL:  locURL,
			Path: envOr("LOCATION_DATA_PATH", filepath.Join(outDir, "thai", "provinces.json")),
			Check: func(b []byte) error {
				_, err := location.Parse(b)
				return err
			},
		},
		{
			Name: "boundary",
			URL:  bURL,
			Path: envOr("BOUNDARY_PATH", filepath.Join(outDir, "boundary", "thailand-provinces.geojson")),
			Check: func(b []byte) error {
				_, err := boundary.ParseGeoJSON(b)
				return err
			},
		},
		{
			// 需要自备下载地址（MaxMind 授权链接）；未配置时跳过
			Name: "geoip",
			URL:  os.Getenv("GEOIP_DB_URL"),
			Path: envOr("GEOIP_DB_PATH", filepath.Join(outDir, "geoip")+"/"),
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := ingest.FetchAll(ctx, nil, sets); err != nil {
		fmt.Println("fetch error:", err)
		os.Exit(1)
	}
	for _, d := range sets {
		fmt.Println(d.Name, "->", d.Path)
	}
}
