// seed：建表并写入演示用的组织、活动与项目（已存在的 id 跳过）
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commonyouth/internal/logger"
	"commonyouth/internal/migrate"
	"commonyouth/internal/store"
	"commonyouth/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	envFile := filepath.Join("data", "env", ".env")
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--env" && i+1 < len(os.Args) {
			envFile = os.Args[i+1]
			i++
		} else if strings.HasSuffix(os.Args[i], ".env") {
			envFile = os.Args[i]
		}
	}
	_ = godotenv.Load(".env")
	_ = godotenv.Load(envFile)
	logger.Setup()

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		fmt.Println("db error:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		fmt.Println("db ping error:", err)
		os.Exit(1)
	}
	if err := migrate.EnsureSchema(db); err != nil {
		fmt.Println("schema error:", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	groups, acts, projects := store.SeedData(time.Now())
	if err := store.AttachDB(db).Seed(ctx, groups, acts, projects); err != nil {
		fmt.Println("seed error:", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d groups, %d activities, %d projects\n", len(groups), len(acts), len(projects))
}
