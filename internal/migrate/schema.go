package migrate

import (
	"database/sql"

	"commonyouth/internal/logger"
)

// 背景：首次运行自动创建组织/活动/项目三张表与索引
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；id 为文本，演示数据沿用短 id，新记录使用 uuid
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _cy_groups (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT NOT NULL,
            province TEXT NOT NULL DEFAULT '',
            amphoe TEXT NOT NULL DEFAULT '',
            tambon TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            issues TEXT[] NOT NULL DEFAULT '{}',
            description TEXT NOT NULL DEFAULT '',
            contact TEXT NOT NULL DEFAULT '',
            image_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            is_hidden BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE INDEX IF NOT EXISTS idx_cy_groups_owner ON _cy_groups(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cy_groups_created ON _cy_groups(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS _cy_activities (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL DEFAULT '',
            group_id TEXT NOT NULL DEFAULT '',
            title TEXT NOT NULL,
            date TIMESTAMPTZ NOT NULL,
            location TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'Open',
            image_url TEXT NOT NULL DEFAULT '',
            group_name TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_cy_activities_group_name ON _cy_activities(group_name)`,
		`CREATE TABLE IF NOT EXISTS _cy_projects (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL DEFAULT '',
            group_id TEXT NOT NULL DEFAULT '',
            activity_ids TEXT[] NOT NULL DEFAULT '{}',
            title TEXT NOT NULL,
            location TEXT NOT NULL DEFAULT '',
            date_label TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            project_status TEXT NOT NULL DEFAULT 'ongoing',
            description TEXT NOT NULL DEFAULT '',
            full_content TEXT NOT NULL DEFAULT '',
            image TEXT NOT NULL DEFAULT '',
            volunteers INT NOT NULL DEFAULT 0,
            beneficiaries TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
