package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commonyouth/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PG：PostgreSQL 实现，表结构见 internal/migrate
type PG struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *PG { return &PG{db: db} }

func (s *PG) Close() error { return s.db.Close() }

const groupCols = `id, owner_id, name, province, amphoe, tambon, lat, lng, issues, description, contact, image_url, created_at, is_hidden`

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(r scanner) (Group, error) {
	var g Group
	err := r.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Province, &g.Amphoe, &g.Tambon,
		&g.Coordinates.Lat, &g.Coordinates.Lng, pq.Array(&g.Issues), &g.Description,
		&g.Contact, &g.ImageURL, &g.CreatedAt, &g.Hidden)
	return g, err
}

func (s *PG) queryGroups(ctx context.Context, q string, args ...any) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PG) ListGroups(ctx context.Context, includeHidden bool) ([]Group, error) {
	q := `SELECT ` + groupCols + ` FROM _cy_groups`
	if !includeHidden {
		q += ` WHERE is_hidden = FALSE`
	}
	q += ` ORDER BY created_at DESC, id`
	out, err := s.queryGroups(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	logger.L().Debug("db_list_groups", "n", len(out), "include_hidden", includeHidden)
	return out, nil
}

func (s *PG) ListGroupsByOwner(ctx context.Context, ownerID string) ([]Group, error) {
	out, err := s.queryGroups(ctx, `SELECT `+groupCols+` FROM _cy_groups WHERE owner_id=$1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner groups: %w", err)
	}
	return out, nil
}

func (s *PG) GetGroup(ctx context.Context, id string) (*Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupCols+` FROM _cy_groups WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

func (s *PG) CreateGroup(ctx context.Context, g Group) (*Group, error) {
	g.ID = uuid.NewString()
	if g.Issues == nil {
		g.Issues = []string{}
	}
	err := s.db.QueryRowContext(ctx, `INSERT INTO _cy_groups(id, owner_id, name, province, amphoe, tambon, lat, lng, issues, description, contact, image_url, is_hidden)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at`,
		g.ID, g.OwnerID, g.Name, g.Province, g.Amphoe, g.Tambon, g.Coordinates.Lat, g.Coordinates.Lng,
		pq.Array(g.Issues), g.Description, g.Contact, g.ImageURL, g.Hidden,
	).Scan(&g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	logger.L().Info("db_group_created", "id", g.ID, "owner", g.OwnerID)
	return &g, nil
}

func (s *PG) UpdateGroup(ctx context.Context, id string, g Group) (*Group, error) {
	if g.Issues == nil {
		g.Issues = []string{}
	}
	out, err := scanGroup(s.db.QueryRowContext(ctx, `UPDATE _cy_groups SET name=$2, province=$3, amphoe=$4, tambon=$5, lat=$6, lng=$7, issues=$8, description=$9, contact=$10, image_url=$11
        WHERE id=$1
        RETURNING `+groupCols,
		id, g.Name, g.Province, g.Amphoe, g.Tambon, g.Coordinates.Lat, g.Coordinates.Lng,
		pq.Array(g.Issues), g.Description, g.Contact, g.ImageURL,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return &out, nil
}

func (s *PG) exec1(ctx context.Context, op, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PG) DeleteGroup(ctx context.Context, id string) error {
	return s.exec1(ctx, "delete group", `DELETE FROM _cy_groups WHERE id=$1`, id)
}

func (s *PG) SetGroupHidden(ctx context.Context, id string, hidden bool) error {
	return s.exec1(ctx, "set group hidden", `UPDATE _cy_groups SET is_hidden=$2 WHERE id=$1`, id, hidden)
}

const activityCols = `id, owner_id, group_id, title, date, location, status, image_url, group_name, description, created_at`

func (s *PG) queryActivities(ctx context.Context, q string, args ...any) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	out := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		var status string
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.GroupID, &a.Title, &a.Date, &a.Location, &status,
			&a.ImageURL, &a.GroupName, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = ActivityStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PG) ListActivities(ctx context.Context) ([]Activity, error) {
	return s.queryActivities(ctx, `SELECT `+activityCols+` FROM _cy_activities ORDER BY date ASC, id`)
}

func (s *PG) ListGroupActivities(ctx context.Context, groupName string) ([]Activity, error) {
	return s.queryActivities(ctx, `SELECT `+activityCols+` FROM _cy_activities WHERE group_name=$1 ORDER BY date ASC, id`, groupName)
}

const projectCols = `id, owner_id, group_id, activity_ids, title, location, date_label, category, project_status, description, full_content, image, volunteers, beneficiaries, created_at`

func scanProject(r scanner) (Project, error) {
	var p Project
	err := r.Scan(&p.ID, &p.OwnerID, &p.GroupID, pq.Array(&p.ActivityIDs), &p.Title, &p.Location, &p.Date,
		&p.Category, &p.ProjectStatus, &p.Description, &p.FullContent, &p.Image,
		&p.Stats.Volunteers, &p.Stats.Beneficiaries, &p.CreatedAt)
	return p, err
}

func (s *PG) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectCols+` FROM _cy_projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	out := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PG) GetProject(ctx context.Context, id string) (*Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectCols+` FROM _cy_projects WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// 文档注释：写入演示数据（已存在的 id 跳过）
// 背景：cmd/seed 使用；与 Memory 共用 SeedData，保证两种模式下演示内容一致。
func (s *PG) Seed(ctx context.Context, groups []Group, activities []Activity, projects []Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, g := range groups {
		if _, err := tx.ExecContext(ctx, `INSERT INTO _cy_groups(id, owner_id, name, province, amphoe, tambon, lat, lng, issues, description, contact, image_url, created_at, is_hidden)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
            ON CONFLICT (id) DO NOTHING`,
			g.ID, g.OwnerID, g.Name, g.Province, g.Amphoe, g.Tambon, g.Coordinates.Lat, g.Coordinates.Lng,
			pq.Array(g.Issues), g.Description, g.Contact, g.ImageURL, g.CreatedAt, g.Hidden); err != nil {
			return fmt.Errorf("seed group %s: %w", g.ID, err)
		}
	}
	for _, a := range activities {
		if _, err := tx.ExecContext(ctx, `INSERT INTO _cy_activities(id, owner_id, group_id, title, date, location, status, image_url, group_name, description, created_at)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
            ON CONFLICT (id) DO NOTHING`,
			a.ID, a.OwnerID, a.GroupID, a.Title, a.Date, a.Location, string(a.Status), a.ImageURL, a.GroupName, a.Description, a.CreatedAt); err != nil {
			return fmt.Errorf("seed activity %s: %w", a.ID, err)
		}
	}
	for _, p := range projects {
		if p.ActivityIDs == nil {
			p.ActivityIDs = []string{}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _cy_projects(id, owner_id, group_id, activity_ids, title, location, date_label, category, project_status, description, full_content, image, volunteers, beneficiaries, created_at)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
            ON CONFLICT (id) DO NOTHING`,
			p.ID, p.OwnerID, p.GroupID, pq.Array(p.ActivityIDs), p.Title, p.Location, p.Date, p.Category, p.ProjectStatus,
			p.Description, p.FullContent, p.Image, p.Stats.Volunteers, p.Stats.Beneficiaries, p.CreatedAt); err != nil {
			return fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_seed_ok", "groups", len(groups), "activities", len(activities), "projects", len(projects))
	return nil
}
