package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
)

type PGTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	pg   *PG
}

func (s *PGTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)
	s.pg = AttachDB(s.db)
}

func (s *PGTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

var groupColumns = []string{"id", "owner_id", "name", "province", "amphoe", "tambon", "lat", "lng", "issues", "description", "contact", "image_url", "created_at", "is_hidden"}

func (s *PGTestSuite) TestListGroupsVisibleOnly() {
	now := time.Now()
	s.mock.ExpectQuery(`SELECT .* FROM _cy_groups WHERE is_hidden = FALSE ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(groupColumns).
			AddRow("1", "admin", "Chiang Mai Urban Green", "เชียงใหม่", "", "", 18.7883, 98.9853, "{การพัฒนาเมือง,ความยุติธรรมทางสภาพอากาศ}", "d", "c@x.org", "", now, false))

	out, err := s.pg.ListGroups(context.Background(), false)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal([]string{"การพัฒนาเมือง", "ความยุติธรรมทางสภาพอากาศ"}, out[0].Issues)
	s.Equal(18.7883, out[0].Coordinates.Lat)
}

func (s *PGTestSuite) TestListGroupsIncludeHidden() {
	s.mock.ExpectQuery(`SELECT .* FROM _cy_groups ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(groupColumns))

	out, err := s.pg.ListGroups(context.Background(), true)
	s.NoError(err)
	s.Empty(out)
}

func (s *PGTestSuite) TestGetGroupNotFound() {
	s.mock.ExpectQuery(`SELECT .* FROM _cy_groups WHERE id=\$1`).
		WithArgs("x").
		WillReturnError(sql.ErrNoRows)

	_, err := s.pg.GetGroup(context.Background(), "x")
	s.ErrorIs(err, ErrNotFound)
}

func (s *PGTestSuite) TestCreateGroupAssignsID() {
	now := time.Now()
	s.mock.ExpectQuery(`INSERT INTO _cy_groups`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	g, err := s.pg.CreateGroup(context.Background(), Group{OwnerID: "u1", Name: "n"})
	s.Require().NoError(err)
	s.NotEmpty(g.ID)
	s.Equal(now, g.CreatedAt)
	s.NotNil(g.Issues)
}

// otherThan：匹配任意非空且不等于给定值的字符串参数
type otherThan string

func (o otherThan) Match(v driver.Value) bool {
	str, ok := v.(string)
	return ok && str != "" && str != string(o)
}

func (s *PGTestSuite) TestCreateGroupIgnoresClientID() {
	now := time.Now()
	anyArg := sqlmock.AnyArg()
	s.mock.ExpectQuery(`INSERT INTO _cy_groups`).
		WithArgs(otherThan("1"), "u1", "n", anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	g, err := s.pg.CreateGroup(context.Background(), Group{ID: "1", OwnerID: "u1", Name: "n"})
	s.Require().NoError(err)
	s.NotEqual("1", g.ID)
	s.NotEmpty(g.ID)
}

func (s *PGTestSuite) TestGroupActivitiesEmptyIsNotNil() {
	s.mock.ExpectQuery(`SELECT .* FROM _cy_activities WHERE group_name=\$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := s.pg.ListGroupActivities(context.Background(), "ghost")
	s.Require().NoError(err)
	s.NotNil(out)
	s.Empty(out)
}

func (s *PGTestSuite) TestDeleteMissingGroup() {
	s.mock.ExpectExec(`DELETE FROM _cy_groups WHERE id=\$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s.ErrorIs(s.pg.DeleteGroup(context.Background(), "gone"), ErrNotFound)
}

func (s *PGTestSuite) TestSetGroupHidden() {
	s.mock.ExpectExec(`UPDATE _cy_groups SET is_hidden=\$2 WHERE id=\$1`).
		WithArgs("1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.pg.SetGroupHidden(context.Background(), "1", true))
}

func (s *PGTestSuite) TestGetProject() {
	s.mock.ExpectQuery(`SELECT .* FROM _cy_projects WHERE id=\$1`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "group_id", "activity_ids", "title", "location", "date_label", "category", "project_status", "description", "full_content", "image", "volunteers", "beneficiaries", "created_at"}).
			AddRow("1", "admin", "1", "{101}", "t", "เชียงใหม่", "มกราคม 2024", "สิ่งแวดล้อม", "ongoing", "d", "", "img", 150, "5,000+", time.Now()))

	p, err := s.pg.GetProject(context.Background(), "1")
	s.Require().NoError(err)
	s.Equal([]string{"101"}, p.ActivityIDs)
	s.Equal(150, p.Stats.Volunteers)
}

func (s *PGTestSuite) TestSeedCommits() {
	groups, acts, projects := SeedData(time.Now())
	s.mock.ExpectBegin()
	for range groups {
		s.mock.ExpectExec(`INSERT INTO _cy_groups`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range acts {
		s.mock.ExpectExec(`INSERT INTO _cy_activities`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range projects {
		s.mock.ExpectExec(`INSERT INTO _cy_projects`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	s.mock.ExpectCommit()

	s.NoError(s.pg.Seed(context.Background(), groups, acts, projects))
}

func TestPGTestSuite(t *testing.T) {
	suite.Run(t, new(PGTestSuite))
}
