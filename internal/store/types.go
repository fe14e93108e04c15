// 包 store：组织目录的数据访问层（PostgreSQL / 内存演示数据 / Redis 读穿缓存）
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrForbidden = errors.New("store: forbidden")
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// 文档注释：青年组织记录
// 约束：Province 为自由文本（选择器选出或手填），与边界数据的省名不保证一致；Issues 保持录入顺序。
type Group struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"ownerId"`
	Name        string      `json:"name"`
	Province    string      `json:"province"`
	Amphoe      string      `json:"amphoe,omitempty"`
	Tambon      string      `json:"tambon,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Issues      []string    `json:"issues"`
	Description string      `json:"description"`
	Contact     string      `json:"contact"`
	ImageURL    string      `json:"imageUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	Hidden      bool        `json:"isHidden"`
}

type ActivityStatus string

const (
	StatusOpen        ActivityStatus = "Open"
	StatusClosingSoon ActivityStatus = "Closing Soon"
	StatusClosed      ActivityStatus = "Closed"
)

const (
	ProjectOngoing   = "ongoing"
	ProjectCompleted = "completed"
)

type Activity struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	GroupID     string         `json:"groupId"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Location    string         `json:"location"`
	Status      ActivityStatus `json:"status"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	GroupName   string         `json:"groupName"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ProjectStats struct {
	Volunteers    int    `json:"volunteers"`
	Beneficiaries string `json:"beneficiaries"`
}

type Project struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"ownerId"`
	GroupID       string       `json:"groupId,omitempty"`
	ActivityIDs   []string     `json:"activityIds,omitempty"`
	Title         string       `json:"title"`
	Location      string       `json:"location"`
	Date          string       `json:"date"`
	Category      string       `json:"category"`
	ProjectStatus string       `json:"projectStatus"`
	Description   string       `json:"description"`
	FullContent   string       `json:"fullContent,omitempty"`
	Image         string       `json:"image"`
	Stats         ProjectStats `json:"stats"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// 文档注释：组织目录接口
// 背景：HTTP 层与渲染层只依赖该接口；PG、Memory 与 Cached 三种实现可互换。
// 约束：未命中返回 ErrNotFound；组织与项目按创建时间倒序，活动按日期升序；includeHidden=false 时不返回隐藏记录。
type Directory interface {
	ListGroups(ctx context.Context, includeHidden bool) ([]Group, error)
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]Group, error)
	GetGroup(ctx context.Context, id string) (*Group, error)
	CreateGroup(ctx context.Context, g Group) (*Group, error)
	UpdateGroup(ctx context.Context, id string, g Group) (*Group, error)
	DeleteGroup(ctx context.Context, id string) error
	SetGroupHidden(ctx context.Context, id string, hidden bool) error
	ListActivities(ctx context.Context) ([]Activity, error)
	ListGroupActivities(ctx context.Context, groupName string) ([]Activity, error)
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
}

// CheckOwner：仅所有者或管理员可修改
func CheckOwner(g *Group, uid string, admin bool) error {
	if admin || (uid != "" && g.OwnerID == uid) {
		return nil
	}
	return ErrForbidden
}

// mergeEditable：更新时只覆盖可编辑字段，ID/所有者/创建时间/隐藏状态保持不变
func mergeEditable(dst *Group, src Group) {
	dst.Name = src.Name
	dst.Province = src.Province
	dst.Amphoe = src.Amphoe
	dst.Tambon = src.Tambon
	dst.Coordinates = src.Coordinates
	dst.Issues = append([]string(nil), src.Issues...)
	dst.Description = src.Description
	dst.Contact = src.Contact
	dst.ImageURL = src.ImageURL
}
