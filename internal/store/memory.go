package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory：进程内实现，DB_DISABLED=true 与测试使用；返回值均为副本
type Memory struct {
	mu         sync.RWMutex
	groups     []Group
	activities []Activity
	projects   []Project
	now        func() time.Time
}

// NewMemory：空目录
func NewMemory() *Memory { return &Memory{now: time.Now} }

// NewSeededMemory：载入演示数据
func NewSeededMemory() *Memory {
	m := NewMemory()
	m.groups, m.activities, m.projects = SeedData(m.now())
	return m
}

func cloneGroup(g Group) Group {
	g.Issues = append([]string(nil), g.Issues...)
	return g
}

func (m *Memory) ListGroups(ctx context.Context, includeHidden bool) ([]Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Group, 0, len(m.groups))
	for _, g := range m.groups {
		if g.Hidden && !includeHidden {
			continue
		}
		out = append(out, cloneGroup(g))
	}
	return out, nil
}

func (m *Memory) ListGroupsByOwner(ctx context.Context, ownerID string) ([]Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Group, 0)
	for _, g := range m.groups {
		if g.OwnerID == ownerID {
			out = append(out, cloneGroup(g))
		}
	}
	return out, nil
}

func (m *Memory) indexOf(id string) int {
	for i := range m.groups {
		if m.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) GetGroup(ctx context.Context, id string) (*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	g := cloneGroup(m.groups[i])
	return &g, nil
}

// CreateGroup：新记录置于列表首位
func (m *Memory) CreateGroup(ctx context.Context, g Group) (*Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g = cloneGroup(g)
	g.ID = uuid.NewString()
	g.CreatedAt = m.now()
	m.groups = append([]Group{g}, m.groups...)
	out := cloneGroup(g)
	return &out, nil
}

func (m *Memory) UpdateGroup(ctx context.Context, id string, g Group) (*Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	mergeEditable(&m.groups[i], g)
	out := cloneGroup(m.groups[i])
	return &out, nil
}

func (m *Memory) DeleteGroup(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.groups = append(m.groups[:i:i], m.groups[i+1:]...)
	return nil
}

func (m *Memory) SetGroupHidden(ctx context.Context, id string, hidden bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.groups[i].Hidden = hidden
	return nil
}

func (m *Memory) ListActivities(ctx context.Context) ([]Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append(make([]Activity, 0, len(m.activities)), m.activities...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) ListGroupActivities(ctx context.Context, groupName string) ([]Activity, error) {
	all, _ := m.ListActivities(ctx)
	out := make([]Activity, 0)
	for _, a := range all {
		if a.GroupName == groupName {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) ListProjects(ctx context.Context) ([]Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Project, len(m.projects))
	copy(out, m.projects)
	return out, nil
}

func (m *Memory) GetProject(ctx context.Context, id string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.projects {
		if p.ID == id {
			p.ActivityIDs = append([]string(nil), p.ActivityIDs...)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}
