package matcher

import (
	"commonyouth/internal/boundary"
	"commonyouth/internal/store"
)

// 文档注释：省份标签 → 该省组织
// 背景：每次渲染由当前组织列表重新构建，渲染结束即丢弃。
// 约束：键为组织记录上的原始标签（归一化后为空的跳过）；键序为首次出现顺序，保证匹配与并列裁决可复现。
type ProvinceIndex struct {
	labels []string
	groups map[string][]store.Group
}

func NewProvinceIndex(groups []store.Group) *ProvinceIndex {
	idx := &ProvinceIndex{groups: make(map[string][]store.Group)}
	for _, g := range groups {
		if Normalize(g.Province) == "" {
			continue
		}
		if _, ok := idx.groups[g.Province]; !ok {
			idx.labels = append(idx.labels, g.Province)
		}
		idx.groups[g.Province] = append(idx.groups[g.Province], g)
	}
	return idx
}

// Labels：返回键的副本
func (p *ProvinceIndex) Labels() []string { return append([]string(nil), p.labels...) }

func (p *ProvinceIndex) Groups(label string) []store.Group { return p.groups[label] }

func (p *ProvinceIndex) Len() int { return len(p.labels) }

// MatchResult：单个要素的匹配结果；OK 时 Label 必为索引中的键
type MatchResult struct {
	Name  string
	Label string
	Kind  Kind
	OK    bool
}

// MatchFeatures：按要素顺序逐一匹配，结果与 features 一一对应
func MatchFeatures(features []boundary.Feature, idx *ProvinceIndex) []MatchResult {
	labels := idx.Labels()
	out := make([]MatchResult, len(features))
	for i := range features {
		name := ResolveDisplayName(features[i].Properties)
		label, kind := Match(name, labels)
		out[i] = MatchResult{Name: name, Label: label, Kind: kind, OK: kind != KindNone}
	}
	return out
}
