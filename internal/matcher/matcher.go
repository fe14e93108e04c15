// 包 matcher：边界要素省名与组织省份标签的对齐
//
// 两份数据独立维护：边界数据的名称字段键名随发布版本变化，泰文可能是预组合或分解形式，
// 且一方可能带行政后缀而另一方没有。这里只做“是否同一省”的判定，不修改任何输入。
package matcher

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind：匹配方式，用于指标统计
type Kind int

const (
	KindNone Kind = iota
	KindExact
	KindSubstring
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Normalize：NFC 组合并去掉首尾空白
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// 文档注释：将边界要素的原始名称对齐到已知省份标签
// 约束：先精确匹配（归一化后相等），再按 labels 顺序取第一个互为子串的标签；返回值总是 labels 中的原始字符串。
// 空名称与空标签不参与匹配，否则空串会成为所有标签的子串。
func Match(rawName string, labels []string) (string, Kind) {
	name := Normalize(rawName)
	if name == "" {
		return "", KindNone
	}
	normed := make([]string, len(labels))
	for i, l := range labels {
		normed[i] = Normalize(l)
		if normed[i] != "" && normed[i] == name {
			return l, KindExact
		}
	}
	for i, n := range normed {
		if n == "" {
			continue
		}
		if strings.Contains(name, n) || strings.Contains(n, name) {
			return labels[i], KindSubstring
		}
	}
	return "", KindNone
}

// MatchProvinceName：ok=false 表示该区域没有组织，是正常分支
func MatchProvinceName(rawName string, labels []string) (string, bool) {
	l, k := Match(rawName, labels)
	return l, k != KindNone
}

// 边界数据各版本使用过的名称键，按优先级排列
var nameKeys = []string{
	"name_th", "NAME_TH", "ADM1_TH", "PROV_NAMT", "pro_th",
	"province", "name", "NAME_1",
	"ADM1_EN", "name_en", "NAME_EN", "PROV_NAMEE",
}

// EnglishNameKeys：英文名称键，访客省份推荐用 GeoIP 英文名反查要素
var EnglishNameKeys = []string{"name_en", "NAME_EN", "ADM1_EN", "PROV_NAMEE", "NAME_1"}

// ResolveDisplayName：返回第一个非空名称；要素无可用名称时返回空串
func ResolveDisplayName(props map[string]any) string {
	for _, k := range nameKeys {
		if v, ok := props[k].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
