// 包 icons：议题标签 → 图标资源的有限映射表
package icons

import "strings"

type Issue int

const (
	ClimateJustice Issue = iota + 1
	UrbanDevelopment
	IndigenousRights
	EducationReform
	GenderEquality
	DigitalRights
	ArtsCulture
)

// DefaultAsset：表外标签使用的通用图标
const DefaultAsset = "/icons/issue-default.svg"

type entry struct {
	issue Issue
	label string
	asset string
}

// 顺序即平台议题列表的展示顺序
var table = []entry{
	{ClimateJustice, "ความยุติธรรมทางสภาพอากาศ", "/icons/climate-justice.svg"},
	{UrbanDevelopment, "การพัฒนาเมือง", "/icons/urban-development.svg"},
	{IndigenousRights, "สิทธิชนเผ่าพื้นเมือง", "/icons/indigenous-rights.svg"},
	{EducationReform, "ปฏิรูปการศึกษา", "/icons/education-reform.svg"},
	{GenderEquality, "ความเท่าเทียมทางเพศ", "/icons/gender-equality.svg"},
	{DigitalRights, "สิทธิดิจิทัล", "/icons/digital-rights.svg"},
	{ArtsCulture, "ศิลปะและวัฒนธรรม", "/icons/arts-culture.svg"},
}

var byLabel = func() map[string]entry {
	m := make(map[string]entry, len(table))
	for _, e := range table {
		m[e.label] = e
	}
	return m
}()

// Lookup：标签去首尾空白后精确查表
func Lookup(tag string) (Issue, bool) {
	e, ok := byLabel[strings.TrimSpace(tag)]
	return e.issue, ok
}

// Asset：未知标签返回 DefaultAsset，不返回空路径
func Asset(tag string) string {
	if is, ok := Lookup(tag); ok {
		return is.Asset()
	}
	return DefaultAsset
}

func (i Issue) Label() string {
	if i < 1 || int(i) > len(table) {
		return ""
	}
	return table[i-1].label
}

func (i Issue) Asset() string {
	if i < 1 || int(i) > len(table) {
		return DefaultAsset
	}
	return table[i-1].asset
}

// Info：/issues 接口的输出项
type Info struct {
	Label string `json:"label"`
	Asset string `json:"icon"`
}

// All：按展示顺序返回全部议题
func All() []Info {
	out := make([]Info, len(table))
	for i := range table {
		is := Issue(i + 1)
		out[i] = Info{Label: is.Label(), Asset: is.Asset()}
	}
	return out
}
