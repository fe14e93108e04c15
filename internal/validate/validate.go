// 包 validate：组织表单校验与输入清理
package validate

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"commonyouth/internal/store"
)

const (
	MsgNameRequired        = "กรุณาระบุชื่อกลุ่ม"
	MsgDescriptionRequired = "กรุณาระบุรายละเอียดของกลุ่ม"
	MsgDescriptionShort    = "รายละเอียดสั้นเกินไป (อย่างน้อย 10 ตัวอักษร)"
	MsgIssuesRequired      = "กรุณาเลือกประเด็นที่ขับเคลื่อนอย่างน้อย 1 ข้อ"
	MsgContactRequired     = "กรุณาระบุอีเมลติดต่อ"
	MsgContactInvalid      = "รูปแบบอีเมลไม่ถูกต้อง"
	MsgProvinceRequired    = "กรุณาเลือกจังหวัด"
	MsgCoordinatesInvalid  = "พิกัดไม่ถูกต้อง"
	MsgImageURLInvalid     = "ลิงก์รูปภาพต้องขึ้นต้นด้วย http หรือ https"
)

const minDescriptionRunes = 10

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors：字段 → 提示文案；为空表示通过
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err：无错误时返回 nil，便于 if err := ...; err != nil 写法
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Email(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

func Coordinates(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lng) && lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// URL：仅接受 http/https 绝对地址
func URL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Clean：去首尾空白、去掉空议题与重复议题（保留首次出现顺序）
func Clean(g store.Group) store.Group {
	g.Name = strings.TrimSpace(g.Name)
	g.Province = strings.TrimSpace(g.Province)
	g.Amphoe = strings.TrimSpace(g.Amphoe)
	g.Tambon = strings.TrimSpace(g.Tambon)
	g.Description = strings.TrimSpace(g.Description)
	g.Contact = strings.TrimSpace(g.Contact)
	g.ImageURL = strings.TrimSpace(g.ImageURL)
	seen := make(map[string]bool, len(g.Issues))
	issues := make([]string, 0, len(g.Issues))
	for _, is := range g.Issues {
		is = strings.TrimSpace(is)
		if is == "" || seen[is] {
			continue
		}
		seen[is] = true
		issues = append(issues, is)
	}
	g.Issues = issues
	return g
}

// 文档注释：校验组织表单（调用前应先 Clean）
// 约束：文案与登记页一致；描述长度按字符（rune）计算。
func Group(g store.Group) Errors {
	errs := Errors{}
	if strings.TrimSpace(g.Name) == "" {
		errs["name"] = MsgNameRequired
	}
	if strings.TrimSpace(g.Province) == "" {
		errs["province"] = MsgProvinceRequired
	}
	if strings.TrimSpace(g.Description) == "" {
		errs["description"] = MsgDescriptionRequired
	} else if utf8.RuneCountInString(g.Description) < minDescriptionRunes {
		errs["description"] = MsgDescriptionShort
	}
	if len(g.Issues) == 0 {
		errs["issues"] = MsgIssuesRequired
	}
	if strings.TrimSpace(g.Contact) == "" {
		errs["contact"] = MsgContactRequired
	} else if !Email(g.Contact) {
		errs["contact"] = MsgContactInvalid
	}
	if !Coordinates(g.Coordinates.Lat, g.Coordinates.Lng) {
		errs["coordinates"] = MsgCoordinatesInvalid
	}
	if g.ImageURL != "" && !URL(g.ImageURL) {
		errs["imageUrl"] = MsgImageURLInvalid
	}
	return errs
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._\- ]`)

// SanitizeFileName：去掉路径穿越与分隔符，非安全字符替换为下划线，最长 255
func SanitizeFileName(name string) string {
	s := strings.ReplaceAll(name, "..", "")
	s = strings.NewReplacer("/", "", `\`, "").Replace(s)
	s = unsafeFileChars.ReplaceAllString(s, "_")
	if len(s) > 255 {
		s = s[:255]
	}
	if strings.HasPrefix(s, ".") {
		s = "_" + s
	}
	if s == "" {
		return "unnamed_file"
	}
	return s
}

// TruncateText：按字符截断，ellipsis 为 true 时追加 "..."
func TruncateText(s string, max int, ellipsis bool) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	out := string(r[:max])
	if ellipsis {
		out += "..."
	}
	return out
}
