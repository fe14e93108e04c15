// 包 location：泰国 府(จังหวัด)/县(อำเภอ)/区(ตำบล) 三级地名目录与坐标回退
package location

import (
	"encoding/json"
	"fmt"
	"strings"
)

// 曼谷，未知府名时的默认坐标
var Bangkok = Coordinates{Lat: 13.7563, Lng: 100.5018}

// 数据源不带府级坐标，以下府使用固定坐标
var provinceFallback = map[string]Coordinates{
	"กรุงเทพมหานคร": Bangkok,
	"เชียงใหม่":     {Lat: 18.7883, Lng: 98.9853},
	"ขอนแก่น":       {Lat: 16.4322, Lng: 102.8236},
	"ภูเก็ต":        {Lat: 7.8804, Lng: 98.3923},
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }

type Tambon struct {
	Name        string      `json:"name"`
	ZipCode     int         `json:"zipCode,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Amphoe struct {
	Name    string   `json:"name"`
	Tambons []Tambon `json:"tambons"`
}

type Province struct {
	Name    string   `json:"name"`
	NameEN  string   `json:"nameEn,omitempty"`
	Amphoes []Amphoe `json:"amphoes"`
}

// kongvut/thai-province-data 的 province_with_amphure_tambon.json 结构
type rawTambon struct {
	NameTH  string   `json:"name_th"`
	ZipCode int      `json:"zip_code"`
	Lat     *float64 `json:"lat"`
	Long    *float64 `json:"long"`
}

type rawAmphoe struct {
	NameTH string      `json:"name_th"`
	Tambon []rawTambon `json:"tambon"`
}

type rawProvince struct {
	NameTH  string      `json:"name_th"`
	NameEN  string      `json:"name_en"`
	Amphure []rawAmphoe `json:"amphure"`
}

// Catalog：只读目录，加载后不再修改
type Catalog struct {
	provinces []Province
	byName    map[string]int
}

// Parse：解析 kongvut JSON；空数组视为错误
func Parse(b []byte) (*Catalog, error) {
	var raw []rawProvince
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse location data: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse location data: no provinces")
	}
	c := &Catalog{byName: make(map[string]int, len(raw))}
	for _, p := range raw {
		prov := Province{Name: strings.TrimSpace(p.NameTH), NameEN: strings.TrimSpace(p.NameEN)}
		for _, a := range p.Amphure {
			am := Amphoe{Name: strings.TrimSpace(a.NameTH), Tambons: make([]Tambon, 0, len(a.Tambon))}
			for _, t := range a.Tambon {
				tb := Tambon{Name: strings.TrimSpace(t.NameTH), ZipCode: t.ZipCode}
				if t.Lat != nil && t.Long != nil {
					tb.Coordinates = Coordinates{Lat: *t.Lat, Lng: *t.Long}
				}
				am.Tambons = append(am.Tambons, tb)
			}
			prov.Amphoes = append(prov.Amphoes, am)
		}
		if _, dup := c.byName[prov.Name]; !dup {
			c.byName[prov.Name] = len(c.provinces)
		}
		c.provinces = append(c.provinces, prov)
	}
	return c, nil
}

func (c *Catalog) province(name string) *Province {
	if c == nil {
		return nil
	}
	i, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return nil
	}
	return &c.provinces[i]
}

func (p *Province) amphoe(name string) *Amphoe {
	name = strings.TrimSpace(name)
	for i := range p.Amphoes {
		if p.Amphoes[i].Name == name {
			return &p.Amphoes[i]
		}
	}
	return nil
}

// Provinces：府名列表（数据源顺序）
func (c *Catalog) Provinces() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.provinces))
	for i, p := range c.provinces {
		out[i] = p.Name
	}
	return out
}

// EnglishName：府的英文名，未知时返回空
func (c *Catalog) EnglishName(province string) string {
	if p := c.province(province); p != nil {
		return p.NameEN
	}
	return ""
}

// Amphoes：府下的县名列表；府不存在时返回 nil
func (c *Catalog) Amphoes(province string) []string {
	p := c.province(province)
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Amphoes))
	for i, a := range p.Amphoes {
		out[i] = a.Name
	}
	return out
}

// Tambons：县下的区列表（带坐标）
func (c *Catalog) Tambons(province, amphoe string) []Tambon {
	p := c.province(province)
	if p == nil {
		return nil
	}
	a := p.amphoe(amphoe)
	if a == nil {
		return nil
	}
	return append([]Tambon(nil), a.Tambons...)
}

func (a *Amphoe) center() Coordinates {
	for _, t := range a.Tambons {
		if !t.Coordinates.IsZero() {
			return t.Coordinates
		}
	}
	return Coordinates{}
}

// 文档注释：由府/县/区名称推出地图坐标
// 背景：登记表单只选地名，不要求用户输入经纬度。
// 约束：未知府名返回曼谷；府坐标依次取固定表、第一个有坐标的县；县坐标取第一个有坐标的区；
// 区名命中且带坐标时覆盖县坐标。未知的县或区名保持上一级结果。
func (c *Catalog) Coordinates(province, amphoe, tambon string) Coordinates {
	p := c.province(province)
	if p == nil {
		return Bangkok
	}
	out, ok := provinceFallback[p.Name]
	if !ok {
		for i := range p.Amphoes {
			if cc := p.Amphoes[i].center(); !cc.IsZero() {
				out = cc
				break
			}
		}
	}
	if strings.TrimSpace(amphoe) == "" {
		return out
	}
	a := p.amphoe(amphoe)
	if a == nil {
		return out
	}
	if cc := a.center(); !cc.IsZero() {
		out = cc
	}
	if t := strings.TrimSpace(tambon); t != "" {
		for _, tb := range a.Tambons {
			if tb.Name == t && !tb.Coordinates.IsZero() {
				out = tb.Coordinates
				break
			}
		}
	}
	return out
}
