package choropleth

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
)

const svgStyle = `.region{cursor:default;transition:fill-opacity .15s,stroke-width .15s}
a .region{cursor:pointer}
.region:hover{fill-opacity:0.95;stroke-width:1.5}
.region.selected:hover{stroke-width:2.5}
.icon{cursor:pointer;transition:transform .15s}
.icon:hover{transform:scale(1.2)}`

// 文档注释：把渲染计划写成可交互 SVG
// 背景：悬停由 CSS :hover 完成；点击通过超链接把 province 写回查询串，页面据此重新渲染。
// 约束：只有匹配到组织的区域与图标带链接，空区域不可点击；linkBase 已含查询串时以 & 追加。
func WriteSVG(w io.Writer, plan *Plan, linkBase string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" class="choropleth">`,
		plan.Width, plan.Height, plan.Width, plan.Height)
	bw.WriteString("<style>" + svgStyle + "</style>")

	bw.WriteString(`<g class="regions">`)
	for _, r := range plan.Regions {
		cls := "region " + r.Status
		if r.Hovered {
			cls += " hovered"
		}
		if r.Clickable {
			fmt.Fprintf(bw, `<a href="%s">`, attr(selectLink(linkBase, r.Label)))
		}
		fmt.Fprintf(bw, `<path d="%s" class="%s" data-province="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s" fill-rule="evenodd"><title>%s</title></path>`,
			r.Path, cls, attr(r.Label), r.Fill, fmtNum(r.FillOpacity), r.Stroke, fmtNum(r.StrokeWidth), attr(r.Name))
		if r.Clickable {
			bw.WriteString("</a>")
		}
	}
	bw.WriteString("</g>")

	if len(plan.Icons) > 0 {
		bw.WriteString(`<g class="icons">`)
		for _, ic := range plan.Icons {
			half := ic.Size / 2
			fmt.Fprintf(bw, `<a href="%s"><g transform="translate(%s,%s)"><g class="icon" data-province="%s"><image href="%s" x="%s" y="%s" width="%s" height="%s"/><title>%s</title></g></g></a>`,
				attr(selectLink(linkBase, ic.Label)), fmtNum(ic.X), fmtNum(ic.Y), attr(ic.Label), attr(ic.Asset),
				fmtNum(-half), fmtNum(-half), fmtNum(ic.Size), fmtNum(ic.Size), attr(iconTitle(ic)))
		}
		bw.WriteString("</g>")
	}
	bw.WriteString("</svg>")
	return bw.Flush()
}

func iconTitle(ic Icon) string {
	if ic.Issue == "" {
		return fmt.Sprintf("%s (%d)", ic.Label, ic.Groups)
	}
	return fmt.Sprintf("%s: %s (%d)", ic.Label, ic.Issue, ic.Groups)
}

func selectLink(base, label string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "province=" + url.QueryEscape(label)
}

func attr(s string) string { return html.EscapeString(s) }
