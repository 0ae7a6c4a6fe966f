package web

import (
	"html/template"
	"strings"

	"safepicks/internal/badge"
	"safepicks/internal/util"
	"safepicks/internal/view"
)

// page is the template data for the index page.
type page struct {
	Title   string
	Date    string
	Prev    string
	Next    string
	Today   string
	Display view.Display
}

func newPage(d view.Display, cal *util.GameCalendar, today string) page {
	p := page{
		Title:   "NCAA Men’s Basketball — Top 5 Safest Winners",
		Date:    d.Date,
		Today:   today,
		Display: d,
	}
	if util.ValidDate(d.Date) {
		p.Prev = cal.Shift(d.Date, -1)
		p.Next = cal.Shift(d.Date, 1)
	}
	return p
}

func (p page) IsError() bool   { return p.Display.Kind == view.KindError }
func (p page) IsLoading() bool { return p.Display.Kind == view.KindLoading }
func (p page) IsEmpty() bool   { return p.Display.Kind == view.KindEmpty }

func badgeClass(c badge.Category) string {
	return strings.ToLower(c.String())
}

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"badgeClass": badgeClass,
}).Parse(indexHTML))

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 900px; margin: 40px auto; font-family: system-ui; }
label { display: block; margin: 16px 0; }
nav a { margin-right: 12px; }
.error { padding: 12px; background: #fee; border: 1px solid #f99; }
.notice { padding: 12px; color: #666; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th { text-align: left; border-bottom: 2px solid #ddd; padding: 10px; }
td { border-bottom: 1px solid #eee; padding: 10px; }
.badge { padding: 2px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; }
.badge.lock { background: #d1fae5; color: #065f46; }
.badge.strong { background: #dbeafe; color: #1e40af; }
.badge.lean { background: #fef3c7; color: #92400e; }
.badge.neutral { background: #f3f4f6; color: #6b7280; }
footer { margin-top: 16px; color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
<label>Date:&nbsp;<input type="date" name="day" value="{{.Date}}" onchange="this.form.submit()"></label>
</form>
<nav>
{{if .Prev}}<a href="/?day={{.Prev}}">&larr; {{.Prev}}</a>{{end}}
<a href="/?day={{.Today}}">Today</a>
<a href="/?day={{.Date}}">Refresh</a>
{{if .Next}}<a href="/?day={{.Next}}">{{.Next}} &rarr;</a>{{end}}
</nav>
{{if .IsError}}<div class="error">{{.Display.Message}}</div>
{{else if .IsEmpty}}<p class="notice">{{.Display.Message}}</p>
{{else}}
{{if .IsLoading}}<p class="notice">{{.Display.Message}}</p>{{end}}
<table>
<thead><tr><th>Matchup</th><th>Pick</th><th>Win Prob</th><th>Confidence</th></tr></thead>
<tbody>
{{range .Display.Rows}}<tr>
<td>{{.Matchup}}</td>
<td><b>{{.Pick}}</b></td>
<td>{{.WinProb}}</td>
<td>{{if .Badge.Label}}<span class="badge {{badgeClass .Badge}}">{{.Badge.Label}}</span>{{end}}</td>
</tr>
{{end}}</tbody>
</table>
{{end}}
<footer>Model: Elo + (optional) small home-court adjustment. “Safest” = highest predicted win probability.</footer>
</body>
</html>
`
