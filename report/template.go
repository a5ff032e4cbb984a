package report

import (
	"html/template"
	"strings"
)

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	// Entry details are markup produced by Reporter and the helpers in
	// markup.go, which escape every interpolated value.
	"html":   func(s string) template.HTML { return template.HTML(s) },
	"lower":  strings.ToLower,
	"imgsrc": func(b64 string) template.URL { return template.URL("data:image/png;base64," + b64) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; }
body.standard { background: #f5f5f5; color: #222; }
body.dark { background: #1e1e1e; color: #ddd; }
header { padding: 12px 20px; background: #3f51b5; color: #fff; }
.summary span { margin-right: 16px; }
.test { margin: 16px 20px; padding: 8px 12px; border-left: 4px solid #999; }
.test.pass { border-color: #4caf50; }
.test.fail, .test.fatal, .test.error { border-color: #f44336; }
.test.warning { border-color: #ffc107; }
.test.skip { border-color: #9e9e9e; }
table { width: 100%; border-collapse: collapse; }
td { vertical-align: top; padding: 4px 8px; border-bottom: 1px solid #ddd; }
td.status { width: 80px; font-weight: bold; }
td.time { width: 90px; }
img.media { max-width: 480px; display: block; margin-top: 6px; }
</style>
</head>
<body class="{{.Theme}}">
<header>
<h1>{{.Title}}</h1>
<div class="summary">
<span class="total">Tests: {{.Summary.Total}}</span>
{{range $status, $n := .Summary.Counts}}<span class="count {{lower $status}}">{{$status}}: {{$n}}</span>
{{end}}</div>
</header>
{{range .Tests}}<section class="test {{lower .Status.String}}" id="{{.ID}}">
<h2 class="name">{{.Name}}</h2>
<div class="meta"><span class="status">{{.Status}}</span> <span class="duration">{{.Duration}}</span></div>
<table>
{{range .Entries}}<tr class="entry {{lower .Status.String}}">
<td class="time">{{.Time.Format "15:04:05"}}</td>
<td class="status">{{.Status}}</td>
<td class="details">{{html .Details}}{{with .Media}}<img class="media" alt="{{.Title}}" title="{{.Title}}" src="{{imgsrc .Base64}}">{{end}}</td>
</tr>
{{end}}</table>
</section>
{{end}}</body>
</html>
`))
