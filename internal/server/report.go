package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"riverwalk/internal/store"
	"riverwalk/internal/survey"
)

// reportTmpl is the printable survey report. Charts are drawn client-side;
// the page flips window.__chartsReady once the last one is on screen, which
// is the readiness signal the renderer polls for.
var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>River Study Report &mdash; {{.Walk}}</title>
<style>
body { font-family: Georgia, serif; margin: 2em; }
h1 { border-bottom: 2px solid #2b5d8a; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.chart { margin: 1em 0; page-break-inside: avoid; }
</style>
</head>
<body>
<h1>River Study Report: {{.Walk}}</h1>
<table>
<tr><th>Site</th><th>Width (m)</th><th>Mean depth (m)</th><th>Max depth (m)</th><th>Area (m&sup2;)</th></tr>
{{range .Sites}}<tr><td>{{.Name}}</td><td>{{f2 .Width}}</td><td>{{f2 .MeanDepth}}</td><td>{{f2 .MaxSoundedDepth}}</td><td>{{f2 .Area}}</td></tr>
{{end}}</table>
{{range $i, $site := .Sites}}
<div class="chart" id="chart-{{$i}}"><h2>{{$site.Name}}</h2></div>
{{end}}
<script>
const sites = {{.SitesJSON}};
function drawSite(i, site) {
	const w = 480, h = 180, pad = 20;
	const maxDepth = Math.max(...site.soundings.map(s => s.depth), 0.1);
	const sx = d => pad + (d / site.width) * (w - 2 * pad);
	const sy = d => pad + (d / maxDepth) * (h - 2 * pad);
	let points = "M " + sx(0) + " " + sy(0);
	for (const s of site.soundings) {
		points += " L " + sx(s.distance) + " " + sy(s.depth);
	}
	points += " L " + sx(site.width) + " " + sy(0);
	const svg = '<svg width="' + w + '" height="' + h + '">' +
		'<line x1="' + sx(0) + '" y1="' + sy(0) + '" x2="' + sx(site.width) + '" y2="' + sy(0) + '" stroke="#7ab" stroke-width="2"/>' +
		'<path d="' + points + '" fill="#bcd9f0" stroke="#2b5d8a" stroke-width="2"/>' +
		'</svg>';
	document.getElementById("chart-" + i).insertAdjacentHTML("beforeend", svg);
}
requestAnimationFrame(() => {
	sites.forEach((site, i) => drawSite(i, site));
	window.__chartsReady = true;
});
</script>
</body>
</html>
`))

type reportData struct {
	Walk      string
	Sites     []survey.Site
	SitesJSON []survey.Site // serialized into the inline script
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	walk := r.PathValue("walk")
	sv, err := s.store.Survey(r.Context(), walk)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no survey for walk "+walk, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportTmpl.Execute(w, reportData{Walk: sv.Walk, Sites: sv.Sites, SitesJSON: sv.Sites}); err != nil {
		s.log.Warn("report template failed mid-stream")
	}
}
