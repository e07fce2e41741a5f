package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// hoverLabel is already shifted by the hover offsets.
type hoverLabel struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type pageData struct {
	Title  string
	SVG    template.HTML
	Width  int
	Height int
	Hovers []hoverLabel
}

// Circles are emitted in plottedPoint order, so the i-th circle of the svg
// gets the i-th hover label.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 10px; font-family: sans-serif; }
.chart svg { width: {{.Width}}px; height: {{.Height}}px; }
.chart circle { cursor: default; }
</style>
</head>
<body>
<div class="chart">{{.SVG}}</div>
<script>
(function () {
  var hovers = {{.Hovers}};
  var svg = document.querySelector(".chart svg");
  var circles = svg.querySelectorAll("circle");
  circles.forEach(function (c, i) {
    var h = hovers[i];
    if (!h) { return; }
    c.addEventListener("mouseover", function () {
      var t = document.createElementNS("http://www.w3.org/2000/svg", "text");
      t.setAttribute("class", "hover-text");
      t.setAttribute("x", h.x);
      t.setAttribute("y", h.y);
      t.textContent = h.label;
      svg.appendChild(t);
    });
    c.addEventListener("mouseout", function () {
      svg.querySelectorAll("text.hover-text").forEach(function (t) { t.remove(); });
    });
  });
})();
</script>
</body>
</html>
`))

// renderHTML wraps the svg chart in a page that shows each point's hover
// text while the mouse is over it.
func renderHTML(w io.Writer, groups []Group, summaries []GroupSummary, opts RenderOptions) error {
	var svg bytes.Buffer
	points, err := renderSVG(&svg, groups, summaries, opts)
	if err != nil {
		return err
	}
	hovers := make([]hoverLabel, len(points))
	for i, p := range points {
		hovers[i] = hoverLabel{X: p.X + opts.HoverX, Y: p.Y + opts.HoverY, Label: p.Hover}
	}
	data := pageData{
		Title:  opts.Title,
		SVG:    template.HTML(svg.String()),
		Width:  opts.Width,
		Height: opts.Height,
		Hovers: hovers,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
