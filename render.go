package main

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"math/rand"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderOptions controls the geometry of the grouped box plot. Sizes are
// pixels; the defaults reproduce the classic 600x500 page layout.
type RenderOptions struct {
	Width       int
	Height      int
	Padding     int
	LabelWidth  int // left column reserved for category labels
	TitleMargin int
	Title       string

	XMin, XMax float64 // both zero selects a domain from the data
	XTicks     int

	WhiskerHeight int
	BoxHeight     int
	PointRadius   float64
	Jitter        int // max vertical jitter of a point, either direction

	// PointYOffset moves the jitter band off the box centre line. The
	// classic d3 layout draws points at boxY+4+[1..5], i.e. PointYOffset 4
	// with a one-sided jitter of 5; the default keeps points centred.
	PointYOffset int
	LabelX       int
	LabelYOffset int
	HoverX       int
	HoverY       int

	Seed int64
}

func defaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:         580,
		Height:        480,
		Padding:       30,
		LabelWidth:    120,
		TitleMargin:   25,
		Title:         "Goals Scored in Made-Up Basketball Season",
		XTicks:        10,
		WhiskerHeight: 10,
		BoxHeight:     20,
		PointRadius:   2,
		Jitter:        4,
		LabelX:        5,
		LabelYOffset:  4,
		HoverX:        -5,
		HoverY:        -10,
		Seed:          1,
	}
}

var errEmptyChart = errors.New("nothing to plot: no groups")

// plottedPoint is a data point as drawn, in drawing order.
type plottedPoint struct {
	X, Y  int
	Group int
	Class string
	Hover string
}

type chartLayout struct {
	left    int
	axisY   int
	gridTop int
	xRange  chart.ContinuousRange
	ticks   []chart.Tick
	boxYs   []int
}

func (l chartLayout) x(v float64) int {
	return l.left + l.xRange.Translate(v)
}

func (o RenderOptions) layout(summaries []GroupSummary) (chartLayout, error) {
	plotWidth := o.Width - o.Padding - o.LabelWidth
	if plotWidth <= 0 {
		return chartLayout{}, fmt.Errorf("chart width %d leaves no room after label column %d and padding %d", o.Width, o.LabelWidth, o.Padding)
	}
	axisY := o.Height - o.Padding
	if axisY <= o.TitleMargin {
		return chartLayout{}, fmt.Errorf("chart height %d leaves no room below the title", o.Height)
	}
	xr, ticks := xDomain(summaries, o.XMin, o.XMax, o.XTicks)
	if xr.Max <= xr.Min {
		return chartLayout{}, fmt.Errorf("invalid x domain [%g, %g]", xr.Min, xr.Max)
	}
	xr.Domain = plotWidth

	space := float64(axisY-o.TitleMargin) / float64(len(summaries)+1)
	boxYs := make([]int, len(summaries))
	for i := range summaries {
		boxYs[i] = int(math.Round(space*float64(i+1))) + o.TitleMargin
	}
	return chartLayout{
		left:    o.LabelWidth,
		axisY:   axisY,
		gridTop: o.TitleMargin + o.Padding - 3,
		xRange:  xr,
		ticks:   ticks,
		boxYs:   boxYs,
	}, nil
}

// renderSVG draws one box plot row per group, top to bottom in group order,
// and returns the points it placed.
func renderSVG(w io.Writer, groups []Group, summaries []GroupSummary, opts RenderOptions) ([]plottedPoint, error) {
	if len(groups) == 0 {
		return nil, errEmptyChart
	}
	if len(summaries) != len(groups) {
		return nil, fmt.Errorf("have %d summaries for %d groups", len(summaries), len(groups))
	}
	lay, err := opts.layout(summaries)
	if err != nil {
		return nil, err
	}
	r, err := chart.SVGWithCSS(chartCSS(len(groups)), "")(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("create svg renderer: %w", err)
	}

	chart.Draw.Box(r, chart.Box{Top: 0, Left: 0, Right: opts.Width, Bottom: opts.Height}, chart.Style{ClassName: "canvas"})
	drawXAxis(r, lay)
	chart.Draw.Text(r, html.EscapeString(opts.Title), opts.Width/2, opts.TitleMargin, chart.Style{ClassName: "title"})

	rng := rand.New(rand.NewSource(opts.Seed))
	var points []plottedPoint
	for i, g := range groups {
		boxY := lay.boxYs[i]
		drawBox(r, lay, summaries[i].Box, boxY, i, opts)
		points = append(points, drawPoints(r, lay, g, summaries[i].Box, boxY, i, opts, rng)...)
		chart.Draw.Text(r, html.EscapeString(g.Key), opts.LabelX, boxY+opts.LabelYOffset, chart.Style{ClassName: "category-label"})
	}

	if err := r.Save(w); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return points, nil
}

func drawXAxis(r chart.Renderer, lay chartLayout) {
	for _, t := range lay.ticks {
		x := lay.x(t.Value)
		strokeLine(r, "grid", x, lay.axisY, x, lay.gridTop)
	}
	strokeLine(r, "axis", lay.x(lay.xRange.Min), lay.axisY, lay.x(lay.xRange.Max), lay.axisY)
	for _, t := range lay.ticks {
		x := lay.x(t.Value)
		strokeLine(r, "axis", x, lay.axisY, x, lay.axisY+6)
		chart.Draw.Text(r, t.Label, x, lay.axisY+18, chart.Style{ClassName: "tick-label"})
	}
}

func drawBox(r chart.Renderer, lay chartLayout, st BoxStats, boxY, category int, opts RenderOptions) {
	lw, uw := lay.x(st.LowerWhisker), lay.x(st.UpperWhisker)
	halfW, halfB := opts.WhiskerHeight/2, opts.BoxHeight/2

	strokeLine(r, "whisker", lw, boxY-halfW, lw, boxY+halfW)
	strokeLine(r, "whisker", uw, boxY-halfW, uw, boxY+halfW)
	strokeLine(r, "whisker", lw, boxY, uw, boxY)

	chart.Draw.Box(r, chart.Box{
		Top:    boxY - halfB,
		Left:   lay.x(st.Q1),
		Right:  lay.x(st.Q3),
		Bottom: boxY + halfB,
	}, chart.Style{ClassName: fmt.Sprintf("box cat-%d", category)})

	m := lay.x(st.Median)
	strokeLine(r, "median", m, boxY-halfB, m, boxY+halfB)
}

func drawPoints(r chart.Renderer, lay chartLayout, g Group, st BoxStats, boxY, category int, opts RenderOptions, rng *rand.Rand) []plottedPoint {
	points := make([]plottedPoint, 0, len(g.Points))
	for _, p := range g.Points {
		class := "point"
		if isOutlier(st, p.Value) {
			class = "outlier"
		}
		pt := plottedPoint{
			X:     lay.x(p.Value),
			Y:     boxY + opts.PointYOffset + jitter(rng, opts.Jitter),
			Group: category,
			Class: class,
			Hover: p.Hover,
		}
		r.ResetStyle()
		r.SetClassName(fmt.Sprintf("%s cat-%d", class, category))
		r.Circle(opts.PointRadius, pt.X, pt.Y)
		points = append(points, pt)
	}
	return points
}

// jitter returns a nonzero offset in [-amount, -1] or [1, amount].
func jitter(rng *rand.Rand, amount int) int {
	if amount <= 0 {
		return 0
	}
	d := 1 + rng.Intn(amount)
	if rng.Intn(2) == 0 {
		return -d
	}
	return d
}

func strokeLine(r chart.Renderer, class string, x1, y1, x2, y2 int) {
	r.ResetStyle()
	r.SetClassName(class)
	r.MoveTo(x1, y1)
	r.LineTo(x2, y2)
	r.Stroke()
}

const baseChartCSS = `.canvas{fill:#ffffff;stroke:none}
.grid{stroke:#e5e5e5;stroke-width:1;fill:none}
.axis{stroke:#333333;stroke-width:1;fill:none}
.tick-label{fill:#333333;font:10px sans-serif;text-anchor:middle}
.title{fill:#333333;font:bold 14px sans-serif;text-anchor:middle}
.whisker{stroke:#000000;stroke-width:1;fill:none}
.box{stroke:#000000;stroke-width:1}
.median{stroke:#000000;stroke-width:2;fill:none}
.point{stroke:none;fill-opacity:0.8}
.outlier{stroke:#d00000;stroke-width:1}
.category-label{fill:#333333;font:12px sans-serif}
.hover-text{fill:#000000;font:10px sans-serif}
`

// chartCSS adds one fill rule per category on top of the base classes.
func chartCSS(categories int) string {
	var b strings.Builder
	b.WriteString(baseChartCSS)
	for i := 0; i < categories; i++ {
		fmt.Fprintf(&b, ".cat-%d{fill:%s}\n", i, chart.GetAlternateColor(i).String())
	}
	return b.String()
}
