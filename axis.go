package main

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceTicks returns roughly n ticks with 1/2/2.5/5 steps that cover [min, max].
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	// one decimal more than the step needs, so 2.5 steps keep their half
	scale := math.Pow(10, math.Max(0, 1-math.Floor(math.Log10(bestStep))))

	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := start + float64(i)*bestStep
		if v > end+bestStep/2 {
			break
		}
		v = math.Round(v*scale) / scale
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// xDomain picks the value range of the x axis. An explicit [xMin, xMax]
// wins; otherwise the range is anchored at min(0, data min) and widened to
// the surrounding nice ticks.
func xDomain(summaries []GroupSummary, xMin, xMax float64, tickCount int) (chart.ContinuousRange, []chart.Tick) {
	if xMin != 0 || xMax != 0 {
		return chart.ContinuousRange{Min: xMin, Max: xMax}, niceTicksWithin(xMin, xMax, tickCount)
	}
	lo, hi := 0.0, 0.0
	for _, s := range summaries {
		lo = math.Min(lo, s.Box.Min)
		hi = math.Max(hi, s.Box.Max)
	}
	ticks := niceTicks(lo, hi, tickCount)
	if len(ticks) < 2 {
		return chart.ContinuousRange{Min: lo, Max: lo + 1}, ticks
	}
	return chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}, ticks
}

// niceTicksWithin drops ticks outside a fixed domain.
func niceTicksWithin(min, max float64, n int) []chart.Tick {
	var out []chart.Tick
	for _, t := range niceTicks(min, max, n) {
		if t.Value >= min-1e-9 && t.Value <= max+1e-9 {
			out = append(out, t)
		}
	}
	return out
}
