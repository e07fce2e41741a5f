package main

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/aclements/go-moremath/stats"
)

// GroupSummary is the per-category result persisted and exported by the tool.
type GroupSummary struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	Box      BoxStats `json:"box"`
}

func summarizeGroup(g Group, method quantileMethod) GroupSummary {
	values := g.Values()
	sample := stats.Sample{Xs: values}
	return GroupSummary{
		Category: g.Key,
		Count:    len(values),
		Mean:     sample.Mean(),
		StdDev:   sample.StdDev(),
		Box:      calculateBoxStatsWith(values, method),
	}
}

// summarizeGroups keeps the order of groups. Each group is summarised on its
// own goroutine; they share nothing but the result slot they write.
func summarizeGroups(groups []Group, method quantileMethod) []GroupSummary {
	out := make([]GroupSummary, len(groups))
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = summarizeGroup(groups[i], method)
		}(i)
	}
	wg.Wait()
	for _, s := range out {
		debugf("box stats %q n=%d min=%g q1=%g median=%g q3=%g iqr=%g whiskers=[%g,%g] max=%g outliers=%v",
			s.Category, s.Count, s.Box.Min, s.Box.Q1, s.Box.Median, s.Box.Q3, s.Box.IQR,
			s.Box.LowerWhisker, s.Box.UpperWhisker, s.Box.Max, s.Box.Outliers)
	}
	return out
}

func writeSummaryJSON(w io.Writer, summaries []GroupSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
