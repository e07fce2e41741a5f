package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// whiskerFactor is the Tukey fence multiplier applied to the IQR.
const whiskerFactor = 1.5

// BoxStats is the five-number summary of one sample set plus the whisker
// bounds and the values that fall outside them.
type BoxStats struct {
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	IQR          float64   `json:"iqr"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Max          float64   `json:"max"`
	Outliers     []float64 `json:"outliers"`
}

type quantileMethod string

const (
	// quantileLinear interpolates at q*(n-1), the convention d3.quantile uses.
	quantileLinear quantileMethod = "linear"
	// quantileR8 is the median-unbiased estimator of go-moremath.
	quantileR8 quantileMethod = "r8"
)

func parseQuantileMethod(s string) (quantileMethod, error) {
	switch quantileMethod(s) {
	case "", quantileLinear:
		return quantileLinear, nil
	case quantileR8:
		return quantileR8, nil
	}
	return "", fmt.Errorf("unknown quantile method %q (want linear or r8)", s)
}

func calculateBoxStats(samples []float64) BoxStats {
	return calculateBoxStatsWith(samples, quantileLinear)
}

// calculateBoxStatsWith never modifies samples. An empty sample set yields
// the zero BoxStats; callers are expected to pass at least one value.
func calculateBoxStatsWith(samples []float64, method quantileMethod) BoxStats {
	if len(samples) == 0 {
		return BoxStats{}
	}
	s := append([]float64(nil), samples...)
	sort.Float64s(s)
	n := len(s)

	quantile := func(q float64) float64 { return quantileSorted(s, q) }
	if method == quantileR8 {
		sample := stats.Sample{Xs: s, Sorted: true}
		quantile = sample.Quantile
	}

	st := BoxStats{
		Min:      s[0],
		Max:      s[n-1],
		Q1:       quantile(0.25),
		Median:   quantile(0.5),
		Q3:       quantile(0.75),
		Outliers: []float64{},
	}
	st.IQR = st.Q3 - st.Q1

	lowerFence := st.Q1 - whiskerFactor*st.IQR
	upperFence := st.Q3 + whiskerFactor*st.IQR

	lo := 0
	for lo < n && s[lo] < lowerFence {
		st.Outliers = append(st.Outliers, s[lo])
		lo++
	}
	if lo < n {
		st.LowerWhisker = s[lo]
	}

	hi := n - 1
	for hi >= 0 && s[hi] > upperFence {
		st.Outliers = append(st.Outliers, s[hi])
		hi--
	}
	if hi >= 0 {
		st.UpperWhisker = s[hi]
	}
	return st
}

// quantileSorted expects s sorted ascending and non-empty.
func quantileSorted(s []float64, q float64) float64 {
	n := len(s)
	if q <= 0 || n == 1 {
		return s[0]
	}
	if q >= 1 {
		return s[n-1]
	}
	h := q * float64(n-1)
	i := int(math.Floor(h))
	lo := s[i]
	if i+1 >= n {
		return lo
	}
	return lo + (h-float64(i))*(s[i+1]-lo)
}

// isOutlier reports whether v is drawn outside the whiskers of st.
func isOutlier(st BoxStats, v float64) bool {
	return v < st.LowerWhisker || v > st.UpperWhisker
}
