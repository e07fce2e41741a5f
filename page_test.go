package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestRenderHTMLEmbedsChartAndHovers(t *testing.T) {
	groups := []Group{{Key: "Anna", Points: []Point{{Value: 3, Hover: "game </script> 1"}, {Value: 7, Hover: "game 2"}}}}
	opts := defaultRenderOptions()
	opts.Title = "Goals & Misses"

	var buf bytes.Buffer
	if err := renderHTML(&buf, groups, summarizeGroups(groups, quantileLinear), opts); err != nil {
		t.Fatalf("renderHTML error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<title>Goals &amp; Misses</title>") {
		t.Fatalf("title not escaped into head:\n%s", out)
	}
	if !strings.Contains(out, `<div class="chart"><svg`) {
		t.Fatalf("svg not embedded verbatim")
	}
	if strings.Count(out, "<circle") != 2 {
		t.Fatalf("expected 2 circles, got %d", strings.Count(out, "<circle"))
	}
	if !strings.Contains(out, `"game 2"`) {
		t.Fatalf("hover labels missing:\n%s", out)
	}
	if strings.Count(out, "</script>") != 1 {
		t.Fatalf("hover text broke out of the script block:\n%s", out)
	}
	var svg bytes.Buffer
	points, err := renderSVG(&svg, groups, summarizeGroups(groups, quantileLinear), opts)
	if err != nil {
		t.Fatalf("renderSVG error: %v", err)
	}
	want := fmt.Sprintf(`{"x":%d,"y":%d,"label":"game 2"}`, points[1].X-5, points[1].Y-10)
	if !strings.Contains(out, want) {
		t.Fatalf("expected hover %s in page:\n%s", want, out)
	}
}

func TestRenderHTMLPropagatesRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := renderHTML(&buf, nil, nil, defaultRenderOptions()); err == nil {
		t.Fatalf("expected error for empty chart")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written on error, got %q", buf.String())
	}
}
