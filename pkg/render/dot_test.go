package render

import (
	"strings"
	"testing"

	"github.com/refnetlabs/refnet/pkg/referral"
)

func testGraph(t *testing.T) *referral.Graph {
	t.Helper()
	g := referral.New()
	for _, u := range []string{"a", "b", "c"} {
		g.Register(u)
	}
	for _, e := range [][2]string{{"a", "b"}, {"b", "c"}} {
		if ok, err := g.Connect(e[0], e[1]); err != nil || !ok {
			t.Fatalf("Connect(%s, %s) = %v, %v", e[0], e[1], ok, err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, Options{})

	if !strings.HasPrefix(dot, "digraph referrals {") {
		t.Error("DOT output should start with digraph declaration")
	}
	for _, want := range []string{`"a"`, `"b"`, `"c"`, `"a" -> "b";`, `"b" -> "c";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %s", want)
		}
	}

	// Root users get a bold outline, referred users don't
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"a" [`) && !strings.Contains(line, "penwidth=2") {
			t.Error("root user a should have penwidth=2")
		}
		if strings.Contains(line, `"b" [`) && strings.Contains(line, "penwidth=2") {
			t.Error("referred user b should not have penwidth=2")
		}
	}
}

func TestToDOTShowReach(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, Options{ShowReach: true})

	if !strings.Contains(dot, `reach: 2`) {
		t.Error("label for a should include reach: 2")
	}
	if !strings.Contains(dot, `reach: 0`) {
		t.Error("label for c should include reach: 0")
	}
}

func TestToDOTHighlight(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, Options{Highlight: []string{"a"}})

	var aLine, bLine string
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"a" [`) {
			aLine = line
		}
		if strings.Contains(line, `"b" [`) {
			bLine = line
		}
	}
	if !strings.Contains(aLine, "fillcolor=lightblue") {
		t.Errorf("highlighted user a missing fill: %s", aLine)
	}
	if strings.Contains(bLine, "fillcolor=lightblue") {
		t.Errorf("unhighlighted user b should not have fill: %s", bLine)
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(referral.New(), Options{})
	if !strings.Contains(dot, "digraph referrals {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty graph should still produce valid DOT:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}

	// SVG without a viewBox passes through unchanged
	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should pass through unchanged")
	}
}
