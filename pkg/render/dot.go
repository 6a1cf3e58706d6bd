// Package render converts referral networks to Graphviz DOT and SVG for
// visual inspection of referral trees.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/refnetlabs/refnet/pkg/referral"
)

// Options configures network diagram rendering.
type Options struct {
	// ShowReach includes each user's total reach in node labels.
	ShowReach bool

	// Highlight marks the given users with a distinct fill, typically the
	// selection from a coverage analysis.
	Highlight []string
}

// ToDOT converts a referral network to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Root users (those nobody referred) are drawn with a bold outline.
// Highlighted users get a light blue fill.
func ToDOT(g *referral.Graph, opts Options) string {
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, u := range opts.Highlight {
		highlight[u] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph referrals {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, u := range g.Users() {
		label := fmtLabel(g, u, opts.ShowReach)
		attrs := fmtAttrs(g, u, label, highlight[u])
		fmt.Fprintf(&buf, "  %q [%s];\n", u, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Referrer, e.Candidate)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *referral.Graph, user string, showReach bool) string {
	if !showReach {
		return user
	}
	reach, err := g.TotalReach(user)
	if err != nil {
		return user
	}
	return fmt.Sprintf("%s\nreach: %d", user, reach)
}

func fmtAttrs(g *referral.Graph, user, label string, highlighted bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if highlighted {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if _, referred := g.Referrer(user); !referred {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element with a zero-origin viewBox
// so the output scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
