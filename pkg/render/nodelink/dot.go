package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railinfra/pkg/layout"
	"github.com/matzehuels/railinfra/pkg/topology"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the marker tag and world position in node labels.
	// When false, only the short marker ID is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT format. Each track becomes a
// cluster labelled with its id.
func ToDOT(l *layout.Layout, opts Options) string {
	g := l.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, id := range l.IDs() {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", id)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("track %d", id))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, n := range l.Track(id) {
			attrs := fmtAttrs(g, n, opts.Detailed)
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(g, n), strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i := range g.Len() {
		from := topology.NodeID(i)
		n := g.Node(from)
		switch n.Kind {
		case topology.KindGuide:
			writeEdge(&buf, g, from, n.Next, false)
		case topology.KindSwitch:
			writeEdge(&buf, g, from, n.Main, false)
			writeEdge(&buf, g, from, n.Branch, true)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(g *topology.Graph, id topology.NodeID) string {
	return g.Node(id).MarkerID.String()
}

func fmtAttrs(g *topology.Graph, id topology.NodeID, detailed bool) []string {
	m := g.Marker(id)
	label := m.ID.String()[:8]
	if detailed {
		label += fmt.Sprintf("\n%s\n<%.1f, %.1f, %.1f>", m.Tag, m.Position.X, m.Position.Y, m.Position.Z)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if g.Node(id).Kind == topology.KindSwitch {
		attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=lightyellow")
	}
	return attrs
}

func writeEdge(buf *bytes.Buffer, g *topology.Graph, from, to topology.NodeID, branch bool) {
	if to == topology.None {
		return
	}
	if branch {
		fmt.Fprintf(buf, "  %q -> %q [style=dashed];\n", nodeID(g, from), nodeID(g, to))
		return
	}
	fmt.Fprintf(buf, "  %q -> %q;\n", nodeID(g, from), nodeID(g, to))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
