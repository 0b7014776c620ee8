package mcts

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

type labelledNode struct {
	*Node
}

func (n labelledNode) State() string {
	s := html.EscapeString(fmt.Sprintf("%v", n.board))
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "<BR />")
}

// ToDot renders the tree of the last search in the DOT language. Nodes with fewer than minVisits
// searched visits are left out.
func (t *MCTS) ToDot(minVisits uint32) string {
	t.Lock()
	defer t.Unlock()

	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	if !t.root.isValid() {
		return g.String()
	}

	var buf bytes.Buffer
	queue := []naughty{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := t.nodeFromNaughty(id)

		if err := tmpl.Execute(&buf, labelledNode{n}); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", fmt.Sprintf("%v", id), attrs)
		buf.Reset()

		kids := make([]naughty, len(t.children[id]))
		copy(kids, t.children[id])
		sort.Sort(byAction{l: kids, t: t})
		for _, kid := range kids {
			if t.nodes[kid].searched() < minVisits {
				continue
			}
			g.AddEdge(fmt.Sprintf("%v", id), fmt.Sprintf("%v", kid), true, nil)
			queue = append(queue, kid)
		}
	}
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Action</TD><TD>{{.Action}}</TD></TR>
<TR><TD>To Move</TD><TD>{{.ToMove}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Win Rate</TD><TD>{{printf "%.3f" .WinRate}}</TD></TR>
<TR><TD>Value</TD><TD>{{printf "%.3f" .Value}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
