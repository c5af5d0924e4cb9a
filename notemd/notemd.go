// Package notemd renders the Markdown notes produced by the backend for a
// terminal.
//
// Saved notes are generated text shaped like
//
//	Your Great Note:
//
//	## Section title
//
//	- bullet
//
// so headings, lists and emphasis carry most of the structure. Markup the
// terminal cannot show is mapped to approximations:
//   - Headings become styled lines, underlined at level one and two
//   - Links print their destination after the label
//   - Images print their alt text and destination
//   - Tables become "header: value" blocks
package notemd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Styles decorates rendered spans. A nil func leaves the span as is.
type Styles struct {
	Heading func(string) string
	Strong  func(string) string
	Emph    func(string) string
	Code    func(string) string
	Link    func(string) string
	Quote   func(string) string
	Rule    func(string) string
}

// Plain returns styles that emit undecorated text.
func Plain() Styles { return Styles{} }

// Terminal returns lipgloss-backed styles.
func Terminal() Styles {
	render := func(s lipgloss.Style) func(string) string {
		return func(x string) string { return s.Render(x) }
	}
	return Styles{
		Heading: render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))),
		Strong:  render(lipgloss.NewStyle().Bold(true)),
		Emph:    render(lipgloss.NewStyle().Italic(true)),
		Code:    render(lipgloss.NewStyle().Foreground(lipgloss.Color("3"))),
		Link:    render(lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("4"))),
		Quote:   render(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))),
		Rule:    render(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))),
	}
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// Render converts Markdown into terminal text.
func Render(markdown string, st Styles) string {
	source := []byte(markdown)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, st: st, buf: &bytes.Buffer{}}
	r.walkBlock(doc)
	return strings.TrimRight(r.buf.String(), "\n ")
}

// Headings returns the text of every heading, in document order.
func Headings(markdown string) []string {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, buf: &bytes.Buffer{}}
	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			out = append(out, strings.TrimSpace(r.textContent(h)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

type renderer struct {
	source    []byte
	st        Styles
	buf       *bytes.Buffer
	listDepth int
}

func (r *renderer) walkBlock(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
	}
}

func (r *renderer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Document:
		r.walkBlock(n)

	case *ast.Heading:
		title := r.capture(func() { r.inlines(n) })
		r.buf.WriteString(apply(r.st.Heading, title))
		r.buf.WriteByte('\n')
		if n.Level <= 2 {
			r.buf.WriteString(apply(r.st.Rule, strings.Repeat("─", lipgloss.Width(title))))
			r.buf.WriteByte('\n')
		}
		r.buf.WriteByte('\n')

	case *ast.Paragraph:
		r.inlines(n)
		r.buf.WriteString("\n\n")

	case *ast.TextBlock:
		r.inlines(n)
		r.buf.WriteString("\n")

	case *ast.Blockquote:
		sub := &renderer{source: r.source, st: r.st, buf: &bytes.Buffer{}}
		sub.walkBlock(n)
		for _, line := range strings.Split(strings.TrimRight(sub.buf.String(), "\n "), "\n") {
			r.buf.WriteString(apply(r.st.Quote, "│ "+line))
			r.buf.WriteByte('\n')
		}
		r.buf.WriteByte('\n')

	case *ast.List:
		r.list(n)

	case *ast.ListItem:
		r.walkBlock(n)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := r.capture(func() { r.writeLines(n) })
		for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
			r.buf.WriteString("    ")
			r.buf.WriteString(apply(r.st.Code, line))
			r.buf.WriteByte('\n')
		}
		r.buf.WriteByte('\n')

	case *ast.ThematicBreak:
		r.buf.WriteString(apply(r.st.Rule, strings.Repeat("─", 10)))
		r.buf.WriteString("\n\n")

	case *ast.HTMLBlock:
		r.writeLines(n)
		r.buf.WriteString("\n")

	default:
		if t, ok := node.(*east.Table); ok {
			r.table(t)
			return
		}
		if node.HasChildren() {
			r.walkBlock(node)
		}
	}
}

// capture runs fn against a scratch buffer and returns what it wrote.
func (r *renderer) capture(fn func()) string {
	saved := r.buf
	r.buf = &bytes.Buffer{}
	fn()
	out := r.buf.String()
	r.buf = saved
	return out
}

func (r *renderer) writeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.buf.Write(seg.Value(r.source))
	}
}

func (r *renderer) inlines(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c)
	}
}

func (r *renderer) inline(node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		r.buf.Write(n.Text(r.source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			r.buf.WriteByte('\n')
		}

	case *ast.String:
		r.buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.capture(func() { r.inlines(n) })
		if n.Level == 2 {
			r.buf.WriteString(apply(r.st.Strong, inner))
		} else {
			r.buf.WriteString(apply(r.st.Emph, inner))
		}

	case *ast.CodeSpan:
		r.buf.WriteString(apply(r.st.Code, r.textContent(n)))

	case *ast.Link:
		label := r.capture(func() { r.inlines(n) })
		dest := string(n.Destination)
		if label == dest || label == "" {
			r.buf.WriteString(apply(r.st.Link, dest))
		} else {
			fmt.Fprintf(r.buf, "%s (%s)", label, apply(r.st.Link, dest))
		}

	case *ast.AutoLink:
		r.buf.WriteString(apply(r.st.Link, string(n.URL(r.source))))

	case *ast.Image:
		alt := r.textContent(n)
		if alt == "" {
			alt = "image"
		}
		fmt.Fprintf(r.buf, "[%s] (%s)", alt, apply(r.st.Link, string(n.Destination)))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			r.buf.Write(seg.Value(r.source))
		}

	default:
		switch v := node.(type) {
		case *east.Strikethrough:
			r.buf.WriteString("~")
			r.inlines(v)
			r.buf.WriteString("~")
		case *east.TaskCheckBox:
			if v.IsChecked {
				r.buf.WriteString("[x]")
			} else {
				r.buf.WriteString("[ ]")
			}
		default:
			if node.HasChildren() {
				r.inlines(node)
			}
		}
	}
}

func (r *renderer) textContent(n ast.Node) string {
	var buf bytes.Buffer
	r.collectText(n, &buf)
	return buf.String()
}

func (r *renderer) collectText(node ast.Node, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Text(r.source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			r.collectText(c, buf)
		}
	}
}

func (r *renderer) list(n *ast.List) {
	idx := 0
	if n.Start > 0 {
		idx = n.Start - 1
	}
	indent := strings.Repeat("  ", r.listDepth)

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		if n.IsOrdered() {
			idx++
			fmt.Fprintf(r.buf, "%s%d. ", indent, idx)
		} else {
			r.buf.WriteString(indent)
			r.buf.WriteString("• ")
		}
		r.listItemContent(item)
		r.buf.WriteByte('\n')
	}
	if r.listDepth == 0 {
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) listItemContent(item *ast.ListItem) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if !first {
				r.buf.WriteByte('\n')
				r.buf.WriteString(strings.Repeat("  ", r.listDepth+1))
			}
			r.inlines(n)
			first = false
		case *ast.List:
			r.buf.WriteByte('\n')
			r.listDepth++
			r.list(n)
			r.listDepth--
		default:
			r.block(c)
			first = false
		}
	}
}

func (r *renderer) table(t *east.Table) {
	var headers []string
	var rows [][]string
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(r.textContent(cell)))
		}
		switch child.(type) {
		case *east.TableHeader:
			headers = cells
		case *east.TableRow:
			rows = append(rows, cells)
		}
	}

	for i, row := range rows {
		fmt.Fprintf(r.buf, "%s\n", apply(r.st.Strong, fmt.Sprintf("%d.", i+1)))
		for j, cell := range row {
			h := fmt.Sprintf("Column %d", j+1)
			if j < len(headers) && headers[j] != "" {
				h = headers[j]
			}
			fmt.Fprintf(r.buf, "  %s: %s\n", apply(r.st.Strong, h), cell)
		}
	}
	r.buf.WriteByte('\n')
}
