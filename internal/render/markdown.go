package render

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer turns upstream excerpts into HTML. Raw HTML in the source
// is dropped.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Strikethrough,
		),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML []byte
	// Links are the destinations of every link in the source.
	Links []string
}

func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	var links []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := n.(type) {
		case *ast.Link:
			links = append(links, string(l.Destination))
		case *ast.AutoLink:
			links = append(links, string(l.URL(src)))
		}
		return ast.WalkContinue, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:  bytes.TrimSpace(buf.Bytes()),
		Links: links,
	}, nil
}

// PlainText strips markup from an HTML fragment, collapses whitespace and
// cuts the result to limit runes with a trailing ellipsis. limit <= 0 means no
// limit.
func PlainText(fragment string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	s := strings.Join(strings.Fields(doc.Text()), " ")
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimRight(string(runes[:limit]), " ,.;:")
	return cut + "…"
}
