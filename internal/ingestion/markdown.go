package ingestion

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/deck-builder/internal/types"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
)

// parseMarkdown walks the goldmark AST. The title comes from the frontmatter "title"
// key, otherwise from the first level 1 heading.
func parseMarkdown(data []byte) (*types.Document, error) {
	frontmatter, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var b documentBuilder
	if title, ok := frontmatter["title"].(string); ok {
		b.setTitle(title)
	}

	root := markdown.Parser().Parse(text.NewReader(body))
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		walkMarkdownBlock(&b, node, body)
	}

	return b.build(), nil
}

// splitFrontmatter separates a leading YAML block delimited by --- lines.
// Content without a closed block is returned unchanged.
func splitFrontmatter(data []byte) (map[string]any, []byte, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, data, nil
	}

	lines := bytes.Split(data, []byte("\n"))
	end := -1
	for i := 1; i < len(lines); i++ {
		if string(bytes.TrimSpace(lines[i])) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, data, nil
	}

	frontmatter := map[string]any{}
	if block := bytes.Join(lines[1:end], []byte("\n")); len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, &frontmatter); err != nil {
			return nil, nil, err
		}
	}
	return frontmatter, bytes.Join(lines[end+1:], []byte("\n")), nil
}

func walkMarkdownBlock(b *documentBuilder, node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Heading:
		heading := inlineText(n, source)
		if n.Level == 1 {
			b.setTitle(heading)
		}
		b.heading(heading, n.Level)
	case *ast.Paragraph, *ast.TextBlock:
		b.paragraph(inlineText(n, source))
	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				walkMarkdownBlock(b, child, source)
			}
		}
	case *ast.Blockquote:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			walkMarkdownBlock(b, child, source)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.paragraph(blockLines(n, source))
	case *extast.Table:
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, source))
			}
			b.paragraph(strings.Join(cells, "\t"))
		}
	}
}

// inlineText concatenates the text of an inline subtree. Soft breaks become spaces.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			switch {
			case t.HardLineBreak():
				sb.WriteString("\n")
			case t.SoftLineBreak():
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func blockLines(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}
