// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	editml "github.com/verkaro/editml-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newDocLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// processContent splits off the front matter, renders the Markdown body and
// sanitizes the result unless opts.Unsafe is set. baseHref is the page's
// path back to the site root and is used to rewrite site-absolute links.
func processContent(rawContent []byte, baseHref string, opts BuildOptions) (PageMeta, string, error) {
	meta := PageMeta{}
	body, err := frontmatter.Parse(bytes.NewReader(rawContent), &meta)
	if err != nil {
		return PageMeta{}, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	if meta.Review {
		clean, err := cleanReviewMarkup(string(body))
		if err != nil {
			return meta, "", err
		}
		body = []byte(clean)
	}

	pctx := parser.NewContext()
	pctx.Set(baseHrefKey, baseHref)

	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert(body, &htmlBuffer, parser.WithContext(pctx)); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if !opts.Unsafe {
		return meta, string(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return meta, htmlBuffer.String(), nil
}

// cleanReviewMarkup drops EditML review marks and keeps the accepted text.
func cleanReviewMarkup(raw string) (string, error) {
	nodes, parseIssues := editml.Parse(raw)
	if len(parseIssues) > 0 && parseIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml parsing error: %s", parseIssues[0].Message)
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	if len(transformIssues) > 0 && transformIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml transformation error: %s", transformIssues[0].Message)
	}
	return clean, nil
}
