// internal/builder/goldmark_extensions.go
package builder

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"notifydocs/internal/util"
)

// baseHrefKey carries the page's BaseHref into the link transformer.
var baseHrefKey = parser.NewContextKey()

// docLinkTransformer rewrites link destinations so they point at generated
// files: "./decorator.md#usage" becomes "./decorator.html#usage" and a site
// route such as "/api/notify" becomes "../api/notify.html" relative to the
// current page. URLs with a scheme are left alone.
type docLinkTransformer struct{}

func newDocLinkTransformer() parser.ASTTransformer {
	return &docLinkTransformer{}
}

func (t *docLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	base, _ := pc.Get(baseHrefKey).(string)

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		link.Destination = rewriteDestination(base, link.Destination)
		return ast.WalkContinue, nil
	})
}

func rewriteDestination(base string, dest []byte) []byte {
	s := string(dest)
	if strings.HasPrefix(s, "//") {
		return dest
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		return dest
	}

	target, suffix := s, ""
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		target, suffix = s[:i], s[i:]
	}
	if strings.HasSuffix(target, ".md") {
		target = strings.TrimSuffix(target, ".md")
		if !strings.HasPrefix(target, "/") {
			return []byte(target + ".html" + suffix)
		}
	}
	if strings.HasPrefix(target, "/") {
		return []byte(util.RelLink(base, target) + suffix)
	}
	return dest
}
