package util

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ComputeBaseHref calculates the relative path to the site root
// so that CSS/JS links work correctly for pages at any depth.
// For example, a page at /posts/a/b.html would get a BaseHref of "../../".
func ComputeBaseHref(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}

// RouteFile maps a site-relative link to the slash-separated output file
// that serves it: "/" is index.html, "/guide/" is guide/index.html and
// "/guide/decorator" is guide/decorator.html. Fragments and queries are
// dropped. Links that already carry an extension are returned as is.
func RouteFile(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	link = strings.TrimPrefix(link, "/")
	if link == "" || strings.HasSuffix(link, "/") {
		return link + "index.html"
	}
	if path.Ext(link) != "" {
		return link
	}
	return link + ".html"
}

// RouteSource is the Markdown file under the content directory that
// produces the page for link.
func RouteSource(link string) string {
	return strings.TrimSuffix(RouteFile(link), ".html") + ".md"
}

// RouteFromRel is the inverse of RouteSource: content/guide/index.md is
// "/guide/", content/guide/channels.md is "/guide/channels".
func RouteFromRel(relPath string) string {
	rel := filepath.ToSlash(relPath)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if rel == "index" {
		return "/"
	}
	if strings.HasSuffix(rel, "/index") {
		return "/" + strings.TrimSuffix(rel, "index")
	}
	return "/" + rel
}

// RelLink rewrites a site-absolute link so it works from a page whose
// BaseHref is base. External links are returned unchanged.
func RelLink(base, link string) string {
	if !strings.HasPrefix(link, "/") || strings.HasPrefix(link, "//") {
		return link
	}
	suffix := ""
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		suffix = link[i:]
	}
	return base + RouteFile(link) + suffix
}

// TitleFromSlug turns "best-practices" into "Best Practices".
func TitleFromSlug(slug string) string {
	words := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.Und).String(words)
}
