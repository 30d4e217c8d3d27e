// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"notifydocs/internal/config"
	"notifydocs/internal/util"
)

type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	Logger           zerolog.Logger
}

// BuildSite renders every content page with the site's navigation and
// copies static assets. It returns the number of pages written.
func BuildSite(outputDir, contentDir, staticDir string, site config.SiteConfig, tmpl *template.Template, opts BuildOptions) (int, error) {
	log := opts.Logger
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	if opts.CleanDestination {
		log.Debug().Str("dir", outputDir).Msg("cleaning destination directory")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return 0, err
			}
		}
	}

	pagesGenerated := 0
	if err := filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(info.Name())
		if ext != ".html" && ext != ".md" {
			return nil
		}

		contentBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if !utf8.Valid(contentBytes) {
			return fmt.Errorf("content file is not valid UTF-8: %s", path)
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		route := util.RouteFromRel(relPath)
		baseHref := util.ComputeBaseHref(relPath)

		meta, htmlOut, parseErr := processContent(contentBytes, baseHref, opts)
		if parseErr != nil {
			return fmt.Errorf("failed to process content for %s: %w", path, parseErr)
		}

		if meta.Draft && route != "/" {
			log.Debug().Str("path", path).Msg("skipping draft")
			return nil
		}

		outputPath := filepath.Join(outputDir, strings.TrimSuffix(relPath, ext)+".html")
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return err
		}

		_, sidebar := site.SidebarFor(route)
		prev, next := neighbours(sidebar, route)
		pageData := PageData{
			Content:     template.HTML(htmlOut),
			Title:       pageTitle(meta, site, route),
			Description: meta.Description,
			BaseHref:    baseHref,
			Route:       route,
			Site:        site,
			Sidebar:     sidebar,
			ActiveNav:   activeNav(site.ThemeConfig.Nav, route),
			Prev:        prev,
			Next:        next,
			Params:      meta.Params,
		}
		if pageData.Description == "" {
			pageData.Description = site.Description
		}

		if err := renderPage(tmpl, outputPath, pageData); err != nil {
			return fmt.Errorf("failed to render page %s: %w", path, err)
		}
		log.Debug().Str("route", route).Str("output", outputPath).Msg("page rendered")
		pagesGenerated++
		return nil
	}); err != nil {
		return 0, err
	}

	if err := copyStaticAssets(staticDir, outputDir); err != nil {
		return 0, err
	}
	return pagesGenerated, nil
}

// pageTitle prefers front matter, then the label the navigation uses for
// the route, then a title derived from the file name.
func pageTitle(meta PageMeta, site config.SiteConfig, route string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if route == "/" {
		return site.Title
	}
	_, groups := site.SidebarFor(route)
	for _, group := range groups {
		for _, item := range group.Items {
			if item.Link == route {
				return item.Text
			}
		}
	}
	for _, item := range site.ThemeConfig.Nav {
		if item.Link == route {
			return item.Text
		}
	}
	return util.TitleFromSlug(path.Base(strings.TrimSuffix(route, "/")))
}

// activeNav returns the link of the nav item with the longest site-relative
// prefix of route. The root link only matches the root page.
func activeNav(nav []config.NavItem, route string) string {
	best := ""
	for _, item := range nav {
		link := item.Link
		if config.IsExternal(link) {
			continue
		}
		if link == "/" {
			if route == "/" {
				return link
			}
			continue
		}
		if strings.HasPrefix(route, link) && len(link) > len(best) {
			best = link
		}
	}
	return best
}

// neighbours finds the previous and next entries around route in the
// flattened sidebar.
func neighbours(groups []config.SidebarGroup, route string) (*config.NavItem, *config.NavItem) {
	var flat []config.NavItem
	for _, group := range groups {
		flat = append(flat, group.Items...)
	}
	for i, item := range flat {
		if item.Link != route {
			continue
		}
		var prev, next *config.NavItem
		if i > 0 {
			p := flat[i-1]
			prev = &p
		}
		if i < len(flat)-1 {
			n := flat[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// copyStaticAssets copies files from the static directory to the output directory.
func copyStaticAssets(staticDir, outputDir string) error {
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
		".woff": true, ".woff2": true,
	}
	if _, err := os.Stat(staticDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !allowedExts[filepath.Ext(info.Name())] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer dst.Close()
		_, err = io.Copy(dst, src)
		return err
	})
}

// renderPage executes the Go template and writes the output to a file.
func renderPage(tmpl *template.Template, outPath string, data PageData) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	// "main" is the name of the template defined within the layout file.
	return tmpl.ExecuteTemplate(outFile, "main", data)
}

// TemplateFiles are the files every theme directory provides.
var TemplateFiles = []string{"layout.html", "header.html", "sidebar.html", "footer.html"}

// LoadTemplates parses the template files of a theme. Templates get an
// "href" function that turns a site-absolute link into one relative to the
// page: {{ href $.BaseHref .Link }}.
func LoadTemplates(templateDir, theme string) (*template.Template, error) {
	dir := filepath.Join(templateDir, theme)
	files := make([]string, len(TemplateFiles))
	for i, name := range TemplateFiles {
		files[i] = filepath.Join(dir, name)
	}
	funcs := template.FuncMap{
		"href":     util.RelLink,
		"external": config.IsExternal,
	}
	tmpl, err := template.New(theme).Funcs(funcs).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}
