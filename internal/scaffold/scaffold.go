// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"notifydocs/internal/config"
	"notifydocs/internal/util"
)

// DefaultTheme is the theme directory name CreateNewSite writes.
const DefaultTheme = "default"

// CreateNewSite writes a site.yaml holding the default configuration, the
// default theme, static assets and one page per declared route.
func CreateNewSite(name string, log zerolog.Logger) error {
	log.Info().Str("dir", name).Msg("scaffolding new site")
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(name, path), 0755) }
	dirs := []string{"content", "static/css", "templates", "archetypes"}
	for _, dir := range dirs {
		if err := mkdir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	site := config.Default()
	siteYAML, err := config.Marshal(site)
	if err != nil {
		return fmt.Errorf("failed to encode site config: %w", err)
	}

	files := map[string]string{
		"site.yaml":             string(siteYAML),
		"static/css/style.css":  staticCssContent,
		"static/favicon.svg":    faviconContent,
		"archetypes/default.md": archetypeDefaultMdContent,
	}
	for path, content := range files {
		if err := writeFile(filepath.Join(name, path), content); err != nil {
			return err
		}
	}
	if err := WriteTheme(filepath.Join(name, "templates", DefaultTheme)); err != nil {
		return err
	}

	pages, err := writeRouteStubs(filepath.Join(name, "content"), site)
	if err != nil {
		return err
	}
	log.Info().Int("pages", pages).Msg("site scaffolded")
	return nil
}

// WriteTheme writes the default theme's templates into dir.
func WriteTheme(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create theme directory %s: %w", dir, err)
	}
	theme := map[string]string{
		"layout.html":  templateLayoutHtmlContent,
		"header.html":  templateHeaderHtmlContent,
		"sidebar.html": templateSidebarHtmlContent,
		"footer.html":  templateFooterHtmlContent,
	}
	for file, content := range theme {
		if err := writeFile(filepath.Join(dir, file), content); err != nil {
			return err
		}
	}
	return nil
}

// writeRouteStubs creates a Markdown page for every site-relative link the
// configuration declares, so a fresh site has no dangling links.
func writeRouteStubs(contentDir string, site config.SiteConfig) (int, error) {
	seen := make(map[string]bool)
	count := 0
	for _, link := range site.Links() {
		if config.IsExternal(link.URL) || seen[link.URL] {
			continue
		}
		seen[link.URL] = true

		var body string
		if link.URL == "/" {
			body = homePage(site)
		} else {
			body = fmt.Sprintf("---\ntitle: %q\n---\n\n# %s\n", link.Text, link.Text)
		}
		if err := writeFile(filepath.Join(contentDir, filepath.FromSlash(util.RouteSource(link.URL))), body); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func homePage(site config.SiteConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: %q\n---\n\n# %s\n\n%s\n\n", site.Title, site.Title, site.Description)
	for _, item := range site.ThemeConfig.Nav {
		if item.Link == "/" {
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", item.Text, item.Link)
	}
	return b.String()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

var (
	slugStrip = regexp.MustCompile(`[^\p{L}\p{N}\- ]+`)
	slugDash  = regexp.MustCompile(`[\s-]+`)
)

// Slug lower-cases title and joins its words with dashes.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CreateNewContent creates content/<section>/<slug>.md from the default
// archetype and returns its path. Existing files are left alone.
func CreateNewContent(section, title, configPath string, log zerolog.Logger) (string, error) {
	site, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return "", err
	}
	slug := Slug(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable file name", title)
	}

	path := filepath.Join("content", section, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	archetypePath := filepath.Join("archetypes", "default.md")
	tmplBytes, err := os.ReadFile(archetypePath)
	if err != nil {
		return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
	}

	tmpl, err := template.New("archetype").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}

	data := struct {
		Title string
		Site  string
	}{
		Title: title,
		Site:  site.Title,
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := writeFile(path, output.String()); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("created page")
	return path, nil
}
