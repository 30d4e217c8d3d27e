// Package linkcheck verifies that every site-relative link declared in a
// site configuration resolves to a file in a built site.
package linkcheck

import (
	"fmt"
	"os"
	"path/filepath"

	"notifydocs/internal/config"
	"notifydocs/internal/util"
)

// ResolveRoute maps a site-relative link to the file in outputDir that
// serves it.
func ResolveRoute(outputDir, link string) string {
	return filepath.Join(outputDir, filepath.FromSlash(util.RouteFile(link)))
}

// Check reports every site-relative link in site, plus the logo, that has
// no file in outputDir. External links are not fetched.
func Check(site config.SiteConfig, outputDir string) []config.Problem {
	var problems []config.Problem
	missing := func(link string) bool {
		info, err := os.Stat(ResolveRoute(outputDir, link))
		return err != nil || info.IsDir()
	}

	if logo := site.ThemeConfig.Logo; logo != "" && missing(logo) {
		problems = append(problems, config.Problem{
			Path:    "themeConfig.logo",
			Message: fmt.Sprintf("%q does not resolve to a file in the built site", logo),
		})
	}
	for _, link := range site.Links() {
		if link.URL == "" || config.IsExternal(link.URL) {
			continue
		}
		if missing(link.URL) {
			problems = append(problems, config.Problem{
				Path:    link.Location,
				Message: fmt.Sprintf("%q (%s) has no page, expected %s", link.URL, link.Text, util.RouteFile(link.URL)),
			})
		}
	}
	return problems
}
