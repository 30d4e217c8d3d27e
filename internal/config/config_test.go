package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestDefaultReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.ThemeConfig.Nav[0].Text = "changed"
	a.ThemeConfig.Sidebar["/api/"][0].Items = nil

	b := Default()
	assert.Equal(t, "首页", b.ThemeConfig.Nav[0].Text)
	assert.Len(t, b.ThemeConfig.Sidebar["/api/"][0].Items, 4)
}

func TestDefaultLinksAreSiteRelativeOrHTTPS(t *testing.T) {
	cfg := Default()
	for _, item := range cfg.ThemeConfig.Nav {
		assert.NotEmpty(t, item.Link)
		assert.True(t, strings.HasPrefix(item.Link, "/") || strings.HasPrefix(item.Link, "https://"), item.Link)
	}
	for _, social := range cfg.ThemeConfig.SocialLinks {
		assert.True(t, strings.HasPrefix(social.Link, "https://"), social.Link)
	}
}

func TestDefaultSidebarItemsUseTheirPrefix(t *testing.T) {
	cfg := Default()
	for key, groups := range cfg.ThemeConfig.Sidebar {
		for _, group := range groups {
			for _, item := range group.Items {
				assert.True(t, strings.HasPrefix(item.Link, key), "%s under %s", item.Link, key)
			}
		}
	}
}

func TestAPIReferenceListsOverviewOnce(t *testing.T) {
	groups := Default().ThemeConfig.Sidebar["/api/"]
	require.Len(t, groups, 1)
	require.Equal(t, "API 参考", groups[0].Text)

	count := 0
	for _, item := range groups[0].Items {
		if item.Link == "/api/" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRoundTrip(t *testing.T) {
	original := Default()
	data, err := Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	again, err := Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRoundTripEmptyLists(t *testing.T) {
	cfg := SiteConfig{
		Title: "empty",
		ThemeConfig: ThemeConfig{
			Nav:         []NavItem{},
			SocialLinks: []SocialLink{},
			Sidebar: map[string][]SidebarGroup{
				"/guide/": {{Text: "入门"}, {Text: "进阶", Items: []NavItem{}}},
				"/api/":   {},
			},
		},
	}
	data, err := Marshal(cfg)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Normalize(cfg), parsed)
	assert.Equal(t, parsed, Normalize(parsed))

	// The input keeps its empty, non-nil lists.
	assert.NotNil(t, cfg.ThemeConfig.Nav)
	assert.NotNil(t, cfg.ThemeConfig.Sidebar["/guide/"][1].Items)

	again, err := Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestNormalizeLeavesDefaultUnchanged(t *testing.T) {
	assert.Equal(t, Default(), Normalize(Default()))
}

func TestMarshalPreservesOrder(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	out := string(data)

	first := strings.Index(out, "/guide/getting-started")
	second := strings.Index(out, "/guide/decorator")
	third := strings.Index(out, "/guide/best-practices")
	assert.True(t, first < second && second < third)
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"themeConfig"`)
	assert.Contains(t, string(data), `"socialLinks"`)
	assert.Contains(t, string(data), "Copyright © 2024 use-notify 团队")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("title: x\nthemeConfig:\n  navbar: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navbar")
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestLoadSiteConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data, err := Marshal(Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadSiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "use-notify", cfg.Title)

	_, err = LoadSiteConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSidebarFor(t *testing.T) {
	cfg := Default()
	cfg.ThemeConfig.Sidebar["/guide/advanced/"] = []SidebarGroup{
		{Text: "deep", Items: []NavItem{{Text: "x", Link: "/guide/advanced/x"}}},
	}

	tests := []struct {
		path   string
		prefix string
	}{
		{"/guide/", "/guide/"},
		{"/guide/decorator", "/guide/"},
		{"/guide/advanced/x", "/guide/advanced/"},
		{"/api/notify", "/api/"},
		{"/", ""},
		{"/about", ""},
	}
	for _, tt := range tests {
		prefix, groups := cfg.SidebarFor(tt.path)
		assert.Equal(t, tt.prefix, prefix, tt.path)
		if tt.prefix == "" {
			assert.Nil(t, groups)
		}
	}
}

func TestLinksOrder(t *testing.T) {
	links := Default().Links()
	require.NotEmpty(t, links)
	assert.Equal(t, "themeConfig.nav[0]", links[0].Location)
	assert.Equal(t, "/", links[0].URL)

	last := links[len(links)-1]
	assert.Equal(t, "themeConfig.socialLinks[0]", last.Location)
	assert.Equal(t, "github", last.Text)

	// /api/ sorts before /guide/.
	assert.Equal(t, "/api/", links[4].URL)
}
