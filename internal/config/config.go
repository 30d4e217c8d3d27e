// internal/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds the configuration from the site.yaml file.
// Keys follow the theme config object of the site: title, description,
// lang and a nested themeConfig.
type SiteConfig struct {
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	Lang        string      `yaml:"lang" json:"lang"`
	ThemeConfig ThemeConfig `yaml:"themeConfig" json:"themeConfig"`
}

// ThemeConfig is the presentation and navigation part of the site.
type ThemeConfig struct {
	Logo        string                    `yaml:"logo,omitempty" json:"logo,omitempty"`
	Nav         []NavItem                 `yaml:"nav,omitempty" json:"nav,omitempty"`
	Sidebar     map[string][]SidebarGroup `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
	SocialLinks []SocialLink              `yaml:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Footer      FooterConfig              `yaml:"footer" json:"footer"`
}

// NavItem is a labelled link, used by the top nav and by sidebar groups.
type NavItem struct {
	Text string `yaml:"text" json:"text"`
	Link string `yaml:"link" json:"link"`
}

// SidebarGroup is a titled, ordered list of links.
type SidebarGroup struct {
	Text  string    `yaml:"text" json:"text"`
	Items []NavItem `yaml:"items" json:"items"`
}

type SocialLink struct {
	Icon string `yaml:"icon" json:"icon"`
	Link string `yaml:"link" json:"link"`
}

type FooterConfig struct {
	Message   string `yaml:"message,omitempty" json:"message,omitempty"`
	Copyright string `yaml:"copyright,omitempty" json:"copyright,omitempty"`
}

// Link is one declared link together with where it was declared.
type Link struct {
	Location string
	Text     string
	URL      string
}

// LoadSiteConfig reads and strictly parses a site.yaml file.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML site configuration. Keys that do not belong to the
// SiteConfig shape are rejected.
func Parse(data []byte) (SiteConfig, error) {
	cfg := SiteConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return SiteConfig{}, errors.New("config is empty")
		}
		return SiteConfig{}, err
	}
	return Normalize(cfg), nil
}

// Normalize returns c with every empty list and map set to nil. An empty
// and an absent list encode the same way, so Parse(Marshal(c)) equals
// Normalize(c). c itself is not modified.
func Normalize(c SiteConfig) SiteConfig {
	theme := c.ThemeConfig
	theme.Nav = normalizeItems(theme.Nav)
	if len(theme.SocialLinks) == 0 {
		theme.SocialLinks = nil
	}
	if len(theme.Sidebar) == 0 {
		theme.Sidebar = nil
	} else {
		sidebar := make(map[string][]SidebarGroup, len(theme.Sidebar))
		for key, groups := range theme.Sidebar {
			var out []SidebarGroup
			for _, group := range groups {
				group.Items = normalizeItems(group.Items)
				out = append(out, group)
			}
			sidebar[key] = out
		}
		theme.Sidebar = sidebar
	}
	c.ThemeConfig = theme
	return c
}

func normalizeItems(items []NavItem) []NavItem {
	if len(items) == 0 {
		return nil
	}
	return items
}

// Marshal encodes the configuration as YAML. Parse(Marshal(c)) yields
// Normalize(c).
func Marshal(cfg SiteConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the configuration as indented JSON, the shape the
// site generator's own config object takes.
func MarshalJSON(cfg SiteConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SidebarKeys returns the sidebar prefixes in a stable order.
func (c SiteConfig) SidebarKeys() []string {
	keys := make([]string, 0, len(c.ThemeConfig.Sidebar))
	for k := range c.ThemeConfig.Sidebar {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SidebarFor returns the sidebar whose key is the longest prefix of path.
// An empty prefix means the page has no sidebar.
func (c SiteConfig) SidebarFor(path string) (string, []SidebarGroup) {
	best := ""
	for key := range c.ThemeConfig.Sidebar {
		if strings.HasPrefix(path, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return "", nil
	}
	return best, c.ThemeConfig.Sidebar[best]
}

// Links lists every declared link in display order: nav, sidebars by key,
// then social links.
func (c SiteConfig) Links() []Link {
	var links []Link
	for i, item := range c.ThemeConfig.Nav {
		links = append(links, Link{
			Location: fmt.Sprintf("themeConfig.nav[%d]", i),
			Text:     item.Text,
			URL:      item.Link,
		})
	}
	for _, key := range c.SidebarKeys() {
		for g, group := range c.ThemeConfig.Sidebar[key] {
			for i, item := range group.Items {
				links = append(links, Link{
					Location: fmt.Sprintf("themeConfig.sidebar[%q][%d].items[%d]", key, g, i),
					Text:     item.Text,
					URL:      item.Link,
				})
			}
		}
	}
	for i, social := range c.ThemeConfig.SocialLinks {
		links = append(links, Link{
			Location: fmt.Sprintf("themeConfig.socialLinks[%d]", i),
			Text:     social.Icon,
			URL:      social.Link,
		})
	}
	return links
}

// IsExternal reports whether link points off-site.
func IsExternal(link string) bool {
	return strings.HasPrefix(link, "https://")
}
