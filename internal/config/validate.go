package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidConfig is what a *ValidationError unwraps to.
var ErrInvalidConfig = errors.New("invalid site config")

// Problem is a single structural defect in a site configuration.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// ValidationError collects every problem found by Validate.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %d problem(s): %s", ErrInvalidConfig, len(e.Problems), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the structural rules of a site configuration and reports
// all violations at once.
func Validate(c SiteConfig) error {
	var problems []Problem
	add := func(path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Title) == "" {
		add("title", "must not be empty")
	}
	if c.Lang != "" {
		if _, err := language.Parse(c.Lang); err != nil {
			add("lang", "%q is not a valid language tag", c.Lang)
		}
	}

	theme := c.ThemeConfig
	if theme.Logo != "" && !strings.HasPrefix(theme.Logo, "/") {
		add("themeConfig.logo", "%q must be a site-relative path", theme.Logo)
	}

	for i, item := range theme.Nav {
		path := fmt.Sprintf("themeConfig.nav[%d]", i)
		if item.Text == "" {
			add(path, "text must not be empty")
		}
		if msg := checkLink(item.Link); msg != "" {
			add(path, msg)
		}
	}

	for _, key := range c.SidebarKeys() {
		keyPath := fmt.Sprintf("themeConfig.sidebar[%q]", key)
		if !strings.HasPrefix(key, "/") || !strings.HasSuffix(key, "/") {
			add(keyPath, "key must start and end with /")
		}
		if !navUsesPrefix(theme.Nav, key) {
			add(keyPath, "no nav link starts with %q", key)
		}
		for g, group := range theme.Sidebar[key] {
			groupPath := fmt.Sprintf("%s[%d]", keyPath, g)
			if group.Text == "" {
				add(groupPath, "text must not be empty")
			}
			if len(group.Items) == 0 {
				add(groupPath, "group has no items")
			}
			for i, item := range group.Items {
				itemPath := fmt.Sprintf("%s.items[%d]", groupPath, i)
				if item.Text == "" {
					add(itemPath, "text must not be empty")
				}
				if msg := checkLink(item.Link); msg != "" {
					add(itemPath, msg)
					continue
				}
				if !strings.HasPrefix(item.Link, key) {
					add(itemPath, "link %q is outside sidebar %q", item.Link, key)
				}
			}
		}
	}

	for i, social := range theme.SocialLinks {
		path := fmt.Sprintf("themeConfig.socialLinks[%d]", i)
		if social.Icon == "" {
			add(path, "icon must not be empty")
		}
		if msg := checkLink(social.Link); msg != "" {
			add(path, msg)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkLink(link string) string {
	switch {
	case link == "":
		return "link must not be empty"
	case strings.HasPrefix(link, "/"), IsExternal(link):
		return ""
	default:
		return fmt.Sprintf("link %q must start with / or https://", link)
	}
}

func navUsesPrefix(nav []NavItem, prefix string) bool {
	for _, item := range nav {
		if strings.HasPrefix(item.Link, prefix) {
			return true
		}
	}
	return false
}
