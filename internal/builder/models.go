// internal/builder/models.go
package builder

import (
	"html/template"

	"notifydocs/internal/config"
)

// PageMeta holds metadata from front matter. Keys it does not name are
// collected in Params.
type PageMeta struct {
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Draft       bool                   `yaml:"draft"`
	Review      bool                   `yaml:"review"` // body carries EditML review marks
	Params      map[string]interface{} `yaml:",inline"`
}

// PageData is the struct passed to templates.
type PageData struct {
	Content     template.HTML
	Title       string
	Description string
	BaseHref    string
	Route       string // site-relative route, e.g. /guide/decorator
	Site        config.SiteConfig
	Sidebar     []config.SidebarGroup
	ActiveNav   string // link of the nav item the page belongs to
	Prev        *config.NavItem
	Next        *config.NavItem
	Params      map[string]interface{}
}
