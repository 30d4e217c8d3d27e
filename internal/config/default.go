package config

const repoURL = "https://github.com/use-py/use-notify"

// Default returns the use-notify documentation site configuration.
// Every call builds a fresh value, so callers may modify the result.
func Default() SiteConfig {
	return SiteConfig{
		Title:       "use-notify",
		Description: "Python 消息通知库",
		Lang:        "zh-CN",
		ThemeConfig: ThemeConfig{
			Logo: "/favicon.svg",
			Nav: []NavItem{
				{Text: "首页", Link: "/"},
				{Text: "指南", Link: "/guide/"},
				{Text: "API", Link: "/api/"},
				{Text: "GitHub", Link: repoURL},
			},
			Sidebar: map[string][]SidebarGroup{
				"/guide/": {
					{
						Text: "入门",
						Items: []NavItem{
							{Text: "简介", Link: "/guide/"},
							{Text: "快速开始", Link: "/guide/getting-started"},
							{Text: "装饰器使用", Link: "/guide/decorator"},
						},
					},
					{
						Text: "进阶",
						Items: []NavItem{
							{Text: "通知渠道", Link: "/guide/channels"},
							{Text: "配置管理", Link: "/guide/configuration"},
							{Text: "最佳实践", Link: "/guide/best-practices"},
						},
					},
				},
				"/api/": {
					{
						Text: "API 参考",
						Items: []NavItem{
							{Text: "概述", Link: "/api/"},
							{Text: "useNotify", Link: "/api/notify"},
							{Text: "通知渠道", Link: "/api/channels"},
							{Text: "装饰器", Link: "/api/decorator"},
						},
					},
				},
			},
			SocialLinks: []SocialLink{
				{Icon: "github", Link: repoURL},
			},
			Footer: FooterConfig{
				Message:   "基于 MIT 许可发布",
				Copyright: "Copyright © 2024 use-notify 团队",
			},
		},
	}
}
