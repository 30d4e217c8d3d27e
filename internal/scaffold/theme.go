package scaffold

const archetypeDefaultMdContent = `---
title: {{.Title}}
description:
---

# {{.Title}}

Write something meaningful about {{.Site}} here.
`

const faviconContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32">
  <rect width="32" height="32" rx="6" fill="#3451b2"/>
  <path d="M16 7a6 6 0 0 0-6 6v5l-2 3h16l-2-3v-5a6 6 0 0 0-6-6zm-2 16a2 2 0 0 0 4 0z" fill="#fff"/>
</svg>
`

const staticCssContent = `:root { --brand: #3451b2; --muted: #67676c; --border: #e2e2e3; }
body {
  margin: 0;
  font-family: -apple-system, "PingFang SC", "Microsoft YaHei", sans-serif;
  line-height: 1.7;
  color: #213547;
}
.navbar {
  display: flex;
  align-items: center;
  gap: 1.5em;
  padding: 0.75em 2em;
  border-bottom: 1px solid var(--border);
}
.navbar .brand { display: flex; align-items: center; gap: 0.5em; font-weight: 600; color: inherit; text-decoration: none; flex-grow: 1; }
.navbar .brand img { height: 24px; }
.navbar nav a, .navbar .social a { color: inherit; text-decoration: none; margin-left: 1em; }
.navbar nav a.active { color: var(--brand); }
.layout { display: flex; max-width: 1200px; margin: 0 auto; }
.sidebar { width: 240px; flex-shrink: 0; padding: 2em 1em; border-right: 1px solid var(--border); }
.sidebar h2 { font-size: 0.9em; margin: 1em 0 0.25em; }
.sidebar ul { list-style: none; padding: 0; margin: 0; }
.sidebar a { color: var(--muted); text-decoration: none; font-size: 0.9em; }
.sidebar a.active { color: var(--brand); }
main { flex-grow: 1; padding: 2em 3em; min-width: 0; }
.pager { display: flex; justify-content: space-between; margin-top: 3em; border-top: 1px solid var(--border); padding-top: 1em; }
.pager a { color: var(--brand); text-decoration: none; }
footer { text-align: center; font-size: 0.85em; color: var(--muted); border-top: 1px solid var(--border); padding: 1.5em; }
`

const templateLayoutHtmlContent = `{{ define "main" }}<!DOCTYPE html>
<html lang="{{ .Site.Lang }}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ if eq .Route "/" }}{{ .Site.Title }}{{ else }}{{ .Title }} | {{ .Site.Title }}{{ end }}</title>
  <meta name="description" content="{{ .Description }}">
{{ with .Site.ThemeConfig.Logo }}  <link rel="icon" href="{{ href $.BaseHref . }}">
{{ end }}  <link rel="stylesheet" href="{{ .BaseHref }}css/style.css">
</head>
<body>
  {{ template "header" . }}
  <div class="layout">
    {{ template "sidebar" . }}
    <main>
      {{ .Content }}
      {{ if or .Prev .Next }}
      <nav class="pager">
        {{ with .Prev }}<a class="prev" href="{{ href $.BaseHref .Link }}">&larr; {{ .Text }}</a>{{ else }}<span></span>{{ end }}
        {{ with .Next }}<a class="next" href="{{ href $.BaseHref .Link }}">{{ .Text }} &rarr;</a>{{ end }}
      </nav>
      {{ end }}
    </main>
  </div>
  {{ template "footer" . }}
</body>
</html>
{{ end }}`

const templateHeaderHtmlContent = `{{ define "header" }}
<header class="navbar">
  <a class="brand" href="{{ .BaseHref }}index.html">
    {{ with .Site.ThemeConfig.Logo }}<img src="{{ href $.BaseHref . }}" alt="">{{ end }}
    <span>{{ .Site.Title }}</span>
  </a>
  <nav>
    {{ range .Site.ThemeConfig.Nav }}<a href="{{ href $.BaseHref .Link }}"{{ if eq .Link $.ActiveNav }} class="active"{{ end }}{{ if external .Link }} target="_blank" rel="noreferrer"{{ end }}>{{ .Text }}</a>{{ end }}
  </nav>
  <div class="social">
    {{ range .Site.ThemeConfig.SocialLinks }}<a class="social-{{ .Icon }}" href="{{ .Link }}" aria-label="{{ .Icon }}" target="_blank" rel="noreferrer">{{ .Icon }}</a>{{ end }}
  </div>
</header>
{{ end }}`

const templateSidebarHtmlContent = `{{ define "sidebar" }}{{ if .Sidebar }}
<aside class="sidebar">
  {{ range .Sidebar }}
  <section>
    <h2>{{ .Text }}</h2>
    <ul>
      {{ range .Items }}<li><a href="{{ href $.BaseHref .Link }}"{{ if eq .Link $.Route }} class="active" aria-current="page"{{ end }}>{{ .Text }}</a></li>
      {{ end }}
    </ul>
  </section>
  {{ end }}
</aside>
{{ end }}{{ end }}`

const templateFooterHtmlContent = `{{ define "footer" }}
<footer>
  {{ with .Site.ThemeConfig.Footer.Message }}<p class="message">{{ . }}</p>{{ end }}
  {{ with .Site.ThemeConfig.Footer.Copyright }}<p class="copyright">{{ . }}</p>{{ end }}
</footer>
{{ end }}`
