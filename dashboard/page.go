package dashboard

import (
	"html/template"
	"io"
)

// Tag cloud font sizes in pixels
const (
	minTagSize = 12
	maxTagSize = 32
)

// CloudTag is a tag with its display size in the tag cloud
type CloudTag struct {
	TagCount
	Size int
}

// Page is the view model of the dashboard page
type Page struct {
	Authors  []string
	Selected string
	Message  string
	Stats    *AuthorStats
	Cloud    []CloudTag
}

// NewPage builds the view of author. An empty or unknown author yields a page
// with a message instead of statistics.
func (d *Data) NewPage(author string) Page {
	page := Page{Authors: d.authors, Selected: author}

	stats, err := d.Stats(author, "")
	if err != nil {
		page.Message = NoAuthorSelected
		if author != "" {
			page.Message = "Autor não encontrado: " + author
		}
		return page
	}

	page.Stats = stats
	page.Cloud = Cloud(stats.Tags)
	return page
}

// Cloud scales tag counts linearly to font sizes
func Cloud(tags []TagCount) []CloudTag {
	cloud := make([]CloudTag, 0, len(tags))
	if len(tags) == 0 {
		return cloud
	}

	lo, hi := tags[0].Count, tags[0].Count
	for _, t := range tags {
		lo = min(lo, t.Count)
		hi = max(hi, t.Count)
	}

	for _, t := range tags {
		size := maxTagSize
		if hi > lo {
			size = minTagSize + (t.Count-lo)*(maxTagSize-minTagSize)/(hi-lo)
		}
		cloud = append(cloud, CloudTag{TagCount: t, Size: size})
	}
	return cloud
}

// Template is the dashboard page, executed with a Page
var Template = template.Must(template.New("dashboard").Parse(pageHTML))

// Render writes the page of author to w
func (d *Data) Render(w io.Writer, author string) error {
	return Template.Execute(w, d.NewPage(author))
}

const pageHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Dashboard de Citações por Autor</title>
<style>
body { font-family: sans-serif; margin: 20px; background: #f8f9fa; }
.grid { display: flex; gap: 20px; }
.card { background: #fff; border: 1px solid #dee2e6; border-radius: 8px; padding: 20px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.side { flex: 0 0 25%; }
.main { flex: 1; }
.cloud span { display: inline-block; margin: 4px 8px; color: #3b5bdb; }
.quote { margin-bottom: 10px; }
.quote a { color: inherit; text-decoration: none; font-style: italic; font-weight: 500; }
.badge { display: inline-block; background: #e7f5ff; color: #1c7ed6; border-radius: 12px; padding: 2px 10px; margin: 6px 4px 0 0; font-size: 12px; }
</style>
</head>
<body>
<h1 style="text-align:center">Dashboard de Citações por Autor</h1>
<div class="grid">
  <div class="card side">
    <strong>Selecione um Autor</strong>
    <form method="get" action="">
      <select name="autor" onchange="this.form.submit()">
        {{- range .Authors}}
        <option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
        {{- end}}
      </select>
      <noscript><button type="submit">OK</button></noscript>
    </form>
  </div>
  <div class="card main">
    <strong>Informações do Autor</strong>
    {{- if .Stats}}
    <p id="total-citacoes">{{.Stats.Summary}}</p>
    <div class="card cloud" id="nuvem-tags">
      <p style="text-align:center"><strong>Nuvem de Tags</strong></p>
      {{- range .Cloud}}
      <span style="font-size:{{.Size}}px" title="{{.Count}}">{{.Tag}}</span>
      {{- end}}
    </div>
    <hr>
    <strong>Citações</strong>
    <div id="lista-citacoes">
      {{- range .Stats.Quotes}}
      <div class="card quote">
        {{- if .SourceURL}}
        <a href="{{.SourceURL}}" target="_blank">{{.Text}}</a>
        {{- else}}
        <span>{{.Text}}</span>
        {{- end}}
        <div>{{range .Tags}}<span class="badge">{{.}}</span>{{end}}</div>
      </div>
      {{- end}}
    </div>
    {{- else}}
    <p id="total-citacoes">{{.Message}}</p>
    {{- end}}
  </div>
</div>
</body>
</html>
`
