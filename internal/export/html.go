package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

// WriteHTML renders a human-readable rules page for a compiled repository.
// Rule descriptions are trusted markup from the annotations and emitted as-is;
// everything else is escaped.
func WriteHTML(outDir string, def registry.RepositoryDefinition) (string, error) {
	path := filepath.Join(outDir, def.Key+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var templates, deprecated int
	for _, r := range def.Rules {
		if r.Template {
			templates++
		}
		if r.Status == "DEPRECATED" {
			deprecated++
		}
	}

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(def.Key))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>Rule repository <span class='mono'>%s</span></h1>", html.EscapeString(def.Key))
	if def.Language != "" {
		fmt.Fprintf(f, "<p class='dim'>Language: %s</p>", html.EscapeString(def.Language))
	}
	fmt.Fprintf(f, "<p>Rules: %d &nbsp; Templates: %d &nbsp; Deprecated: %d</p>", len(def.Rules), templates, deprecated)

	fmt.Fprint(f, "<h2>Rules</h2><table><tr><th>Key</th><th>Name</th><th>Severity</th><th>Status</th><th>Template</th><th>Params</th></tr>")
	for _, r := range def.Rules {
		tpl := ""
		if r.Template {
			tpl = "yes"
		}
		fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>",
			html.EscapeString(r.Key),
			html.EscapeString(r.Name),
			html.EscapeString(r.DefaultSeverity),
			html.EscapeString(string(r.Status)),
			tpl,
			len(r.Params),
		)
	}
	fmt.Fprint(f, "</table>")

	for _, r := range def.Rules {
		fmt.Fprintf(f, "<h2 class='mono'>%s</h2>", html.EscapeString(r.Key))
		if r.Name != "" {
			fmt.Fprintf(f, "<p><b>%s</b></p>", html.EscapeString(r.Name))
		}
		if r.HTMLDescription != "" {
			fmt.Fprintf(f, "<div>%s</div>", r.HTMLDescription)
		}
		if len(r.Params) > 0 {
			fmt.Fprint(f, "<table><tr><th>Param</th><th>Type</th><th>Default</th><th>Description</th></tr>")
			for _, p := range r.Params {
				fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td><td class='mono'>%s</td><td>%s</td></tr>",
					html.EscapeString(p.Key),
					html.EscapeString(string(p.Type)),
					html.EscapeString(p.DefaultValue),
					html.EscapeString(p.Description),
				)
			}
			fmt.Fprint(f, "</table>")
		}
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
