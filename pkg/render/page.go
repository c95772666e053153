package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/spark/pkg/htmljs"
)

// PageData contains everything needed to render a complete HTML document.
type PageData struct {
	// Body is the page content.
	Body htmljs.Node

	// Scope is the scope Body renders under.
	Scope htmljs.Scope

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts are appended to the end of the body.
	Scripts []ScriptTag
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Inline string // inline script content, written unescaped
}

// RenderPage renders a complete HTML document to w.
func RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeRCData(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if _, err := io.WriteString(w, ToHTML(page.Body, page.Scope)); err != nil {
		return err
	}

	for _, script := range page.Scripts {
		if err := renderScriptTag(w, script); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}

func renderScriptTag(w io.Writer, script ScriptTag) error {
	if script.Src != "" {
		_, err := fmt.Fprintf(w, "\n<script src=\"%s\"></script>", escapeAttr(script.Src))
		return err
	}
	_, err := fmt.Fprintf(w, "\n<script>%s</script>", script.Inline)
	return err
}
