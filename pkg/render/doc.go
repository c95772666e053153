// Package render converts content trees to strings without any reactivity.
//
// ToHTML produces markup; ToText produces text in one of three modes, which
// decide what gets escaped:
//
//   - ModeString: nothing is escaped. Tags are rendered as HTML.
//   - ModeRCData: & and < are escaped, for textarea content.
//   - ModeAttribute: & and " are escaped, for double-quoted attribute values.
//
// Tags cannot appear in RCData or attribute text; doing so panics.
//
// Dynamic content is called once per render and components are instantiated
// but never rendered into live output: their content is rendered with the
// instance as the scope. Every call walks the full tree.
//
// # Basic Usage
//
//	html := render.ToHTML(htmljs.Div(htmljs.Attrs{"id": htmljs.String("x")}, "a < b"), nil)
//	// <div id="x">a &lt; b</div>
package render
