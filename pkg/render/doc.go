// Package render serializes dom trees to HTML.
//
// The renderer handles:
//
//   - Text and attribute escaping
//   - Void elements (input, br, img, etc.)
//   - Boolean attributes (disabled, checked, etc.)
//   - Raw text elements (script, style) that are written unescaped
//   - Optional removal of binding directives (@event, v-model)
//   - Optional pretty printing for development
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(doc)
//
// To stream HTML to a writer:
//
//	err := renderer.RenderToWriter(w, doc.QuerySelector("#app"))
package render
