// Package svgdoc reads and writes SVG documents as a generic XML node tree.
//
// Only the structure needed for rewriting is modeled: elements with their
// attributes, character data, comments, processing instructions and
// directives. Namespace prefixes are kept as written so a document can be
// edited and serialized without losing unknown content.
package svgdoc
