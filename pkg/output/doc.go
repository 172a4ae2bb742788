// Package output renders command results for the terminal.
//
// Results pass through two phases:
//  1. Template expansion: text/template files embedded from templates/
//     turn the result structs into text, calling the style function for
//     anything that should be highlighted
//  2. Style application: style looks the name up in the styles registry
//     (built from styles/styles.yaml) and renders it with lipgloss, or
//     returns the text unchanged when color is off
//
// Color is off when requested, when NO_COLOR is set, or when the writer
// is not a terminal.
package output
