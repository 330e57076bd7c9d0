// Package plugins implements the built-in style option variants: CSS class
// selects and radios, theme colour radios, box sizing, backgrounds, colour
// pickers and component variations.
//
// Every variant satisfies styleopts.Plugin. Build never fails: entries that
// cannot be resolved are omitted from the artifact and listed in
// Artifact.Skipped.
package plugins
