// Package layering composes style option configuration from ordered layers:
// plugin defaults, catalog defaults, context overrides and the definition's
// own config. Stronger layers win key by key; nested maps are merged and
// every other value, lists included, is replaced wholesale.
package layering
