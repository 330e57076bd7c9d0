// Package openapi renders style option configuration forms as OpenAPI 3
// documents. Each form becomes the request body of a submit operation whose
// schema mirrors the stored value shape, with x-formgen hints that tell
// go-formgen renderers which widget, classes and libraries to use.
package openapi
