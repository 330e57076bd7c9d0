// Package jsrt ships the browser asset for box size groups and runs it under
// goja against an in-memory surface, so the browser rules can be checked
// against the Go resolver.
package jsrt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
)

const rulesPlaceholder = "__STYLEOPTS_RULES__"

//go:embed boxsize.js
var boxsizeSource string

// Script returns the browser asset with rules injected. A nil table uses
// styleopts.RuleTable.
func Script(rules map[string]map[string]string) (string, error) {
	if rules == nil {
		rules = styleopts.RuleTable()
	}
	encoded, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("jsrt: encode rules: %w", err)
	}
	if !strings.Contains(boxsizeSource, rulesPlaceholder) {
		return "", fmt.Errorf("jsrt: asset is missing the rules placeholder")
	}
	return strings.Replace(boxsizeSource, rulesPlaceholder, string(encoded), 1), nil
}
