// Package css validates and renders the small CSS fragments style options
// produce: inline declarations, swatch stylesheets and background rules.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalid reports CSS the parser rejected.
var ErrInvalid = errors.New("css: invalid")

// ValidateDeclaration checks that property and value form exactly one inline
// declaration.
func ValidateDeclaration(property, value string) error {
	property = strings.TrimSpace(property)
	value = strings.TrimSpace(value)
	if property == "" || value == "" {
		return fmt.Errorf("%w: empty declaration %q: %q", ErrInvalid, property, value)
	}
	if strings.ContainsAny(value, ";{}") {
		return fmt.Errorf("%w: value %q for %s contains a delimiter", ErrInvalid, value, property)
	}
	parser := css.NewParser(parse.NewInput(strings.NewReader(property+": "+value)), true)
	count := 0
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, property, err)
			}
			if count != 1 {
				return fmt.Errorf("%w: expected one declaration for %s, got %d", ErrInvalid, property, count)
			}
			return nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if !strings.EqualFold(string(data), property) {
				return fmt.Errorf("%w: unexpected property %q", ErrInvalid, data)
			}
			count++
		default:
			return fmt.Errorf("%w: unexpected %s in declaration %s", ErrInvalid, gt, property)
		}
	}
}

// Rule is one parsed ruleset.
type Rule struct {
	Selector     string
	Declarations int
}

// Parse walks a stylesheet and returns its top-level rulesets. At-rule blocks
// are skipped. Parse errors are returned wrapped in ErrInvalid.
func Parse(stylesheet string) ([]Rule, error) {
	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(stylesheet))), false)
	var rules []Rule
	var current *Rule
	depth := 0
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return rules, fmt.Errorf("%w: %v", ErrInvalid, err)
			}
			return rules, nil
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			if depth > 0 {
				continue
			}
			selector := selectorText(data, parser.Values())
			rules = append(rules, Rule{Selector: selector})
			current = &rules[len(rules)-1]
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if current != nil && depth == 0 {
				current.Declarations++
			}
		case css.EndRulesetGrammar:
			current = nil
		}
	}
}

// Validate reports whether stylesheet parses cleanly. Unbalanced braces and
// markup that could close the surrounding style element are rejected.
func Validate(stylesheet string) error {
	if strings.Contains(stylesheet, "<") {
		return fmt.Errorf("%w: stylesheet contains markup", ErrInvalid)
	}
	depth := 0
	for _, r := range stylesheet {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected closing brace", ErrInvalid)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced braces", ErrInvalid)
	}
	_, err := Parse(stylesheet)
	return err
}

func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}
