package css

import (
	"fmt"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"go.uber.org/zap"
)

// Renderer turns style bundles into scoped stylesheets. It implements
// styleopts.StyleRenderer.
type Renderer struct {
	log *zap.Logger
}

// NewRenderer creates a renderer. A nil logger disables logging.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("css-renderer")}
}

// RenderStyle renders `.class { ... }` for the bundle. Declarations that do
// not validate are dropped and logged; a bundle without a class or without
// valid declarations is an error.
func (r *Renderer) RenderStyle(bundle styleopts.StyleBundle) (string, error) {
	class := strings.TrimSpace(bundle.Class)
	if class == "" {
		return "", fmt.Errorf("css: bundle for %q has no class", bundle.OptionID)
	}
	var b strings.Builder
	kept := 0
	for _, decl := range bundle.Declarations {
		if err := ValidateDeclaration(decl.Property, decl.Value); err != nil {
			r.log.Debug("Dropping declaration",
				zap.String("option", bundle.OptionID),
				zap.String("property", decl.Property),
				zap.Error(err))
			continue
		}
		b.WriteString("  ")
		b.WriteString(decl.Property)
		b.WriteString(": ")
		b.WriteString(decl.Value)
		b.WriteString(";\n")
		kept++
	}
	if kept == 0 {
		return "", fmt.Errorf("css: bundle for %q has no valid declarations", bundle.OptionID)
	}
	sheet := "." + class + " {\n" + b.String() + "}\n"
	if err := Validate(sheet); err != nil {
		return "", err
	}
	r.log.Debug("Rendered style", zap.String("option", bundle.OptionID), zap.Int("declarations", kept))
	return sheet, nil
}
