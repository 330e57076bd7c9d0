package styleopts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPlugin indicates a definition names a plugin kind with no
	// registered implementation.
	ErrUnknownPlugin = errors.New("styleopts: unknown plugin")
	// ErrNoEvaluator indicates a condition was present but no evaluator could be
	// constructed.
	ErrNoEvaluator = errors.New("styleopts: evaluator not configured")
	// ErrInvalidValue indicates a submission the plugin cannot store.
	ErrInvalidValue = errors.New("styleopts: invalid value")
	// ErrUploadsUnsupported indicates an upload for an option whose plugin
	// takes no files.
	ErrUploadsUnsupported = errors.New("styleopts: option does not accept uploads")
)

// ConfigurationError reports malformed or missing static configuration. It is
// raised at setup time and never defaulted silently.
type ConfigurationError struct {
	OptionID string
	Field    string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("styleopts: configuration")
	if e.OptionID != "" {
		fmt.Fprintf(&b, " option=%s", e.OptionID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field=%s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// CollisionError reports two artifacts contributing the same auxiliary key.
type CollisionError struct {
	Key    string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("styleopts: auxiliary key %q from %s collides with %s", e.Key, e.Second, e.First)
}

// EvaluationError captures condition metadata alongside the originating error.
type EvaluationError struct {
	Engine   string
	Expr     string
	OptionID string
	Err      error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("styleopts: %s condition %s option=%s: %v", e.Engine, describeExpression(e.Expr), e.OptionID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engine, expr, optionID string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.OptionID == "" {
			evalErr.OptionID = optionID
		}
		return evalErr
	}

	return &EvaluationError{
		Engine:   engine,
		Expr:     expr,
		OptionID: optionID,
		Err:      err,
	}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
