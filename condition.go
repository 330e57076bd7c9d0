package styleopts

import (
	"fmt"
	"time"
)

// ConditionContext is the environment a definition `When` condition sees.
type ConditionContext struct {
	Context  string
	Bundle   string
	Region   string
	OptionID string
	Metadata map[string]any
	Now      time.Time
}

func (c ConditionContext) withDefaults() ConditionContext {
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	return c
}

func (c ConditionContext) variables() map[string]any {
	return map[string]any{
		"context":  c.Context,
		"bundle":   c.Bundle,
		"region":   c.Region,
		"option":   c.OptionID,
		"metadata": c.Metadata,
		"now":      c.Now,
	}
}

// Evaluator decides whether a definition applies in a render context.
type Evaluator interface {
	Engine() string
	Compile(expression string) error
	Evaluate(ctx ConditionContext, expression string) (bool, error)
}

// ProgramCache stores compiled condition programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

func asBool(engine string, expression string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, &EvaluationError{
			Engine: engine,
			Expr:   expression,
			Err:    fmt.Errorf("condition returned %T, want bool", value),
		}
	}
}

// evaluateCondition runs expression with timing and logging. An empty
// expression always applies.
func evaluateCondition(evaluator Evaluator, logger Logger, ctx ConditionContext, expression string) (bool, error) {
	if expression == "" {
		return true, nil
	}
	if evaluator == nil {
		return false, ErrNoEvaluator
	}
	ctx = ctx.withDefaults()
	start := time.Now()
	ok, err := evaluator.Evaluate(ctx, expression)
	err = wrapEvaluationError(evaluator.Engine(), expression, ctx.OptionID, err)
	logger.LogEvent(LogEvent{
		Level:    LevelDebug,
		Message:  "condition evaluated",
		OptionID: ctx.OptionID,
		Engine:   evaluator.Engine(),
		Expr:     expression,
		Duration: time.Since(start),
		Fields:   map[string]any{"result": ok},
		Err:      err,
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}
