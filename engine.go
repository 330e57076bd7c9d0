package styleopts

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-style-options/pkg/activity"
	"go.uber.org/multierr"
)

// RenderContext describes where a set of options is being rendered. Conditions
// see these fields as context, bundle, region and metadata.
type RenderContext struct {
	Context  string
	Bundle   string
	Region   string
	Entity   string
	Metadata map[string]any
}

// RenderRequest lists the definitions to render, in registration order, and
// their submitted values keyed by option id.
type RenderRequest struct {
	Definitions []Definition
	Values      map[string]Value
	Context     RenderContext
}

// RenderResult is the merged tree plus per option bookkeeping.
type RenderResult struct {
	Tree      RenderTree
	Artifacts []NamedArtifact
	// Skipped lists option ids that contributed nothing.
	Skipped []string
}

// Engine dispatches definitions to plugins and merges their artifacts.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	registry *Registry
	cfg      engineConfig
	emitter  *activity.Emitter
}

// NewEngine constructs an engine over registry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	cfg := applyOptions(opts)
	return &Engine{
		registry: registry,
		cfg:      cfg,
		emitter:  activity.NewEmitter(cfg.activityHooks, cfg.channel),
	}
}

// Registry returns the plugin registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Validate checks definitions at setup time: option ids are present and
// unique, plugin kinds are registered, conditions compile, and plugins that
// implement ConfigValidator accept their config. All problems are reported.
func (e *Engine) Validate(defs []Definition) error {
	var err error
	seen := map[string]struct{}{}
	for _, def := range defs {
		if def.OptionID == "" {
			err = multierr.Append(err, &ConfigurationError{Field: "option_id", Reason: "option id is required"})
			continue
		}
		if _, dup := seen[def.OptionID]; dup {
			err = multierr.Append(err, &ConfigurationError{OptionID: def.OptionID, Field: "option_id", Reason: "duplicate option id"})
			continue
		}
		seen[def.OptionID] = struct{}{}

		plugin, lookupErr := e.registry.Lookup(def.Plugin)
		if lookupErr != nil {
			err = multierr.Append(err, fmt.Errorf("option %s: %w", def.OptionID, lookupErr))
			continue
		}
		if validator, ok := plugin.(ConfigValidator); ok {
			err = multierr.Append(err, validator.ValidateConfig(def))
		}
		if def.When != "" {
			condErr := e.cfg.evaluator.Compile(def.When)
			err = multierr.Append(err, wrapEvaluationError(e.cfg.evaluator.Engine(), def.When, def.OptionID, condErr))
		}
	}
	return err
}

// Form builds the configuration form for def.
func (e *Engine) Form(def Definition, current Value, fc FormContext) (FormSpec, error) {
	plugin, err := e.registry.Lookup(def.Plugin)
	if err != nil {
		return FormSpec{}, err
	}
	if fc.Styles == nil {
		fc.Styles = e.cfg.env.Styles
	}
	if fc.Themes == nil {
		fc.Themes = e.cfg.env.Themes
	}
	form := plugin.BuildConfigurationForm(def, current, fc)
	if form.OptionID == "" {
		form.OptionID = def.OptionID
	}
	return form, nil
}

// Submit normalizes raw form input for def. For box size options this is where
// lock resolution makes the stored value canonical.
func (e *Engine) Submit(ctx context.Context, def Definition, raw map[string]any) (Value, error) {
	plugin, err := e.registry.Lookup(def.Plugin)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	value, err := plugin.Submit(def, raw)
	e.cfg.logger.LogEvent(LogEvent{
		Level:    levelFor(err),
		Message:  "option submitted",
		OptionID: def.OptionID,
		Plugin:   def.Plugin,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, fmt.Errorf("styleopts: submit %s: %w", def.OptionID, err)
	}
	actor, _ := activity.ActorFromContext(ctx)
	e.emit(ctx, activity.BuildSubmittedEvent(activity.StyleOptionInput{
		Actor:      actor,
		OptionID:   def.OptionID,
		Plugin:     string(def.Plugin),
		Value:      map[string]any(value),
		OccurredAt: e.cfg.now(),
	}))
	return value, nil
}

// ValidateUpload checks the leading bytes of an upload against the types the
// option accepts.
func (e *Engine) ValidateUpload(def Definition, head []byte) error {
	plugin, err := e.registry.Lookup(def.Plugin)
	if err != nil {
		return err
	}
	validator, ok := plugin.(UploadValidator)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUploadsUnsupported, def.OptionID)
	}
	err = validator.ValidateUpload(def, head)
	e.cfg.logger.LogEvent(LogEvent{
		Level:    levelFor(err),
		Message:  "upload checked",
		OptionID: def.OptionID,
		Plugin:   def.Plugin,
		Fields:   map[string]any{"bytes": len(head)},
		Err:      err,
	})
	if err != nil {
		return fmt.Errorf("styleopts: upload %s: %w", def.OptionID, err)
	}
	return nil
}

// Build renders a single option. Unknown plugins yield an empty artifact.
func (e *Engine) Build(def Definition, value Value) Artifact {
	plugin, err := e.registry.Lookup(def.Plugin)
	if err != nil {
		e.cfg.logger.LogEvent(LogEvent{Level: LevelWarn, Message: "plugin not registered", OptionID: def.OptionID, Plugin: def.Plugin, Err: err})
		return Artifact{}
	}
	if value.Empty() {
		return Artifact{}
	}
	artifact := plugin.Build(def, value, e.cfg.env)
	if len(artifact.Skipped) > 0 {
		e.cfg.logger.LogEvent(LogEvent{
			Level:    LevelDebug,
			Message:  "option entries skipped",
			OptionID: def.OptionID,
			Plugin:   def.Plugin,
			Fields:   map[string]any{"skipped": append([]string{}, artifact.Skipped...)},
		})
	}
	return artifact
}

// Render builds every applicable definition and merges the artifacts in
// definition order. Options whose condition is false or fails, whose plugin
// is unknown, or whose value is empty contribute nothing. The returned error
// only carries auxiliary key collisions; the result is always usable.
func (e *Engine) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	result := RenderResult{}
	for _, def := range req.Definitions {
		condCtx := ConditionContext{
			Context:  req.Context.Context,
			Bundle:   req.Context.Bundle,
			Region:   req.Context.Region,
			OptionID: def.OptionID,
			Metadata: req.Context.Metadata,
			Now:      e.cfg.now(),
		}
		applies, err := evaluateCondition(e.cfg.evaluator, e.cfg.logger, condCtx, def.When)
		if err != nil {
			e.cfg.logger.LogEvent(LogEvent{Level: LevelWarn, Message: "condition failed", OptionID: def.OptionID, Expr: def.When, Err: err})
		}
		if !applies {
			result.Skipped = append(result.Skipped, def.OptionID)
			continue
		}
		artifact := e.Build(def, req.Values[def.OptionID])
		if artifact.Empty() {
			result.Skipped = append(result.Skipped, def.OptionID)
			continue
		}
		result.Artifacts = append(result.Artifacts, NamedArtifact{OptionID: def.OptionID, Artifact: artifact})
	}

	tree, err := Merge(result.Artifacts...)
	result.Tree = tree
	collisions := Collisions(err)
	for _, collision := range collisions {
		e.cfg.logger.LogEvent(LogEvent{Level: LevelError, Message: "auxiliary key collision", OptionID: collision.Second, Err: collision})
	}

	actor, _ := activity.ActorFromContext(ctx)
	options := make([]string, len(result.Artifacts))
	for i, named := range result.Artifacts {
		options[i] = named.OptionID
	}
	e.emit(ctx, activity.BuildRenderedEvent(activity.RenderInput{
		Actor:      actor,
		Context:    req.Context.Context,
		Bundle:     req.Context.Bundle,
		Entity:     req.Context.Entity,
		Options:    options,
		Skipped:    result.Skipped,
		Collisions: len(collisions),
		OccurredAt: e.cfg.now(),
	}))
	return result, err
}

func (e *Engine) emit(ctx context.Context, event activity.Event) {
	if !e.emitter.Enabled() {
		return
	}
	if err := e.emitter.Emit(ctx, event); err != nil {
		e.cfg.logger.LogEvent(LogEvent{Level: LevelWarn, Message: "activity hook failed", OptionID: event.ObjectID, Err: err})
	}
}

func levelFor(err error) string {
	if err != nil {
		return LevelError
	}
	return LevelDebug
}
