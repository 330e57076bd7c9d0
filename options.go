package styleopts

import (
	"sync"
	"time"

	"github.com/goliatone/go-style-options/pkg/activity"
)

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger        Logger
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	activityHooks activity.Hooks
	channel       string
	env           Env
	now           func() time.Time
}

func applyOptions(opts []Option) engineConfig {
	cfg := engineConfig{
		logger:  noopLogger{},
		channel: "style_options",
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.programCache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		cfg.evaluator = NewExprEvaluator(exprOpts...)
	}
	if cfg.env.Logger == nil {
		cfg.env.Logger = cfg.logger
	}
	return cfg
}

// WithLogger attaches a logger to the engine. A nil logger discards events.
func WithLogger(logger Logger) Option {
	return func(cfg *engineConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithEvaluator replaces the default expr condition evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *engineConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *engineConfig) {
		cfg.programCache = cache
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *engineConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the default "style_options" channel.
func WithActivityChannel(channel string) Option {
	return func(cfg *engineConfig) {
		if channel != "" {
			cfg.channel = channel
		}
	}
}

// WithEnv sets the build collaborators handed to plugins.
func WithEnv(env Env) Option {
	return func(cfg *engineConfig) {
		cfg.env = env
	}
}

// WithClock overrides the time source used for activity timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *engineConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// MemoryProgramCache is a concurrency-safe in-process ProgramCache.
type MemoryProgramCache struct {
	programs sync.Map
}

// NewProgramCache returns an empty MemoryProgramCache.
func NewProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	return c.programs.Load(key)
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.programs.Store(key, value)
}
