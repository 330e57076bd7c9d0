package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/state"
	"github.com/goliatone/go-style-options/pkg/state/mongostore"
	"github.com/goliatone/go-style-options/pkg/state/redisstore"
)

type submitOpts struct {
	entity string
	etag   string
	redis  string // redis address
	mongo  string // mongo connection uri
}

// submitOutput is printed when a submission is persisted.
type submitOutput struct {
	Value styleopts.Value `json:"value"`
	Meta  state.Meta      `json:"meta"`
}

func (c *CLI) submitCommand() *cobra.Command {
	var opts submitOpts

	cmd := &cobra.Command{
		Use:   "submit [catalog] [option-id] [input.json|-]",
		Short: "Normalize raw form input into a stored value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			def, err := catalogDefinition(catalog, args[1])
			if err != nil {
				return err
			}
			var raw map[string]any
			if err := c.readJSON(args[2], &raw); err != nil {
				return err
			}
			return c.runSubmit(cmd.Context(), def, raw, opts)
		},
	}

	cmd.Flags().StringVar(&opts.entity, "entity", "", "entity id to store the value on")
	cmd.Flags().StringVar(&opts.etag, "etag", "", "expected etag of the stored value")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address used with --entity")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "mongo uri used with --entity")

	return cmd
}

func (c *CLI) runSubmit(ctx context.Context, def styleopts.Definition, raw map[string]any, opts submitOpts) error {
	engine := c.newEngine()
	if opts.entity == "" {
		value, err := engine.Submit(ctx, def, raw)
		if err != nil {
			return err
		}
		return c.writeJSON(value)
	}

	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := state.Repository{Store: store, Submitter: engine}
	value, meta, err := repo.Submit(ctx, state.Ref{Entity: opts.entity, OptionID: def.OptionID}, def, raw, state.Meta{ETag: opts.etag})
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Info("stored", "entity", opts.entity, "option", def.OptionID, "snapshot", meta.SnapshotID)
	return c.writeJSON(submitOutput{Value: value, Meta: meta})
}

// openStore picks redis, then mongo, then an in-process store.
func openStore(ctx context.Context, opts submitOpts) (state.Store, func(), error) {
	switch {
	case opts.redis != "":
		client := redis.NewClient(&redis.Options{Addr: opts.redis})
		return redisstore.New(client), func() { _ = client.Close() }, nil
	case opts.mongo != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.mongo))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		collection := client.Database("styleopts").Collection("values")
		return mongostore.New(collection), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return state.NewMemoryStore(), func() {}, nil
	}
}
