// Package mongostore keeps style option values in a MongoDB collection, one
// document per entity and option.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/state"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type document struct {
	ID       string          `bson:"_id"`
	Entity   string          `bson:"entity"`
	OptionID string          `bson:"option_id"`
	Value    styleopts.Value `bson:"value"`
	Meta     state.Meta      `bson:"meta"`
}

// Store implements state.Store on a collection. The document id is
// Ref.Identifier().
type Store struct {
	collection *mongo.Collection
}

// New returns a Store backed by collection.
func New(collection *mongo.Collection) *Store {
	return &Store{collection: collection}
}

// Load implements state.Store.
func (s *Store) Load(ctx context.Context, ref state.Ref) (styleopts.Value, state.Meta, bool, error) {
	id, err := ref.Identifier()
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	var doc document
	err = s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, state.Meta{}, false, nil
	}
	if err != nil {
		return nil, state.Meta{}, false, fmt.Errorf("mongostore: find %s: %w", id, err)
	}
	return normalize(doc.Value), doc.Meta, true, nil
}

// Save implements state.Store. Records are upserted by identifier.
func (s *Store) Save(ctx context.Context, ref state.Ref, value styleopts.Value, meta state.Meta) (state.Meta, error) {
	id, err := ref.Identifier()
	if err != nil {
		return state.Meta{}, err
	}
	doc := document{ID: id, Entity: ref.Entity, OptionID: ref.OptionID, Value: value, Meta: meta}
	_, err = s.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return state.Meta{}, fmt.Errorf("mongostore: replace %s: %w", id, err)
	}
	return meta, nil
}

// EntityValues returns every stored value for entity keyed by option id.
func (s *Store) EntityValues(ctx context.Context, entity string) (map[string]styleopts.Value, error) {
	cursor, err := s.collection.Find(ctx, bson.D{{Key: "entity", Value: entity}})
	if err != nil {
		return nil, fmt.Errorf("mongostore: find entity %s: %w", entity, err)
	}
	defer cursor.Close(ctx)
	out := map[string]styleopts.Value{}
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongostore: decode: %w", err)
		}
		out[doc.OptionID] = normalize(doc.Value)
	}
	return out, cursor.Err()
}

// normalize turns bson.M and bson.A produced by the driver back into plain
// maps and slices.
func normalize(value styleopts.Value) styleopts.Value {
	if value == nil {
		return nil
	}
	out := make(styleopts.Value, len(value))
	for k, v := range value {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch typed := v.(type) {
	case bson.M:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = plain(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(typed))
		for _, item := range typed {
			out[item.Key] = plain(item.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = plain(item)
		}
		return out
	case bson.A:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
