package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/activity"
	"github.com/google/uuid"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies the stored value of one option on one entity.
type Ref struct {
	Entity   string `json:"entity"`
	OptionID string `json:"option_id"`
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty" bson:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty" bson:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Store loads and saves one value for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (value styleopts.Value, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, value styleopts.Value, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	entity := strings.TrimSpace(r.Entity)
	option := strings.TrimSpace(r.OptionID)
	if entity == "" {
		return "", fmt.Errorf("state: entity is required")
	}
	if option == "" {
		return "", fmt.Errorf("state: option id is required")
	}
	if strings.Contains(option, "/") {
		return "", fmt.Errorf("state: option id %q must not contain /", option)
	}
	return fmt.Sprintf("entity/%s/option/%s", entity, option), nil
}

// Submitter normalizes raw form input. *styleopts.Engine satisfies it.
type Submitter interface {
	Submit(ctx context.Context, def styleopts.Definition, raw map[string]any) (styleopts.Value, error)
}

// Repository stores canonical option values.
type Repository struct {
	Store     Store
	Submitter Submitter
	// Emitter receives style_option.saved events; nil disables them.
	Emitter *activity.Emitter
	Now     func() time.Time
	NewID   func() string
}

// Submit resolves raw through the submitter and saves the result. A non-empty
// meta.ETag must match the stored ETag. The saved meta carries a fresh
// snapshot id and an ETag derived from the stored value.
func (r Repository) Submit(ctx context.Context, ref Ref, def styleopts.Definition, raw map[string]any, meta Meta) (styleopts.Value, Meta, error) {
	if r.Submitter == nil {
		return nil, Meta{}, fmt.Errorf("state: submitter is required")
	}
	if ref.OptionID == "" {
		ref.OptionID = def.OptionID
	}
	if ref.OptionID != def.OptionID {
		return nil, Meta{}, fmt.Errorf("state: ref option %q does not match definition %q", ref.OptionID, def.OptionID)
	}
	value, err := r.Submitter.Submit(ctx, def, raw)
	if err != nil {
		return nil, Meta{}, err
	}
	saved, err := r.Save(ctx, ref, value, meta)
	if err != nil {
		return nil, saved, err
	}
	actor, _ := activity.ActorFromContext(ctx)
	if r.Emitter.Enabled() {
		_ = r.Emitter.Emit(ctx, activity.BuildSavedEvent(activity.StyleOptionInput{
			Actor:      actor,
			OptionID:   def.OptionID,
			Plugin:     string(def.Plugin),
			Entity:     ref.Entity,
			SnapshotID: saved.SnapshotID,
			Value:      map[string]any(value),
			OccurredAt: saved.UpdatedAt,
		}))
	}
	return value, saved, nil
}

// Save stores an already canonical value with the same ETag check as Submit.
func (r Repository) Save(ctx context.Context, ref Ref, value styleopts.Value, meta Meta) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}
	_, loaded, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %s/%s: %w", ref.Entity, ref.OptionID, err)
	}
	if !ok {
		loaded = Meta{}
	}
	if meta.ETag != "" && loaded.ETag != "" && meta.ETag != loaded.ETag {
		return loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loaded.ETag)
	}

	etag, err := ETag(value)
	if err != nil {
		return loaded, err
	}
	next := mergeMeta(loaded, Meta{Extra: meta.Extra})
	next.SnapshotID = r.newID()
	next.ETag = etag
	next.UpdatedAt = r.now()

	saved, err := r.Store.Save(ctx, ref, value, next)
	if err != nil {
		return loaded, fmt.Errorf("state: save %s/%s: %w", ref.Entity, ref.OptionID, err)
	}
	return saved, nil
}

// Load returns the stored value for ref.
func (r Repository) Load(ctx context.Context, ref Ref) (styleopts.Value, Meta, bool, error) {
	if r.Store == nil {
		return nil, Meta{}, false, fmt.Errorf("state: store is required")
	}
	return r.Store.Load(ctx, ref)
}

// Values loads the stored values of defs on entity, keyed by option id, ready
// for a render request. Options without a stored value are left out.
func (r Repository) Values(ctx context.Context, entity string, defs []styleopts.Definition) (map[string]styleopts.Value, error) {
	out := make(map[string]styleopts.Value, len(defs))
	for _, def := range defs {
		value, _, ok, err := r.Load(ctx, Ref{Entity: entity, OptionID: def.OptionID})
		if err != nil {
			return nil, fmt.Errorf("state: load %s/%s: %w", entity, def.OptionID, err)
		}
		if ok {
			out[def.OptionID] = value
		}
	}
	return out, nil
}

func (r Repository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

func (r Repository) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

// ETag hashes the JSON form of value. Map keys marshal sorted, so equal values
// share an ETag.
func ETag(value styleopts.Value) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("state: etag: %w", err)
	}
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:8]) + `"`, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

// record is the blob layout for stores that keep one document per reference.
type record struct {
	Value styleopts.Value `json:"value"`
	Meta  Meta            `json:"meta"`
}

// Encode serializes value and meta as JSON.
func Encode(value styleopts.Value, meta Meta) ([]byte, error) {
	data, err := json.Marshal(record{Value: value, Meta: meta})
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	return data, nil
}

// Decode reverses Encode. Numbers decode as json.Number.
func Decode(data []byte) (styleopts.Value, Meta, error) {
	var rec struct {
		Value json.RawMessage `json:"value"`
		Meta  Meta            `json:"meta"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, Meta{}, fmt.Errorf("state: decode: %w", err)
	}
	var value styleopts.Value
	if len(rec.Value) > 0 && string(rec.Value) != "null" {
		decoder := json.NewDecoder(strings.NewReader(string(rec.Value)))
		decoder.UseNumber()
		if err := decoder.Decode(&value); err != nil {
			return nil, Meta{}, fmt.Errorf("state: decode value: %w", err)
		}
	}
	return value, rec.Meta, nil
}
