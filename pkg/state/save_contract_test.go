package state_test

import (
	"context"
	"encoding/json"
	"testing"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/state"
)

type saveFixture struct {
	Description string     `json:"description"`
	Cases       []saveCase `json:"cases"`
}

type saveCase struct {
	Name string    `json:"name"`
	Ref  state.Ref `json:"ref"`
	Save struct {
		Value styleopts.Value `json:"value"`
		Meta  state.Meta      `json:"meta"`
	} `json:"save"`
	Expect struct {
		Meta        state.Meta      `json:"meta"`
		LoadOK      bool            `json:"load_ok"`
		LoadedMeta  state.Meta      `json:"loaded_meta"`
		LoadedValue styleopts.Value `json:"loaded_value"`
	} `json:"expect"`
}

// runSaveContracts checks a Store against the shared save fixture.
func runSaveContracts(t *testing.T, newStore func(t *testing.T) state.Store) {
	t.Helper()
	fx := loadFixture[saveFixture](t, "state_save.json")
	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			// Ensure any pre-existing record is overwritten.
			if _, err := store.Save(ctx, tc.Ref, styleopts.Value{"_": "old"}, state.Meta{SnapshotID: "old", ETag: "old"}); err != nil {
				t.Fatalf("seed: %v", err)
			}

			gotMeta, err := store.Save(ctx, tc.Ref, tc.Save.Value, tc.Save.Meta)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if diff := cmpJSON(tc.Expect.Meta, gotMeta); diff != "" {
				t.Fatalf("save meta mismatch: %s", diff)
			}

			gotValue, gotLoadedMeta, ok, err := store.Load(ctx, tc.Ref)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if ok != tc.Expect.LoadOK {
				t.Fatalf("expected ok=%t, got ok=%t", tc.Expect.LoadOK, ok)
			}
			if !ok {
				return
			}

			if diff := cmpJSON(tc.Expect.LoadedMeta, gotLoadedMeta); diff != "" {
				t.Fatalf("load meta mismatch: %s", diff)
			}
			if diff := cmpJSON(tc.Expect.LoadedValue, gotValue); diff != "" {
				t.Fatalf("load value mismatch: %s", diff)
			}
		})
	}
}

func TestMemoryStoreSaveContracts(t *testing.T) {
	runSaveContracts(t, func(*testing.T) state.Store { return state.NewMemoryStore() })
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Entity: "node:1", OptionID: "spacing"}
	value := styleopts.Value{"margin": map[string]any{"top": "2"}}
	if _, err := store.Save(context.Background(), ref, value, state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	value["margin"].(map[string]any)["top"] = "9"

	loaded, _, ok, err := store.Load(context.Background(), ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if got := loaded.Map("margin")["top"]; got != "2" {
		t.Fatalf("expected stored copy to keep 2, got %v", got)
	}
	loaded["margin"].(map[string]any)["top"] = "7"
	again, _, _, _ := store.Load(context.Background(), ref)
	if got := again.Map("margin")["top"]; got != "2" {
		t.Fatalf("expected loads to be copies, got %v", got)
	}
}

func TestMemoryStoreMissingRef(t *testing.T) {
	store := state.NewMemoryStore()
	_, _, ok, err := store.Load(context.Background(), state.Ref{Entity: "node:1", OptionID: "none"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing ref")
	}
	if _, err := store.Save(context.Background(), state.Ref{}, styleopts.Value{}, state.Meta{}); err == nil {
		t.Fatalf("expected invalid ref error")
	}
}

func cmpJSON(want, got any) string {
	wantRaw, err := json.Marshal(want)
	if err != nil {
		return "marshal want: " + err.Error()
	}
	gotRaw, err := json.Marshal(got)
	if err != nil {
		return "marshal got: " + err.Error()
	}
	if string(wantRaw) == string(gotRaw) {
		return ""
	}
	return "want=" + string(wantRaw) + " got=" + string(gotRaw)
}
