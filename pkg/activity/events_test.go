package activity

import "testing"

func TestBuildSubmittedEventCarriesMetadata(t *testing.T) {
	value := map[string]any{"css_class": "blue"}
	event := BuildSubmittedEvent(StyleOptionInput{
		Actor:      Actor{ActorID: "actor", UserID: "user"},
		OptionID:   "color",
		Plugin:     "color_picker",
		Entity:     "paragraph:12",
		SnapshotID: "snap-1",
		Value:      value,
		Metadata:   map[string]any{"custom": "x"},
	})

	if event.Verb != VerbSubmitted || event.ObjectType != ObjectOption || event.ObjectID != "color" {
		t.Fatalf("unexpected identity: %+v", event)
	}
	if event.ActorID != "actor" || event.UserID != "user" {
		t.Fatalf("unexpected actor fields: %+v", event)
	}
	for key, want := range map[string]any{
		"plugin":      "color_picker",
		"entity":      "paragraph:12",
		"snapshot_id": "snap-1",
		"custom":      "x",
	} {
		if event.Metadata[key] != want {
			t.Fatalf("expected metadata %s=%v, got %v", key, want, event.Metadata[key])
		}
	}
	if _, ok := event.Metadata["value"].(map[string]any); !ok {
		t.Fatalf("expected value metadata, got %T", event.Metadata["value"])
	}
}

func TestBuildOptionEventFallsBackToObjectType(t *testing.T) {
	event := BuildSavedEvent(StyleOptionInput{})
	if event.Verb != VerbSaved || event.ObjectID != ObjectOption || event.Metadata != nil {
		t.Fatalf("unexpected fallback event: %+v", event)
	}
}

func TestBuildRenderedEventObjectID(t *testing.T) {
	cases := []struct {
		name  string
		input RenderInput
		want  string
	}{
		{name: "entity", input: RenderInput{Entity: "paragraph:1", Context: "paragraphs"}, want: "paragraph:1"},
		{name: "context and bundle", input: RenderInput{Context: "paragraphs", Bundle: "hero"}, want: "paragraphs:hero"},
		{name: "context only", input: RenderInput{Context: "layout"}, want: "layout"},
		{name: "empty", input: RenderInput{}, want: ObjectRender},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := BuildRenderedEvent(tc.input)
			if event.ObjectID != tc.want {
				t.Fatalf("expected object id %q, got %q", tc.want, event.ObjectID)
			}
			if event.Verb != VerbRendered || event.ObjectType != ObjectRender {
				t.Fatalf("unexpected event: %+v", event)
			}
		})
	}
}

func TestBuildRenderedEventMetadata(t *testing.T) {
	event := BuildRenderedEvent(RenderInput{
		Context:    "paragraphs",
		Bundle:     "hero",
		Options:    []string{"spacing", "color"},
		Skipped:    []string{"background"},
		Collisions: 1,
	})
	options, ok := event.Metadata["options"].([]string)
	if !ok || len(options) != 2 || options[0] != "spacing" {
		t.Fatalf("unexpected options metadata: %v", event.Metadata["options"])
	}
	if event.Metadata["collisions"] != 1 || event.Metadata["bundle"] != "hero" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if skipped, ok := event.Metadata["skipped"].([]string); !ok || skipped[0] != "background" {
		t.Fatalf("unexpected skipped metadata: %v", event.Metadata["skipped"])
	}
}
