package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	styleopts "github.com/goliatone/go-style-options"
)

const testCatalog = `
options:
  - option_id: spacing
    plugin: boxsize
  - option_id: hero_class
    plugin: css_class
    when: 'bundle == "hero"'
    config:
      options:
        wide: {label: Wide, class: is-wide}
  - option_id: lede_class
    plugin: css_class
    when: 'bundle == "lede"'
contexts:
  paragraphs:
    hero: [hero_class, spacing, lede_class]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	c.SetOutput(&out)
	c.SetInput(strings.NewReader(stdin))
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, _, err := execute(t, "", "resolve", "--x", "--top", "4", "--left", "2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var got resolveOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := styleopts.DirectionalValueSet{Top: "4", Right: "2", Bottom: styleopts.DefaultValue, Left: "2"}
	if got.Values != want {
		t.Fatalf("want %+v, got %+v", want, got.Values)
	}
	if got.Lock != "1-0-0" || len(got.Derived) != 1 || got.Derived[0] != "right" {
		t.Fatalf("unexpected output %+v", got)
	}
}

func TestSubmitCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", testCatalog)
	input := `{"margin": {"lock": {"y": "y"}, "top": "3", "bottom": "9"}}`

	out, _, err := execute(t, input, "submit", catalog, "spacing", "-")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	var value styleopts.Value
	if err := json.Unmarshal([]byte(out), &value); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got := value.BoxSize()["margin"].Bottom; got != "3" {
		t.Fatalf("expected y lock to copy top, got %q", got)
	}

	out, logs, err := execute(t, input, "submit", catalog, "spacing", "-", "--entity", "node:1")
	if err != nil {
		t.Fatalf("submit with entity: %v", err)
	}
	var stored submitOutput
	if err := json.Unmarshal([]byte(out), &stored); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if stored.Meta.SnapshotID == "" || stored.Meta.ETag == "" {
		t.Fatalf("expected snapshot meta, got %+v", stored.Meta)
	}
	if !strings.Contains(logs, "stored") {
		t.Fatalf("expected stored log line, got %q", logs)
	}

	if _, _, err := execute(t, input, "submit", catalog, "ghost", "-"); err == nil {
		t.Fatalf("expected unknown option error")
	}
}

func TestRenderCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", testCatalog)
	values := `{
		"hero_class": {"css_class": "wide"},
		"spacing": {"margin": {"lock": {"x": false, "y": false, "all": true}, "top": "2", "right": "2", "bottom": "2", "left": "2"}}
	}`

	out, logs, err := execute(t, values, "render", catalog, "-", "--context", "paragraphs", "--bundle", "hero")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got renderOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	classes := styleopts.AsStrings(got.Attributes["class"])
	want := []string{"is-wide", "u-mt-2", "u-mr-2", "u-mb-2", "u-ml-2"}
	if strings.Join(classes, " ") != strings.Join(want, " ") {
		t.Fatalf("want classes %v, got %v", want, classes)
	}
	if len(got.Skipped) != 1 || got.Skipped[0] != "lede_class" {
		t.Fatalf("expected lede_class skipped by its condition, got %v", got.Skipped)
	}
	if !strings.Contains(logs, "rendering") {
		t.Fatalf("expected debug log, got %q", logs)
	}

	if _, _, err := execute(t, values, "render", catalog, "-"); err == nil {
		t.Fatalf("expected missing --context error")
	}
}

func TestFormCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", testCatalog)

	out, _, err := execute(t, "", "form", catalog, "hero_class")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	var form styleopts.FormSpec
	if err := json.Unmarshal([]byte(out), &form); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if form.OptionID != "hero_class" || len(form.Fields) != 1 || form.Fields[0].Type != styleopts.FieldSelect {
		t.Fatalf("unexpected form %+v", form)
	}

	out, _, err = execute(t, "", "form", catalog, "spacing", "--openapi")
	if err != nil {
		t.Fatalf("form --openapi: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("expected OpenAPI 3.0.3 document, got %v", doc["openapi"])
	}
}

func TestUploadCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", `
options:
  - option_id: hero_bg
    plugin: background
  - option_id: spacing
    plugin: boxsize
`)
	png := string([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D})

	out, logs, err := execute(t, png, "upload", catalog, "hero_bg", "-")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var got uploadOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !got.Accepted || got.Option != "hero_bg" {
		t.Fatalf("unexpected output %+v", got)
	}
	if !strings.Contains(logs, "upload accepted") {
		t.Fatalf("expected debug log, got %q", logs)
	}

	if _, _, err := execute(t, "%PDF-1.7\n", "upload", catalog, "hero_bg", "-"); !errors.Is(err, styleopts.ErrInvalidValue) {
		t.Fatalf("expected pdf to be rejected, got %v", err)
	}
	if _, _, err := execute(t, png, "upload", catalog, "spacing", "-"); !errors.Is(err, styleopts.ErrUploadsUnsupported) {
		t.Fatalf("expected box size to refuse uploads, got %v", err)
	}
}

func TestScriptCommand(t *testing.T) {
	out, _, err := execute(t, "", "script")
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !strings.Contains(out, `"1-0-0":{"right":"left"}`) {
		t.Fatalf("expected rule table in script")
	}

	rules := writeFile(t, "rules.json", `{"0-0-0": {"left": "right"}}`)
	out, _, err = execute(t, "", "script", "--rules", rules)
	if err != nil {
		t.Fatalf("script --rules: %v", err)
	}
	if !strings.Contains(out, `{"0-0-0":{"left":"right"}}`) {
		t.Fatalf("expected custom rules in script")
	}
}

func TestEventLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := eventLogger{logger: newLogger(&buf, log.InfoLevel)}

	logger.LogEvent(styleopts.LogEvent{Level: styleopts.LevelDebug, Message: "hidden"})
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
	logger.LogEvent(styleopts.LogEvent{Level: styleopts.LevelWarn, Message: "condition failed", OptionID: "hero", Fields: map[string]any{"b": 2, "a": 1}})
	got := buf.String()
	if !strings.Contains(got, "condition failed") || !strings.Contains(got, "option=hero") {
		t.Fatalf("unexpected log %q", got)
	}
	if strings.Index(got, "a=1") > strings.Index(got, "b=2") {
		t.Fatalf("expected sorted fields, got %q", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Fatalf("expected default logger")
	}
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Fatalf("expected attached logger")
	}
}
