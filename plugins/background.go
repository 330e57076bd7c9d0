package plugins

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/internal/hydrate"
	"github.com/goliatone/go-style-options/pkg/css"
	"github.com/h2non/filetype"
)

// MethodCSS delegates background declarations to the style renderer.
const MethodCSS = "css"

// DefaultImageExtensions are accepted for managed file uploads.
var DefaultImageExtensions = []string{"gif", "png", "jpg", "jpeg"}

var (
	backgroundPositions = []styleopts.Choice{
		{Key: "left top", Label: "Left Top"},
		{Key: "center top", Label: "Center Top"},
		{Key: "right top", Label: "Right Top"},
		{Key: "left center", Label: "Left Center"},
		{Key: "center", Label: "Center"},
		{Key: "right center", Label: "Right Center"},
		{Key: "left bottom", Label: "Left Bottom"},
		{Key: "center bottom", Label: "Center Bottom"},
		{Key: "right bottom", Label: "Right Bottom"},
	}
	backgroundRepeats = []styleopts.Choice{
		{Key: "no-repeat", Label: "No repeat"},
		{Key: "repeat", Label: "Repeat"},
		{Key: "repeat-x", Label: "Repeat X"},
		{Key: "repeat-y", Label: "Repeat Y"},
	}
	backgroundAttachments = []styleopts.Choice{
		{Key: "not_fixed", Label: "Not Fixed"},
		{Key: "fixed", Label: "Fixed"},
	}
	backgroundSizes = []styleopts.Choice{
		{Key: "cover", Label: "Cover"},
		{Key: "contain", Label: "Contain"},
		{Key: "auto", Label: "Auto"},
	}
)

// BackgroundValue is the stored shape of a background option.
type BackgroundValue struct {
	Color string          `json:"bg_color,omitempty"`
	Image BackgroundImage `json:"bg_image"`
}

// BackgroundImage holds the image reference and its placement.
type BackgroundImage struct {
	Media      string  `json:"media,omitempty"`
	File       fileRef `json:"fid,omitempty"`
	Position   string  `json:"background_position,omitempty"`
	Repeat     string  `json:"background_repeat,omitempty"`
	Attachment string  `json:"background_attachment,omitempty"`
	Size       string  `json:"background_size,omitempty"`
}

// fileRef accepts a file id as a number, a string or a list whose first
// element is the id.
type fileRef string

func (f *fileRef) UnmarshalJSON(data []byte) error {
	var raw any
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			*f = ""
			return nil
		}
		raw = list[0]
	}
	*f = fileRef(styleopts.AsString(raw))
	return nil
}

// Background resolves an image reference and a colour into either inline
// declarations or a generated stylesheet.
type Background struct{}

func (Background) Kind() styleopts.Kind { return styleopts.KindBackground }

// DefaultConfig renders inline and accepts the default image extensions.
func (Background) DefaultConfig() map[string]any {
	extensions := make([]any, len(DefaultImageExtensions))
	for i, ext := range DefaultImageExtensions {
		extensions[i] = ext
	}
	return map[string]any{
		"method":           "inline",
		"background_image": map[string]any{"extensions": extensions},
	}
}

func (Background) ValidateConfig(def styleopts.Definition) error {
	switch method := def.ConfigString("method"); method {
	case "", "inline", MethodCSS:
	default:
		return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "method", Reason: fmt.Sprintf("unknown method %q", method)}
	}
	for _, ext := range imageExtensions(def) {
		if _, ok := mimeFor(ext); !ok {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "background_image.extensions", Reason: fmt.Sprintf("unsupported extension %q", ext)}
		}
	}
	return nil
}

func (Background) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, fc styleopts.FormContext) styleopts.FormSpec {
	value, _ := styleopts.DecodeValue[BackgroundValue](current)
	wrapper := []string{}
	if class := def.ConfigString("css_class"); class != "" {
		wrapper = append(wrapper, class)
	}

	color := styleopts.Field{
		Key:            "bg_color",
		Type:           styleopts.FieldColor,
		Title:          "Background Color",
		Default:        defaultOr(value.Color, def),
		Settings:       styleopts.AsMap(def.ConfigMap("background_color")["settings"]),
		WrapperClasses: wrapper,
	}
	image := styleopts.Field{
		Key:     "bg_image",
		Type:    styleopts.FieldFieldset,
		Title:   "Background Image",
		Classes: []string{"so-bg-image__wrapper"},
	}
	fields := []styleopts.Field{color}

	if fc.MediaLibrary {
		bundle := styleopts.AsString(def.ConfigMap("background_image")["background_image_bundle"])
		if bundle == "" {
			bundle = "image"
		}
		image.Children = append(image.Children, styleopts.Field{
			Key:            "media",
			Type:           styleopts.FieldMediaLibrary,
			Title:          "Media",
			Description:    "Media",
			AllowedBundles: []string{bundle},
			Default:        defaultOr(value.Image.Media, def),
		})
	} else {
		fields = append(fields, styleopts.Field{
			Key:            "fid",
			Type:           styleopts.FieldManagedFile,
			Title:          "Background Image",
			Default:        defaultOr(string(value.Image.File), def),
			Upload:         uploadValidators(def),
			WrapperClasses: wrapper,
		})
	}
	image.Children = append(image.Children,
		styleopts.Field{
			Key:     "background_position",
			Type:    styleopts.FieldRadios,
			Title:   "Position",
			Choices: backgroundPositions,
			Classes: []string{"so-bg-image__position"},
			Default: orDefault(value.Image.Position, "center"),
		},
		styleopts.Field{
			Key:     "background_repeat",
			Type:    styleopts.FieldRadios,
			Title:   "Repeat",
			Choices: backgroundRepeats,
			Default: orDefault(value.Image.Repeat, "no-repeat"),
		},
		styleopts.Field{
			Key:     "background_attachment",
			Type:    styleopts.FieldRadios,
			Title:   "Attachment",
			Choices: backgroundAttachments,
			Default: orDefault(value.Image.Attachment, "not_fixed"),
			Prefix:  "<hr />",
			Suffix:  "<hr />",
		},
		styleopts.Field{
			Key:     "background_size",
			Type:    styleopts.FieldRadios,
			Title:   "Size",
			Choices: backgroundSizes,
			Default: orDefault(value.Image.Size, "cover"),
			Suffix:  "<hr />",
		},
	)
	fields = append(fields, image)
	return styleopts.FormSpec{OptionID: def.OptionID, Fields: fields, Libraries: []string{LibraryBackground}}
}

var backgroundDecoder = hydrate.NewDecoder[BackgroundValue](
	hydrate.WithAllowNil[BackgroundValue](),
	hydrate.WithPreHook[BackgroundValue](hydrate.Drop(transientKeys...)),
	hydrate.WithPreHook[BackgroundValue](liftFileReference),
	hydrate.WithDisallowUnknownFields[BackgroundValue](),
	hydrate.WithPostHook[BackgroundValue](normalizeBackground),
)

// liftFileReference moves the top level managed file id into bg_image.
func liftFileReference(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	fid, ok := payload["fid"]
	if !ok {
		return payload, nil
	}
	delete(payload, "fid")
	image, _ := payload["bg_image"].(map[string]any)
	if image == nil {
		image = map[string]any{}
	}
	if _, has := image["fid"]; !has {
		image["fid"] = fid
	}
	payload["bg_image"] = image
	return payload, nil
}

// Submit decodes the background value. Decoding and normalization failures
// are invalid values.
func (Background) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	value, err := backgroundDecoder.Decode(hydrateContext(def), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", styleopts.ErrInvalidValue, err)
	}
	return styleopts.EncodeValue(value)
}

// normalizeBackground normalizes the colour and rejects placement values
// outside the offered choices.
func normalizeBackground(_ hydrate.Context, value *BackgroundValue) error {
	if value.Color != "" {
		normalized, ok := css.NormalizeColor(value.Color)
		if !ok {
			return fmt.Errorf("invalid colour %q", value.Color)
		}
		value.Color = normalized
	}
	checks := []struct {
		name    string
		value   string
		choices []styleopts.Choice
	}{
		{"background_position", value.Image.Position, backgroundPositions},
		{"background_repeat", value.Image.Repeat, backgroundRepeats},
		{"background_attachment", value.Image.Attachment, backgroundAttachments},
		{"background_size", value.Image.Size, backgroundSizes},
	}
	for _, check := range checks {
		if check.value != "" && !hasChoice(check.choices, check.value) {
			return fmt.Errorf("%s %q is not allowed", check.name, check.value)
		}
	}
	return nil
}

// ValidateUpload checks an uploaded file's leading bytes against the allowed
// image types.
func (Background) ValidateUpload(def styleopts.Definition, head []byte) error {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return invalidValue(def, "unrecognised upload")
	}
	for _, ext := range imageExtensions(def) {
		if mime, ok := mimeFor(ext); ok && mime == kind.MIME.Value {
			return nil
		}
	}
	return invalidValue(def, "upload type %s is not allowed", kind.MIME.Value)
}

// Build prefers the media indirection when the media reference is numeric and
// falls back to the direct file reference. With method css the declarations
// are handed to the style renderer; otherwise they are written inline.
func (Background) Build(def styleopts.Definition, value styleopts.Value, env styleopts.Env) styleopts.Artifact {
	var artifact styleopts.Artifact
	bg, err := styleopts.DecodeValue[BackgroundValue](value)
	if err != nil {
		artifact.Skip("background: " + err.Error())
		return artifact
	}
	url := resolveImageURL(def, bg.Image, env, &artifact)
	color := ""
	if bg.Color != "" {
		if normalized, ok := css.NormalizeColor(bg.Color); ok {
			color = normalized
		} else {
			artifact.Skip("bg_color: invalid colour " + bg.Color)
		}
	}
	if url == "" && color == "" {
		return artifact
	}

	if def.ConfigString("method") == MethodCSS {
		if env.Styles != nil {
			bundle := styleopts.StyleBundle{OptionID: def.OptionID, Class: OptionClass(def.OptionID), FileURL: url}
			if url != "" {
				bundle.Add("background-image", "url("+url+")")
			}
			bundle.Add("background-color", color)
			if url != "" {
				bundle.Add("background-position", bg.Image.Position)
				bundle.Add("background-repeat", bg.Image.Repeat)
				bundle.Add("background-attachment", attachment(bg.Image.Attachment))
				bundle.Add("background-size", bg.Image.Size)
			}
			sheet, err := env.Styles.RenderStyle(bundle)
			if err == nil {
				artifact.AddClass(bundle.Class)
				artifact.AddStylesheet(sheet)
				artifact.Attach(LibraryBackground)
				return artifact
			}
			artifact.Skip("background: style renderer: " + err.Error())
		} else {
			artifact.Skip("background: style renderer not configured")
		}
	}

	if url != "" {
		artifact.AddStyle("background-image", "url("+url+")")
	}
	if color != "" {
		artifact.AddStyle("background-color", color)
	}
	return artifact
}

func resolveImageURL(def styleopts.Definition, image BackgroundImage, env styleopts.Env, artifact *styleopts.Artifact) string {
	fileID := ""
	if isNumeric(image.Media) {
		field := styleopts.AsString(def.ConfigMap("background_image")["field"])
		if field == "" {
			field = "field_media_image"
		}
		if env.Media == nil {
			artifact.Skip("bg_image: media resolver not configured")
		} else if id, ok := env.Media.MediaFile(image.Media, field); ok {
			fileID = id
		} else {
			artifact.Skip("bg_image: media " + image.Media + " not found")
		}
	}
	if fileID == "" {
		fileID = string(image.File)
	}
	if fileID == "" {
		return ""
	}
	if env.Files == nil {
		artifact.Skip("bg_image: file resolver not configured")
		return ""
	}
	url, ok := env.Files.FileURL(fileID)
	if !ok || url == "" {
		artifact.Skip("bg_image: file " + fileID + " not found")
		return ""
	}
	if strings.ContainsAny(url, "()'\" ;") {
		artifact.Skip("bg_image: unsafe url " + url)
		return ""
	}
	return url
}

func uploadValidators(def styleopts.Definition) *styleopts.UploadValidators {
	extensions := imageExtensions(def)
	validators := &styleopts.UploadValidators{Extensions: extensions, Location: "public://"}
	for _, ext := range extensions {
		if mime, ok := mimeFor(ext); ok {
			validators.MIMETypes = appendUnique(validators.MIMETypes, mime)
		}
	}
	return validators
}

func imageExtensions(def styleopts.Definition) []string {
	if configured := styleopts.AsStrings(def.ConfigMap("background_image")["extensions"]); len(configured) > 0 {
		return configured
	}
	return DefaultImageExtensions
}

// mimeFor maps a file extension to its MIME type through the filetype
// registry, which only knows jpg for JPEG images.
func mimeFor(ext string) (string, bool) {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	kind := filetype.GetType(ext)
	if kind == filetype.Unknown {
		return "", false
	}
	return kind.MIME.Value, true
}

func attachment(value string) string {
	if value == "not_fixed" {
		return "scroll"
	}
	return value
}

func hasChoice(choices []styleopts.Choice, key string) bool {
	for _, choice := range choices {
		if choice.Key == key {
			return true
		}
	}
	return false
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	_, err := strconv.ParseUint(value, 10, 64)
	return err == nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
