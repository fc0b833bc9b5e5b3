// Package widget models named sidebar and footer widgets. Each widget has a
// kind and kind-specific data.
package widget

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/somabay/handbook/domain/tree"
)

// Kind identifies the widget variant.
type Kind string

// Widget kinds.
const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindSocial Kind = "social"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindText, KindImage, KindSocial:
		return k, nil
	default:
		return "", tree.NewValidationError("widget_type", fmt.Sprintf("unknown widget type %q", s))
	}
}

// Data is the kind-specific payload of a widget.
type Data interface {
	Kind() Kind
	validate() error
}

// Text is free-form HTML or text.
type Text struct {
	Content string `json:"content"`
}

// Kind implements Data.
func (Text) Kind() Kind { return KindText }

func (Text) validate() error { return nil }

// Image is a single picture.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Kind implements Data.
func (Image) Kind() Kind { return KindImage }

func (d Image) validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return tree.NewValidationError("url", "image widget url is required")
	}
	return nil
}

// Social links to the site's profiles.
type Social struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
}

// Kind implements Data.
func (Social) Kind() Kind { return KindSocial }

func (Social) validate() error { return nil }

// DecodeData parses raw JSON into the payload for the kind. Empty input
// yields the zero payload.
func DecodeData(kind Kind, raw json.RawMessage) (Data, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	var (
		d   Data
		err error
	)
	switch kind {
	case KindText:
		var v Text
		err = json.Unmarshal(raw, &v)
		d = v
	case KindImage:
		var v Image
		err = json.Unmarshal(raw, &v)
		d = v
	case KindSocial:
		var v Social
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, tree.NewValidationError("widget_type", fmt.Sprintf("unknown widget type %q", kind))
	}
	if err != nil {
		return nil, tree.NewValidationError("widget_data", fmt.Sprintf("invalid %s widget data: %v", kind, err))
	}
	return d, nil
}

// EncodeData serializes a payload.
func EncodeData(d Data) (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode %s widget data: %w", d.Kind(), err)
	}
	return data, nil
}

// Widget is a named, typed block of content.
type Widget struct {
	id   int64
	name string
	data Data
}

// New creates a validated Widget.
func New(name string, data Data) (Widget, error) {
	if strings.TrimSpace(name) == "" {
		return Widget{}, tree.NewValidationError("name", "widget name is required")
	}
	if data == nil {
		return Widget{}, tree.NewValidationError("widget_type", "widget type is required")
	}
	if err := data.validate(); err != nil {
		return Widget{}, err
	}
	return Widget{name: name, data: data}, nil
}

// Reconstruct rebuilds a Widget from storage.
func Reconstruct(id int64, name string, data Data) Widget {
	return Widget{id: id, name: name, data: data}
}

// ID returns the storage identifier.
func (w Widget) ID() int64 { return w.id }

// Name returns the unique widget name.
func (w Widget) Name() string { return w.name }

// Kind returns the widget kind.
func (w Widget) Kind() Kind { return w.data.Kind() }

// Data returns the kind-specific payload.
func (w Widget) Data() Data { return w.data }

// WithID returns a copy with the storage identifier set.
func (w Widget) WithID(id int64) Widget {
	w.id = id
	return w
}

// WithData returns a validated copy holding new data.
func (w Widget) WithData(data Data) (Widget, error) {
	next, err := New(w.name, data)
	if err != nil {
		return Widget{}, err
	}
	next.id = w.id
	return next, nil
}
