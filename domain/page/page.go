// Package page models the handbook sidebar: an ordered forest of chapters
// and content pages.
package page

import (
	"fmt"
	"strings"

	"github.com/somabay/handbook/domain/tree"
)

// Kind distinguishes content pages from chapters.
type Kind string

// Node kinds.
const (
	KindPage    Kind = "page"
	KindChapter Kind = "chapter"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPage:
		return KindPage, nil
	case KindChapter:
		return KindChapter, nil
	default:
		return "", tree.NewValidationError("kind", fmt.Sprintf("unknown kind %q", s))
	}
}

// Design holds per-page presentation options.
type Design struct {
	HeaderColor string
	HeaderImage string
}

// IsZero returns true if no design option is set.
func (d Design) IsZero() bool { return d == Design{} }

// Attributes are the content fields of a node. Reordering never changes them.
type Attributes struct {
	Title           string
	Slug            string
	Content         string
	Published       bool
	Private         bool
	CustomSlug      bool
	Design          Design
	MetaDescription string
	MetaKeywords    string
	CustomCSS       string
	Image           string
	Video           string
}

// Page is a node of the sidebar forest. A chapter may own children and
// carries no content. A page carries content and never owns children.
// Parent linkage is not stored; it is computed from tree position.
type Page struct {
	id       string
	kind     Kind
	attrs    Attributes
	children []Page
}

// New creates a validated Page.
func New(id string, kind Kind, attrs Attributes, children []Page) (Page, error) {
	if children == nil {
		children = []Page{}
	}
	p := Page{id: id, kind: kind, attrs: attrs, children: children}
	if err := p.validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Reconstruct rebuilds a Page from storage without validation.
func Reconstruct(id string, kind Kind, attrs Attributes, children []Page) Page {
	if children == nil {
		children = []Page{}
	}
	return Page{id: id, kind: kind, attrs: attrs, children: children}
}

func (p Page) validate() error {
	if strings.TrimSpace(p.id) == "" {
		return tree.NewValidationError("id", "id is required")
	}
	if strings.TrimSpace(p.attrs.Title) == "" {
		return tree.NewValidationError("title", "title is required")
	}
	switch p.kind {
	case KindPage:
		if strings.TrimSpace(p.attrs.Slug) == "" {
			return tree.NewValidationError("slug", "slug is required for pages")
		}
		if strings.TrimSpace(p.attrs.Content) == "" {
			return tree.NewValidationError("content", "content is required for pages")
		}
		if len(p.children) > 0 {
			return tree.NewStructuralViolationError(p.id, "pages cannot have children")
		}
	case KindChapter:
		if strings.TrimSpace(p.attrs.Content) != "" {
			return tree.NewStructuralViolationError(p.id, "chapters cannot carry content directly")
		}
	default:
		return tree.NewValidationError("kind", fmt.Sprintf("unknown kind %q", p.kind))
	}
	return nil
}

// ID returns the stable identifier.
func (p Page) ID() string { return p.id }

// Kind returns the node kind.
func (p Page) Kind() Kind { return p.kind }

// IsChapter returns true for chapters.
func (p Page) IsChapter() bool { return p.kind == KindChapter }

// Attributes returns a copy of the content fields.
func (p Page) Attributes() Attributes { return p.attrs }

// Title returns the display name.
func (p Page) Title() string { return p.attrs.Title }

// Slug returns the canonical path segment.
func (p Page) Slug() string { return p.attrs.Slug }

// Content returns the page body.
func (p Page) Content() string { return p.attrs.Content }

// Published returns true if the node is visible on the public site.
func (p Page) Published() bool { return p.attrs.Published }

// Private returns true if the node is restricted to signed-in readers.
func (p Page) Private() bool { return p.attrs.Private }

// CustomSlug returns true if the slug was entered manually.
func (p Page) CustomSlug() bool { return p.attrs.CustomSlug }

// Design returns the presentation options.
func (p Page) Design() Design { return p.attrs.Design }

// Children returns the ordered children.
func (p Page) Children() []Page { return p.children }

// WithChildren returns a copy owning the given children.
func (p Page) WithChildren(children []Page) (Page, error) {
	if p.kind == KindPage && len(children) > 0 {
		return Page{}, tree.NewStructuralViolationError(p.id, "pages cannot have children")
	}
	if children == nil {
		children = []Page{}
	}
	p.children = children
	return p, nil
}

// WithAttributes returns a validated copy with new content fields.
func (p Page) WithAttributes(attrs Attributes) (Page, error) {
	p.attrs = attrs
	if err := p.validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Equal compares pages by identity.
func (p Page) Equal(other Page) bool { return p.id == other.id }

// Patch lists optional changes to a node's content fields.
type Patch struct {
	Title           *string
	Slug            *string
	Content         *string
	Published       *bool
	Private         *bool
	HeaderColor     *string
	HeaderImage     *string
	MetaDescription *string
	MetaKeywords    *string
	CustomCSS       *string
	Image           *string
	Video           *string
}

// Apply returns the attributes with every set field overwritten.
func (u Patch) Apply(a Attributes) Attributes {
	set(&a.Title, u.Title)
	set(&a.Content, u.Content)
	set(&a.Published, u.Published)
	set(&a.Private, u.Private)
	set(&a.Design.HeaderColor, u.HeaderColor)
	set(&a.Design.HeaderImage, u.HeaderImage)
	set(&a.MetaDescription, u.MetaDescription)
	set(&a.MetaKeywords, u.MetaKeywords)
	set(&a.CustomCSS, u.CustomCSS)
	set(&a.Image, u.Image)
	set(&a.Video, u.Video)
	if u.Slug != nil && *u.Slug != a.Slug {
		a.Slug = *u.Slug
		a.CustomSlug = true
	}
	return a
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
