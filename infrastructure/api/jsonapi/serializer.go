package jsonapi

import (
	"strconv"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/domain/widget"
)

// Resource types.
const (
	TypePage   = "page"
	TypeMenu   = "menu"
	TypeWidget = "widget"
)

// DesignAttributes holds the header design of a page.
type DesignAttributes struct {
	HeaderColor string `json:"headerColor,omitempty"`
	HeaderImage string `json:"headerImage,omitempty"`
}

// PageEntryAttributes describes one node of the flattened sidebar.
type PageEntryAttributes struct {
	Kind            string            `json:"kind"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug,omitempty"`
	ParentID        *string           `json:"parent_id"`
	Depth           int               `json:"depth"`
	Published       bool              `json:"published"`
	Private         bool              `json:"is_private"`
	CustomSlug      bool              `json:"custom_slug"`
	Design          *DesignAttributes `json:"design,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	MetaKeywords    string            `json:"meta_keywords,omitempty"`
	ChildCount      int               `json:"child_count"`
}

// MenuItemAttributes describes one link of a menu.
type MenuItemAttributes struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Target string `json:"target"`
}

// MenuAttributes describes a menu.
type MenuAttributes struct {
	Name  string               `json:"name"`
	Items []MenuItemAttributes `json:"menu_data"`
}

// WidgetAttributes describes a widget.
type WidgetAttributes struct {
	Name string      `json:"name"`
	Kind string      `json:"widget_type"`
	Data widget.Data `json:"widget_data"`
}

// Serializer converts domain objects to JSON:API resources.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// PageEntryResource converts a flattened sidebar entry. Root entries carry a
// null parent_id.
func (s *Serializer) PageEntryResource(e tree.Entry[page.Page]) *Resource {
	p := e.Node
	attrs := &PageEntryAttributes{
		Kind:            string(p.Kind()),
		Title:           p.Title(),
		Slug:            p.Slug(),
		Depth:           e.Depth,
		Published:       p.Published(),
		Private:         p.Private(),
		CustomSlug:      p.CustomSlug(),
		MetaDescription: p.Attributes().MetaDescription,
		MetaKeywords:    p.Attributes().MetaKeywords,
		ChildCount:      len(p.Children()),
	}
	if !e.IsRoot() {
		parent := e.ParentID
		attrs.ParentID = &parent
	}
	if d := p.Design(); !d.IsZero() {
		attrs.Design = &DesignAttributes{HeaderColor: d.HeaderColor, HeaderImage: d.HeaderImage}
	}
	return NewResource(TypePage, p.ID(), attrs)
}

// PageEntryResources converts flattened entries, preserving pre-order.
func (s *Serializer) PageEntryResources(entries []tree.Entry[page.Page]) []*Resource {
	resources := make([]*Resource, len(entries))
	for i, e := range entries {
		resources[i] = s.PageEntryResource(e)
	}
	return resources
}

// MenuResource converts a menu.
func (s *Serializer) MenuResource(m menu.Menu) *Resource {
	items := make([]MenuItemAttributes, 0, len(m.Items()))
	for _, item := range m.Items() {
		items = append(items, MenuItemAttributes{
			ID:     item.ID(),
			Title:  item.Title(),
			URL:    item.URL(),
			Target: string(item.Target()),
		})
	}
	return NewResource(TypeMenu, strconv.FormatInt(m.ID(), 10), &MenuAttributes{Name: m.Name(), Items: items})
}

// MenuResources converts multiple menus.
func (s *Serializer) MenuResources(menus []menu.Menu) []*Resource {
	resources := make([]*Resource, len(menus))
	for i, m := range menus {
		resources[i] = s.MenuResource(m)
	}
	return resources
}

// WidgetResource converts a widget.
func (s *Serializer) WidgetResource(w widget.Widget) *Resource {
	return NewResource(TypeWidget, strconv.FormatInt(w.ID(), 10), &WidgetAttributes{
		Name: w.Name(),
		Kind: string(w.Kind()),
		Data: w.Data(),
	})
}

// WidgetResources converts multiple widgets.
func (s *Serializer) WidgetResources(widgets []widget.Widget) []*Resource {
	resources := make([]*Resource, len(widgets))
	for i, w := range widgets {
		resources[i] = s.WidgetResource(w)
	}
	return resources
}
