package jsonapi

import (
	"encoding/json"
	"testing"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/domain/widget"
)

func TestSerializer_PageEntryResources(t *testing.T) {
	child := page.Reconstruct("p1", page.KindPage, page.Attributes{Title: "Benefits", Slug: "hr-benefits", Content: "x", Published: true}, nil)
	chapter := page.Reconstruct("c1", page.KindChapter, page.Attributes{
		Title:  "HR",
		Slug:   "hr",
		Design: page.Design{HeaderColor: "#fff"},
	}, []page.Page{child})

	resources := NewSerializer().PageEntryResources(tree.Flatten([]page.Page{chapter}))
	if len(resources) != 2 {
		t.Fatalf("len(resources) = %d, want 2", len(resources))
	}

	root := resources[0].Attributes.(*PageEntryAttributes)
	if root.ParentID != nil {
		t.Errorf("root parent_id = %v, want nil", *root.ParentID)
	}
	if root.ChildCount != 1 || root.Design == nil || root.Design.HeaderColor != "#fff" {
		t.Errorf("unexpected root attributes: %+v", root)
	}

	leaf := resources[1].Attributes.(*PageEntryAttributes)
	if leaf.ParentID == nil || *leaf.ParentID != "c1" {
		t.Errorf("leaf parent_id = %v, want c1", leaf.ParentID)
	}
	if leaf.Depth != 1 {
		t.Errorf("leaf depth = %d, want 1", leaf.Depth)
	}

	data, err := json.Marshal(resources[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	attrs := decoded["attributes"].(map[string]any)
	if v, ok := attrs["parent_id"]; !ok || v != nil {
		t.Errorf("parent_id should be encoded as null, got %v", v)
	}
}

func TestSerializer_MenuAndWidget(t *testing.T) {
	s := NewSerializer()

	m := menu.Reconstruct(7, "main", []menu.Item{menu.ReconstructItem("a", "Home", "/", "")})
	res := s.MenuResource(m)
	if res.Type != TypeMenu || res.ID != "7" {
		t.Errorf("menu resource = %s/%s, want menu/7", res.Type, res.ID)
	}
	attrs := res.Attributes.(*MenuAttributes)
	if len(attrs.Items) != 1 || attrs.Items[0].Target != string(menu.TargetSelf) {
		t.Errorf("unexpected menu items: %+v", attrs.Items)
	}

	w := widget.Reconstruct(3, "banner", widget.Image{URL: "/u.png", Alt: "u"})
	data, err := json.Marshal(s.WidgetResource(w))
	if err != nil {
		t.Fatalf("marshal widget: %v", err)
	}
	want := `{"type":"widget","id":"3","attributes":{"name":"banner","widget_type":"image","widget_data":{"url":"/u.png","alt":"u"}}}`
	if string(data) != want {
		t.Errorf("widget json = %s, want %s", data, want)
	}

	doc := NewListResponse(nil)
	out, _ := json.Marshal(doc)
	if string(out) != `{"data":[]}` {
		t.Errorf("empty list = %s, want {\"data\":[]}", out)
	}
}
