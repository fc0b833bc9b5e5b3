package persistence

import (
	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/setting"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/domain/widget"
)

// SidebarMapper maps between the page forest and the SidebarModel row.
type SidebarMapper struct{}

// ToDomain decodes and validates the stored forest.
func (m SidebarMapper) ToDomain(e SidebarModel) ([]page.Page, error) {
	if e.Document == "" {
		return []page.Page{}, nil
	}
	return page.ParseForest([]byte(e.Document))
}

// ToModel encodes the forest into the single sidebar row.
func (m SidebarMapper) ToModel(forest []page.Page) (SidebarModel, error) {
	data, err := page.MarshalForest(forest)
	if err != nil {
		return SidebarModel{}, err
	}
	return SidebarModel{
		ID:       sidebarRowID,
		Document: string(data),
		Nodes:    tree.Count(forest),
	}, nil
}

// MenuMapper maps between domain Menu and MenuModel.
type MenuMapper struct{}

// ToDomain converts a MenuModel to a domain Menu.
func (m MenuMapper) ToDomain(e MenuModel) (menu.Menu, error) {
	items := make([]menu.Item, 0, len(e.Items))
	for _, r := range e.Items {
		target, err := menu.ParseTarget(r.Target)
		if err != nil {
			return menu.Menu{}, err
		}
		items = append(items, menu.ReconstructItem(r.ID, r.Title, r.URL, target))
	}
	return menu.Reconstruct(e.ID, e.Name, items), nil
}

// ToModel converts a domain Menu to a MenuModel.
func (m MenuMapper) ToModel(d menu.Menu) (MenuModel, error) {
	records := make([]MenuItemRecord, 0, len(d.Items()))
	for _, it := range d.Items() {
		records = append(records, MenuItemRecord{
			ID:     it.ID(),
			Title:  it.Title(),
			URL:    it.URL(),
			Target: string(it.Target()),
		})
	}
	return MenuModel{ID: d.ID(), Name: d.Name(), Items: records}, nil
}

// WidgetMapper maps between domain Widget and WidgetModel.
type WidgetMapper struct{}

// ToDomain converts a WidgetModel to a domain Widget.
func (m WidgetMapper) ToDomain(e WidgetModel) (widget.Widget, error) {
	kind, err := widget.ParseKind(e.Kind)
	if err != nil {
		return widget.Widget{}, err
	}
	data, err := widget.DecodeData(kind, []byte(e.Data))
	if err != nil {
		return widget.Widget{}, err
	}
	return widget.Reconstruct(e.ID, e.Name, data), nil
}

// ToModel converts a domain Widget to a WidgetModel.
func (m WidgetMapper) ToModel(d widget.Widget) (WidgetModel, error) {
	raw, err := widget.EncodeData(d.Data())
	if err != nil {
		return WidgetModel{}, err
	}
	return WidgetModel{
		ID:   d.ID(),
		Name: d.Name(),
		Kind: string(d.Kind()),
		Data: string(raw),
	}, nil
}

// settingEntry is one stored key/value pair.
type settingEntry struct {
	key   setting.Key
	value string
}

// SettingMapper maps between setting entries and SettingModel rows.
type SettingMapper struct{}

// ToDomain converts a SettingModel to a setting entry.
func (m SettingMapper) ToDomain(e SettingModel) (settingEntry, error) {
	return settingEntry{key: setting.Key(e.Key), value: e.Value}, nil
}

// ToModel converts a setting entry to a SettingModel.
func (m SettingMapper) ToModel(d settingEntry) (SettingModel, error) {
	return SettingModel{Key: string(d.key), Value: d.value}, nil
}
