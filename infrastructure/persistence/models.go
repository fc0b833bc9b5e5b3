package persistence

import "time"

// sidebarRowID is the primary key of the single sidebar document row.
const sidebarRowID int64 = 1

// SidebarModel stores the whole page forest as one JSON document.
type SidebarModel struct {
	ID        int64     `gorm:"primaryKey"`
	Document  string    `gorm:"column:document;type:text"`
	Nodes     int       `gorm:"column:nodes;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (SidebarModel) TableName() string {
	return "sidebars"
}

// MenuItemRecord is the stored form of one menu item.
type MenuItemRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Target string `json:"target,omitempty"`
}

// MenuModel represents a named menu in the database.
type MenuModel struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	Name      string           `gorm:"column:name;uniqueIndex;size:255"`
	Items     []MenuItemRecord `gorm:"column:menu_data;type:text;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (MenuModel) TableName() string {
	return "menus"
}

// WidgetModel represents a named widget in the database.
type WidgetModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;uniqueIndex;size:255"`
	Kind      string    `gorm:"column:widget_type;index;size:32"`
	Data      string    `gorm:"column:widget_data;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (WidgetModel) TableName() string {
	return "widgets"
}

// SettingModel represents one CMS setting.
type SettingModel struct {
	Key       string    `gorm:"column:name;primaryKey;size:64"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (SettingModel) TableName() string {
	return "settings"
}
