package dto

import "encoding/json"

// WidgetCreateRequest creates a widget.
type WidgetCreateRequest struct {
	Name       string          `json:"name" validate:"required,max=100"`
	WidgetType string          `json:"widget_type" validate:"required,oneof=text image social"`
	WidgetData json.RawMessage `json:"widget_data"`
}

// WidgetUpdateRequest replaces the type and data of a widget.
type WidgetUpdateRequest struct {
	WidgetType string          `json:"widget_type" validate:"required,oneof=text image social"`
	WidgetData json.RawMessage `json:"widget_data"`
}
