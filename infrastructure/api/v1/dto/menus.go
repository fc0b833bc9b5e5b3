package dto

// MenuItemSchema is one submitted menu link. An empty id is generated.
type MenuItemSchema struct {
	ID     string `json:"id" validate:"max=64"`
	Title  string `json:"title" validate:"required,max=200"`
	URL    string `json:"url" validate:"required,max=2048"`
	Target string `json:"target" validate:"omitempty,oneof=_self _blank _parent _top"`
}

// MenuCreateRequest creates a menu.
type MenuCreateRequest struct {
	Name     string           `json:"name" validate:"required,max=100"`
	MenuData []MenuItemSchema `json:"menu_data" validate:"dive"`
}

// MenuUpdateRequest replaces the items of a menu.
type MenuUpdateRequest struct {
	MenuData []MenuItemSchema `json:"menu_data" validate:"required,dive"`
}

// MenuOrderRequest permutes the items of a menu.
type MenuOrderRequest struct {
	Order []string `json:"order" validate:"required,dive,required"`
}
