package menu

import "context"

// Store persists menus by name.
type Store interface {
	List(ctx context.Context) ([]Menu, error)
	Get(ctx context.Context, name string) (Menu, error)
	Exists(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, m Menu) (Menu, error)
	Delete(ctx context.Context, name string) error
}
