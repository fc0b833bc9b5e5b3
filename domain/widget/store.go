package widget

import "context"

// Store persists widgets by name.
type Store interface {
	List(ctx context.Context) ([]Widget, error)
	Get(ctx context.Context, name string) (Widget, error)
	Exists(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, w Widget) (Widget, error)
	Delete(ctx context.Context, name string) error
}
