package page

import "context"

// Store persists the sidebar forest as a whole. The forest is the unit of
// consistency: every save replaces the previous snapshot.
type Store interface {
	Load(ctx context.Context) ([]Page, error)
	Save(ctx context.Context, forest []Page) error
}
