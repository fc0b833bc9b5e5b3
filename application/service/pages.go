package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/slug"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/internal/domain"
)

// PageAddParams configures adding a page or chapter.
type PageAddParams struct {
	Title           string
	Slug            string
	Content         string
	Chapter         bool
	ParentID        string
	Published       bool
	Private         bool
	Design          page.Design
	MetaDescription string
	MetaKeywords    string
	CustomCSS       string
	Image           string
	Video           string
}

// ReorderResult is the outcome of a sidebar reorder.
type ReorderResult struct {
	Forest   []page.Page
	Warnings []page.SlugMismatch
}

// ReorderObserver is notified of every reorder attempt.
type ReorderObserver interface {
	ObserveReorder(outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveReorder(string) {}

// PagesOption configures the Pages service.
type PagesOption func(*Pages)

// WithPruneAllowed permits reorder requests to drop nodes they leave out.
func WithPruneAllowed(allowed bool) PagesOption {
	return func(s *Pages) { s.allowPrune = allowed }
}

// WithPageIDs replaces the id source for new nodes.
func WithPageIDs(next func() string) PagesOption {
	return func(s *Pages) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithMirror copies every saved forest to a second store, such as the
// document the public site serves. Mirror failures are logged, never
// returned: the primary store stays authoritative.
func WithMirror(mirror page.Store) PagesOption {
	return func(s *Pages) { s.mirror = mirror }
}

// WithReorderObserver registers an observer for reorder outcomes.
func WithReorderObserver(o ReorderObserver) PagesOption {
	return func(s *Pages) {
		if o != nil {
			s.observer = o
		}
	}
}

// Pages manages the sidebar forest. Every write loads a fresh snapshot,
// edits it inside a tree.Session and persists the whole forest. Writes are
// serialized so two edits never interleave on the same tree.
type Pages struct {
	store      page.Store
	logger     *slog.Logger
	newID      func() string
	allowPrune bool
	observer   ReorderObserver
	mirror     page.Store
	mu         sync.Mutex
}

// NewPages creates a new Pages service.
func NewPages(store page.Store, logger *slog.Logger, opts ...PagesOption) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Pages{
		store:    store,
		logger:   logger,
		newID:    uuid.NewString,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sidebar returns the full admin forest.
func (s *Pages) Sidebar(ctx context.Context) ([]page.Page, error) {
	forest, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sidebar: %w", err)
	}
	return forest, nil
}

// PublicSidebar returns the published view of the forest.
func (s *Pages) PublicSidebar(ctx context.Context) ([]page.Page, error) {
	forest, err := s.Sidebar(ctx)
	if err != nil {
		return nil, err
	}
	return page.Published(forest), nil
}

// PublicPage returns a published page by slug. Pages inside an unpublished
// chapter are not public.
func (s *Pages) PublicPage(ctx context.Context, slugValue string) (page.Page, error) {
	forest, err := s.PublicSidebar(ctx)
	if err != nil {
		return page.Page{}, err
	}
	p, ok := page.FindBySlug(forest, slugValue)
	if !ok {
		return page.Page{}, fmt.Errorf("page %q not found or not published: %w", slugValue, domain.ErrNotFound)
	}
	return p, nil
}

// Find returns the node with the given id.
func (s *Pages) Find(ctx context.Context, id string) (page.Page, error) {
	forest, err := s.Sidebar(ctx)
	if err != nil {
		return page.Page{}, err
	}
	p, ok := page.Find(forest, id)
	if !ok {
		return page.Page{}, fmt.Errorf("page %q: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// FindBySlug returns the node with the given slug, published or not.
func (s *Pages) FindBySlug(ctx context.Context, slugValue string) (page.Page, error) {
	forest, err := s.Sidebar(ctx)
	if err != nil {
		return page.Page{}, err
	}
	p, ok := page.FindBySlug(forest, slugValue)
	if !ok {
		return page.Page{}, fmt.Errorf("page %q: %w", slugValue, domain.ErrNotFound)
	}
	return p, nil
}

// List returns the flattened forest narrowed by the filter.
func (s *Pages) List(ctx context.Context, filter page.Filter) ([]tree.Entry[page.Page], error) {
	forest, err := s.Sidebar(ctx)
	if err != nil {
		return nil, err
	}
	return page.Entries(forest, filter), nil
}

// Chapters returns every chapter in pre-order.
func (s *Pages) Chapters(ctx context.Context) ([]tree.Entry[page.Page], error) {
	forest, err := s.Sidebar(ctx)
	if err != nil {
		return nil, err
	}
	return page.Chapters(forest), nil
}

// DeriveSlug computes the slug a new node would receive under parentID.
func (s *Pages) DeriveSlug(ctx context.Context, title, parentID, override string) (string, error) {
	parentSlug := ""
	if parentID != "" {
		parent, err := s.Find(ctx, parentID)
		if err != nil {
			return "", err
		}
		parentSlug = parent.Slug()
	}
	out := slug.Derive(title, parentSlug, override)
	if out == "" {
		return "", tree.NewValidationError("slug", "title or slug must contain letters or digits")
	}
	return out, nil
}

// Add creates a page or chapter, appended under its parent chapter or at
// the root.
func (s *Pages) Add(ctx context.Context, params PageAddParams) (page.Page, error) {
	kind := page.KindPage
	if params.Chapter {
		kind = page.KindChapter
	}

	var created page.Page
	err := s.mutate(ctx, func(sess *tree.Session[page.Page]) error {
		forest := sess.Working()
		parentSlug := ""
		if params.ParentID != "" {
			parent, ok := page.Find(forest, params.ParentID)
			if !ok {
				return &tree.UnknownNodeError{ID: params.ParentID}
			}
			parentSlug = parent.Slug()
		}

		derived := slug.Derive(params.Title, parentSlug, params.Slug)
		if derived == "" && kind == page.KindPage {
			return tree.NewValidationError("slug", "title or slug must contain letters or digits")
		}

		p, err := page.New(s.newID(), kind, page.Attributes{
			Title:           strings.TrimSpace(params.Title),
			Slug:            derived,
			Content:         params.Content,
			Published:       params.Published,
			Private:         params.Private,
			CustomSlug:      slug.Normalize(params.Slug) != "",
			Design:          params.Design,
			MetaDescription: params.MetaDescription,
			MetaKeywords:    params.MetaKeywords,
			CustomCSS:       params.CustomCSS,
			Image:           params.Image,
			Video:           params.Video,
		}, nil)
		if err != nil {
			return err
		}
		next, err := page.Insert(forest, params.ParentID, p)
		if err != nil {
			return err
		}
		created = p
		return sess.Stage(next)
	})
	if err != nil {
		return page.Page{}, fmt.Errorf("add %s: %w", kind, err)
	}

	s.logger.Info("page added",
		slog.String("id", created.ID()),
		slog.String("kind", string(kind)),
		slog.String("slug", created.Slug()),
		slog.String("parent_id", params.ParentID),
	)
	return created, nil
}

// Edit applies a patch to the node with the given slug. A changed slug must
// stay unique across the whole forest.
func (s *Pages) Edit(ctx context.Context, slugValue string, patch page.Patch) (page.Page, error) {
	return s.edit(ctx, bySlug(slugValue), patch)
}

// EditByID applies a patch to the node with the given id. Chapters without a
// slug can only be reached this way.
func (s *Pages) EditByID(ctx context.Context, id string, patch page.Patch) (page.Page, error) {
	return s.edit(ctx, byID(id), patch)
}

// Delete removes the node with the given slug. Chapters that still own
// children are rejected.
func (s *Pages) Delete(ctx context.Context, slugValue string) error {
	return s.remove(ctx, bySlug(slugValue))
}

// DeleteByID removes the node with the given id.
func (s *Pages) DeleteByID(ctx context.Context, id string) error {
	return s.remove(ctx, byID(id))
}

// SetPublished changes the published flag of a node.
func (s *Pages) SetPublished(ctx context.Context, id string, published bool) (page.Page, error) {
	return s.edit(ctx, byID(id), page.Patch{Published: &published})
}

// SetDesign changes the header design of a node.
func (s *Pages) SetDesign(ctx context.Context, id string, design page.Design) (page.Page, error) {
	return s.edit(ctx, byID(id), page.Patch{HeaderColor: &design.HeaderColor, HeaderImage: &design.HeaderImage})
}

// locator picks the node an edit targets.
type locator func(forest []page.Page) (page.Page, error)

func byID(id string) locator {
	return func(forest []page.Page) (page.Page, error) {
		p, ok := page.Find(forest, id)
		if !ok {
			return page.Page{}, fmt.Errorf("page %q: %w", id, domain.ErrNotFound)
		}
		return p, nil
	}
}

func bySlug(slugValue string) locator {
	return func(forest []page.Page) (page.Page, error) {
		p, ok := page.FindBySlug(forest, slugValue)
		if !ok {
			return page.Page{}, fmt.Errorf("page %q: %w", slugValue, domain.ErrNotFound)
		}
		return p, nil
	}
}

func (s *Pages) edit(ctx context.Context, find locator, patch page.Patch) (page.Page, error) {
	if patch.Slug != nil {
		normalized := slug.Normalize(*patch.Slug)
		if normalized == "" {
			return page.Page{}, tree.NewValidationError("slug", "slug must contain letters or digits")
		}
		patch.Slug = &normalized
	}

	var updated page.Page
	err := s.mutate(ctx, func(sess *tree.Session[page.Page]) error {
		forest := sess.Working()
		current, err := find(forest)
		if err != nil {
			return err
		}
		edited, err := current.WithAttributes(patch.Apply(current.Attributes()))
		if err != nil {
			return err
		}
		next, err := page.Replace(forest, edited)
		if err != nil {
			return err
		}
		updated, _ = page.Find(next, edited.ID())
		return sess.Stage(next)
	})
	if err != nil {
		return page.Page{}, fmt.Errorf("edit page: %w", err)
	}
	s.logger.Info("page updated", slog.String("id", updated.ID()), slog.String("slug", updated.Slug()))
	return updated, nil
}

func (s *Pages) remove(ctx context.Context, find locator) error {
	var removed page.Page
	err := s.mutate(ctx, func(sess *tree.Session[page.Page]) error {
		forest := sess.Working()
		current, err := find(forest)
		if err != nil {
			return err
		}
		next, err := page.Remove(forest, current.ID())
		if err != nil {
			return err
		}
		removed = current
		return sess.Stage(next)
	})
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	s.logger.Info("page deleted", slog.String("id", removed.ID()), slog.String("slug", removed.Slug()))
	return nil
}

// Reorder applies a submitted order to a fresh snapshot and persists the
// result. Leaving nodes out fails unless prune is requested and allowed.
// Slugs that no longer carry their chapter's prefix are returned as warnings.
func (s *Pages) Reorder(ctx context.Context, order []tree.OrderSpec, prune bool) (ReorderResult, error) {
	if prune && !s.allowPrune {
		s.observer.ObserveReorder("rejected")
		return ReorderResult{}, fmt.Errorf("reorder sidebar: pruning is disabled: %w", domain.ErrForbidden)
	}
	var opts []tree.OrderOption
	if prune {
		opts = append(opts, tree.WithPruning())
	}

	var forest []page.Page
	err := s.mutate(ctx, func(sess *tree.Session[page.Page]) error {
		if err := sess.Apply(order, opts...); err != nil {
			return err
		}
		forest = sess.Working()
		return nil
	})
	if err != nil {
		s.observer.ObserveReorder("rejected")
		return ReorderResult{}, fmt.Errorf("reorder sidebar: %w", err)
	}
	s.observer.ObserveReorder("applied")

	warnings := page.SlugMismatches(forest)
	for _, w := range warnings {
		s.logger.Warn("slug does not match chapter",
			slog.String("id", w.ID),
			slog.String("slug", w.Slug),
			slog.String("parent_slug", w.ParentSlug),
		)
	}
	s.logger.Info("sidebar reordered", slog.Int("nodes", tree.Count(forest)), slog.Bool("prune", prune))
	return ReorderResult{Forest: forest, Warnings: warnings}, nil
}

// Import validates a forest and replaces the stored one with it.
func (s *Pages) Import(ctx context.Context, forest []page.Page) error {
	if err := page.Validate(forest); err != nil {
		return fmt.Errorf("import sidebar: %w", err)
	}
	err := s.mutate(ctx, func(sess *tree.Session[page.Page]) error {
		return sess.Stage(forest)
	})
	if err != nil {
		return fmt.Errorf("import sidebar: %w", err)
	}
	s.logger.Info("sidebar imported", slog.Int("nodes", tree.Count(forest)))
	return nil
}

// mutate serializes one edit over a fresh snapshot. A failing edit or save
// leaves the stored forest untouched.
func (s *Pages) mutate(ctx context.Context, edit func(*tree.Session[page.Page]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sidebar: %w", err)
	}
	sess, err := tree.NewSession(snapshot)
	if err != nil {
		return err
	}
	if err := edit(sess); err != nil {
		return err
	}
	if err := sess.Save(ctx, s.store.Save); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.Save(ctx, sess.Snapshot()); err != nil {
			s.logger.Warn("sidebar mirror out of date", slog.Any("error", err))
		}
	}
	return nil
}
