package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/somabay/handbook"
	"github.com/somabay/handbook/application/service"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/infrastructure/api/jsonapi"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
)

var serializer = jsonapi.NewSerializer()

// PagesRouter handles admin page endpoints.
type PagesRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewPagesRouter creates a new PagesRouter.
func NewPagesRouter(client *handbook.Client) *PagesRouter {
	return &PagesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for admin page endpoints.
func (r *PagesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Add)
	router.Get("/chapters", r.Chapters)
	router.Get("/id/{id}", r.Get)
	router.Put("/id/{id}", r.EditByID)
	router.Delete("/id/{id}", r.DeleteByID)
	router.Put("/{slug}", r.Edit)
	router.Delete("/{slug}", r.Delete)
	router.Put("/{id}/visibility", r.SetVisibility)
	router.Put("/{id}/design", r.SetDesign)

	return router
}

// List handles GET /api/admin/pages. Entries are flattened in pre-order and
// can be narrowed by visibility and published.
func (r *PagesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	q := req.URL.Query()

	visibility, err := page.ParseVisibility(q.Get("visibility"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	filter := page.Filter{Visibility: visibility}
	if raw := q.Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "published must be true or false", err), r.logger)
			return
		}
		filter.Published = &published
	}

	entries, err := r.client.Pages.List(ctx, filter)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	pagination := ParsePagination(req)
	total := int64(len(entries))
	doc := jsonapi.NewListResponse(serializer.PageEntryResources(Paginate(entries, pagination))).
		WithMeta(PaginationMeta(pagination, total)).
		WithLinks(PaginationLinks(req, pagination, total))

	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Chapters handles GET /api/admin/pages/chapters, the parent picker list.
func (r *PagesRouter) Chapters(w http.ResponseWriter, req *http.Request) {
	entries, err := r.client.Pages.Chapters(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(serializer.PageEntryResources(entries)))
}

// Get handles GET /api/admin/pages/id/{id}.
func (r *PagesRouter) Get(w http.ResponseWriter, req *http.Request) {
	p, err := r.client.Pages.Find(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pageToDTO(p))
}

// Add handles POST /api/admin/pages.
func (r *PagesRouter) Add(w http.ResponseWriter, req *http.Request) {
	var body dto.PageAddRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	params := service.PageAddParams{
		Title:           body.Title,
		Slug:            body.Slug,
		Content:         body.Content,
		Chapter:         body.IsChapter,
		ParentID:        body.ParentID,
		Published:       body.Published,
		Private:         body.IsPrivate,
		MetaDescription: body.MetaDescription,
		MetaKeywords:    body.MetaKeywords,
		CustomCSS:       body.CustomCSS,
		Image:           body.Image,
		Video:           body.Video,
	}
	if body.Design != nil {
		params.Design = page.Design{HeaderColor: body.Design.HeaderColor, HeaderImage: body.Design.HeaderImage}
	}

	p, err := r.client.Pages.Add(req.Context(), params)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	schema := pageToDTO(p)
	message := "Page added successfully"
	if p.IsChapter() {
		message = "Chapter added successfully"
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.PageMutationResponse{Message: message, PageID: p.ID(), Page: &schema})
}

// Edit handles PUT /api/admin/pages/{slug}.
func (r *PagesRouter) Edit(w http.ResponseWriter, req *http.Request) {
	r.edit(w, req, func(patch page.Patch) (page.Page, error) {
		return r.client.Pages.Edit(req.Context(), chi.URLParam(req, "slug"), patch)
	})
}

// EditByID handles PUT /api/admin/pages/id/{id}.
func (r *PagesRouter) EditByID(w http.ResponseWriter, req *http.Request) {
	r.edit(w, req, func(patch page.Patch) (page.Page, error) {
		return r.client.Pages.EditByID(req.Context(), chi.URLParam(req, "id"), patch)
	})
}

func (r *PagesRouter) edit(w http.ResponseWriter, req *http.Request, apply func(page.Patch) (page.Page, error)) {
	var body dto.PageEditRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	p, err := apply(patchFromDTO(body))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	schema := pageToDTO(p)
	middleware.WriteJSON(w, http.StatusOK, dto.PageMutationResponse{Message: "Page updated successfully", PageID: p.ID(), Page: &schema})
}

// Delete handles DELETE /api/admin/pages/{slug}.
func (r *PagesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	r.deleted(w, req, r.client.Pages.Delete(req.Context(), chi.URLParam(req, "slug")))
}

// DeleteByID handles DELETE /api/admin/pages/id/{id}.
func (r *PagesRouter) DeleteByID(w http.ResponseWriter, req *http.Request) {
	r.deleted(w, req, r.client.Pages.DeleteByID(req.Context(), chi.URLParam(req, "id")))
}

func (r *PagesRouter) deleted(w http.ResponseWriter, req *http.Request, err error) {
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Page deleted successfully"})
}

// SetVisibility handles PUT /api/admin/pages/{id}/visibility.
func (r *PagesRouter) SetVisibility(w http.ResponseWriter, req *http.Request) {
	var body dto.VisibilityRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	p, err := r.client.Pages.SetPublished(req.Context(), chi.URLParam(req, "id"), *body.Published)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	schema := pageToDTO(p)
	middleware.WriteJSON(w, http.StatusOK, dto.PageMutationResponse{Message: "Visibility updated", PageID: p.ID(), Page: &schema})
}

// SetDesign handles PUT /api/admin/pages/{id}/design.
func (r *PagesRouter) SetDesign(w http.ResponseWriter, req *http.Request) {
	var body dto.DesignSchema
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	p, err := r.client.Pages.SetDesign(req.Context(), chi.URLParam(req, "id"), page.Design{HeaderColor: body.HeaderColor, HeaderImage: body.HeaderImage})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	schema := pageToDTO(p)
	middleware.WriteJSON(w, http.StatusOK, dto.PageMutationResponse{Message: "Design updated", PageID: p.ID(), Page: &schema})
}

// SidebarRouter handles the admin view of the sidebar forest.
type SidebarRouter struct {
	client *handbook.Client
	logger *slog.Logger
}

// NewSidebarRouter creates a new SidebarRouter.
func NewSidebarRouter(client *handbook.Client) *SidebarRouter {
	return &SidebarRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for admin sidebar endpoints.
func (r *SidebarRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Put("/reorder", r.Reorder)

	return router
}

// Get handles GET /api/admin/sidebar, the full forest including drafts.
func (r *SidebarRouter) Get(w http.ResponseWriter, req *http.Request) {
	forest, err := r.client.Pages.Sidebar(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, forestToDTO(forest))
}

// Reorder handles PUT /api/admin/sidebar/reorder.
func (r *SidebarRouter) Reorder(w http.ResponseWriter, req *http.Request) {
	var body dto.ReorderRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	result, err := r.client.Pages.Reorder(req.Context(), body.SidebarOrder, body.Prune)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ReorderResponse{
		Message:  "Sidebar order updated successfully",
		Sidebar:  forestToDTO(result.Forest),
		Warnings: warningsToDTO(result.Warnings),
	})
}

// DeriveSlug handles POST /api/admin/slug.
func (r *SidebarRouter) DeriveSlug(w http.ResponseWriter, req *http.Request) {
	var body dto.SlugRequest
	if err := decodeJSON(w, req, &body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	slug, err := r.client.Pages.DeriveSlug(req.Context(), body.Title, body.ParentID, body.Slug)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.SlugResponse{Slug: slug})
}
