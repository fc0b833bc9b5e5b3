// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/infrastructure/api/middleware"
	"github.com/somabay/handbook/infrastructure/api/v1/dto"
	"github.com/somabay/handbook/internal/domain"
)

// maxBodyBytes bounds request bodies. Page content may carry inline HTML.
const maxBodyBytes = 4 << 20

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return middleware.NewAPIError(http.StatusRequestEntityTooLarge, "request body too large", err)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return dto.Validate(dst)
}

func pageToDTO(p page.Page) dto.PageSchema {
	a := p.Attributes()
	out := dto.PageSchema{
		ID:              p.ID(),
		Kind:            string(p.Kind()),
		Title:           a.Title,
		Slug:            a.Slug,
		Content:         a.Content,
		Published:       a.Published,
		IsPrivate:       a.Private,
		CustomSlug:      a.CustomSlug,
		MetaDescription: a.MetaDescription,
		MetaKeywords:    a.MetaKeywords,
		CustomCSS:       a.CustomCSS,
		Image:           a.Image,
		Video:           a.Video,
	}
	if !a.Design.IsZero() {
		out.Design = &dto.DesignSchema{HeaderColor: a.Design.HeaderColor, HeaderImage: a.Design.HeaderImage}
	}
	if children := p.Children(); len(children) > 0 {
		out.Children = forestToDTO(children)
	}
	return out
}

func forestToDTO(forest []page.Page) []dto.PageSchema {
	out := make([]dto.PageSchema, 0, len(forest))
	for _, p := range forest {
		out = append(out, pageToDTO(p))
	}
	return out
}

func patchFromDTO(body dto.PageEditRequest) page.Patch {
	patch := page.Patch{
		Title:           body.Title,
		Slug:            body.Slug,
		Content:         body.Content,
		Published:       body.Published,
		Private:         body.IsPrivate,
		MetaDescription: body.MetaDescription,
		MetaKeywords:    body.MetaKeywords,
		CustomCSS:       body.CustomCSS,
		Image:           body.Image,
		Video:           body.Video,
	}
	if body.Design != nil {
		patch.HeaderColor = &body.Design.HeaderColor
		patch.HeaderImage = &body.Design.HeaderImage
	}
	return patch
}

func warningsToDTO(mismatches []page.SlugMismatch) []dto.SlugWarning {
	out := make([]dto.SlugWarning, 0, len(mismatches))
	for _, m := range mismatches {
		out = append(out, dto.SlugWarning{ID: m.ID, Slug: m.Slug, ParentSlug: m.ParentSlug})
	}
	return out
}
