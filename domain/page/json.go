package page

import (
	"encoding/json"
	"fmt"
)

type designJSON struct {
	HeaderColor string `json:"headerColor,omitempty"`
	HeaderImage string `json:"headerImage,omitempty"`
}

type pageJSON struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Kind            string      `json:"kind,omitempty"`
	Slug            string      `json:"slug,omitempty"`
	Content         string      `json:"content,omitempty"`
	Published       bool        `json:"published"`
	Private         bool        `json:"is_private"`
	CustomSlug      bool        `json:"custom_slug,omitempty"`
	Design          *designJSON `json:"design,omitempty"`
	MetaDescription string      `json:"meta_description,omitempty"`
	MetaKeywords    string      `json:"meta_keywords,omitempty"`
	CustomCSS       string      `json:"custom_css,omitempty"`
	Image           string      `json:"image,omitempty"`
	Video           string      `json:"video,omitempty"`
	Children        []pageJSON  `json:"children,omitempty"`
}

// MarshalForest encodes a forest as its canonical JSON document.
func MarshalForest(forest []Page) ([]byte, error) {
	data, err := json.Marshal(pagesToJSON(forest))
	if err != nil {
		return nil, fmt.Errorf("marshal forest: %w", err)
	}
	return data, nil
}

// ParseForest decodes a JSON forest and validates it. Nodes without an
// explicit kind are chapters when they carry a children list, pages otherwise.
func ParseForest(data []byte) ([]Page, error) {
	var raw []pageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse forest: %w", err)
	}
	forest, err := pagesFromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse forest: %w", err)
	}
	if err := Validate(forest); err != nil {
		return nil, fmt.Errorf("parse forest: %w", err)
	}
	return forest, nil
}

func pagesToJSON(pages []Page) []pageJSON {
	out := make([]pageJSON, 0, len(pages))
	for _, p := range pages {
		a := p.attrs
		j := pageJSON{
			ID:              p.id,
			Title:           a.Title,
			Kind:            string(p.kind),
			Slug:            a.Slug,
			Content:         a.Content,
			Published:       a.Published,
			Private:         a.Private,
			CustomSlug:      a.CustomSlug,
			MetaDescription: a.MetaDescription,
			MetaKeywords:    a.MetaKeywords,
			CustomCSS:       a.CustomCSS,
			Image:           a.Image,
			Video:           a.Video,
		}
		if !a.Design.IsZero() {
			j.Design = &designJSON{HeaderColor: a.Design.HeaderColor, HeaderImage: a.Design.HeaderImage}
		}
		if len(p.children) > 0 {
			j.Children = pagesToJSON(p.children)
		}
		out = append(out, j)
	}
	return out
}

func pagesFromJSON(raw []pageJSON) ([]Page, error) {
	out := make([]Page, 0, len(raw))
	for _, j := range raw {
		kind := KindPage
		if j.Children != nil {
			kind = KindChapter
		}
		if j.Kind != "" {
			k, err := ParseKind(j.Kind)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		children, err := pagesFromJSON(j.Children)
		if err != nil {
			return nil, err
		}
		attrs := Attributes{
			Title:           j.Title,
			Slug:            j.Slug,
			Content:         j.Content,
			Published:       j.Published,
			Private:         j.Private,
			CustomSlug:      j.CustomSlug,
			MetaDescription: j.MetaDescription,
			MetaKeywords:    j.MetaKeywords,
			CustomCSS:       j.CustomCSS,
			Image:           j.Image,
			Video:           j.Video,
		}
		if j.Design != nil {
			attrs.Design = Design{HeaderColor: j.Design.HeaderColor, HeaderImage: j.Design.HeaderImage}
		}
		out = append(out, Reconstruct(j.ID, kind, attrs, children))
	}
	return out, nil
}
