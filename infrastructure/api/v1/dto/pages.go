package dto

import "github.com/somabay/handbook/domain/tree"

// DesignSchema is the header design of a page.
type DesignSchema struct {
	HeaderColor string `json:"headerColor" validate:"max=64"`
	HeaderImage string `json:"headerImage" validate:"max=2048"`
}

// PageSchema is one node of a sidebar tree.
type PageSchema struct {
	ID              string        `json:"id"`
	Kind            string        `json:"kind"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug,omitempty"`
	Content         string        `json:"content,omitempty"`
	Published       bool          `json:"published"`
	IsPrivate       bool          `json:"is_private"`
	CustomSlug      bool          `json:"custom_slug,omitempty"`
	Design          *DesignSchema `json:"design,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty"`
	MetaKeywords    string        `json:"meta_keywords,omitempty"`
	CustomCSS       string        `json:"custom_css,omitempty"`
	Image           string        `json:"image,omitempty"`
	Video           string        `json:"video,omitempty"`
	Children        []PageSchema  `json:"children,omitempty"`
}

// PageAddRequest adds a page or chapter.
type PageAddRequest struct {
	Title           string        `json:"title" validate:"required,max=300"`
	Slug            string        `json:"slug" validate:"max=200"`
	Content         string        `json:"content" validate:"maxbytes"`
	IsChapter       bool          `json:"is_chapter"`
	ParentID        string        `json:"parent_id" validate:"max=64"`
	Published       bool          `json:"published"`
	IsPrivate       bool          `json:"is_private"`
	Design          *DesignSchema `json:"design"`
	MetaDescription string        `json:"meta_description" validate:"max=500"`
	MetaKeywords    string        `json:"meta_keywords" validate:"max=500"`
	CustomCSS       string        `json:"custom_css" validate:"maxbytes"`
	Image           string        `json:"image" validate:"max=2048"`
	Video           string        `json:"video" validate:"max=2048"`
}

// PageEditRequest changes the given fields of a node. Omitted fields keep
// their value.
type PageEditRequest struct {
	Title           *string       `json:"title" validate:"omitempty,min=1,max=300"`
	Slug            *string       `json:"slug" validate:"omitempty,max=200"`
	Content         *string       `json:"content" validate:"omitempty,maxbytes"`
	Published       *bool         `json:"published"`
	IsPrivate       *bool         `json:"is_private"`
	Design          *DesignSchema `json:"design"`
	MetaDescription *string       `json:"meta_description" validate:"omitempty,max=500"`
	MetaKeywords    *string       `json:"meta_keywords" validate:"omitempty,max=500"`
	CustomCSS       *string       `json:"custom_css" validate:"omitempty,maxbytes"`
	Image           *string       `json:"image" validate:"omitempty,max=2048"`
	Video           *string       `json:"video" validate:"omitempty,max=2048"`
}

// VisibilityRequest toggles the published flag.
type VisibilityRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// ReorderRequest submits a new sidebar nesting and order.
type ReorderRequest struct {
	SidebarOrder []tree.OrderSpec `json:"sidebar_order" validate:"required"`
	Prune        bool             `json:"prune"`
}

// SlugRequest asks for the slug a new node would receive.
type SlugRequest struct {
	Title    string `json:"title" validate:"max=300"`
	ParentID string `json:"parent_id" validate:"max=64"`
	Slug     string `json:"slug" validate:"max=200"`
}

// SlugResponse carries a derived slug.
type SlugResponse struct {
	Slug string `json:"slug"`
}

// PageMutationResponse reports a page write.
type PageMutationResponse struct {
	Message string      `json:"message"`
	PageID  string      `json:"page_id,omitempty"`
	Page    *PageSchema `json:"page,omitempty"`
}

// SlugWarning reports a node whose slug lost its chapter prefix.
type SlugWarning struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	ParentSlug string `json:"parent_slug"`
}

// ReorderResponse reports an applied reorder.
type ReorderResponse struct {
	Message  string        `json:"message"`
	Sidebar  []PageSchema  `json:"sidebar"`
	Warnings []SlugWarning `json:"warnings"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
