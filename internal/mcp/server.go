// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/internal/domain"
)

// PageReader provides the page operations exposed as MCP tools.
type PageReader interface {
	PublicSidebar(ctx context.Context) ([]page.Page, error)
	PublicPage(ctx context.Context, slug string) (page.Page, error)
	List(ctx context.Context, filter page.Filter) ([]tree.Entry[page.Page], error)
	DeriveSlug(ctx context.Context, title, parentID, override string) (string, error)
}

// MenuReader provides menu lookup for MCP tools.
type MenuReader interface {
	Get(ctx context.Context, name string) (menu.Menu, error)
}

// Server wraps the MCP server with handbook tools.
type Server struct {
	mcpServer *server.MCPServer
	pages     PageReader
	menus     MenuReader
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(pages PageReader, menus MenuReader, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pages:  pages,
		menus:  menus,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"handbook",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("get_sidebar",
		mcp.WithDescription("Get the published handbook sidebar as a tree of chapters and pages"),
	), s.handleGetSidebar)

	mcpServer.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Get a published handbook page, including its content, by slug"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("The page slug, e.g. hr-benefits"),
		),
	), s.handleGetPage)

	mcpServer.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List every chapter and page in sidebar order with its parent and depth"),
		mcp.WithString("visibility",
			mcp.Description("Filter by privacy: all, public or private (default: all)"),
			mcp.Enum(string(page.VisibilityAll), string(page.VisibilityPublic), string(page.VisibilityPrivate)),
		),
		mcp.WithBoolean("published",
			mcp.Description("Only list published (true) or draft (false) nodes"),
		),
	), s.handleListPages)

	mcpServer.AddTool(mcp.NewTool("derive_slug",
		mcp.WithDescription("Compute the slug a new page would receive under a parent chapter"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The page title"),
		),
		mcp.WithString("parent_id",
			mcp.Description("The id of the parent chapter, empty for the root"),
		),
		mcp.WithString("slug",
			mcp.Description("A manual slug that overrides the title"),
		),
	), s.handleDeriveSlug)

	mcpServer.AddTool(mcp.NewTool("get_menu",
		mcp.WithDescription("Get a navigation menu by name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The menu name, e.g. main"),
		),
	), s.handleGetMenu)
}

type nodeResult struct {
	ID       string       `json:"id"`
	Kind     string       `json:"kind"`
	Title    string       `json:"title"`
	Slug     string       `json:"slug,omitempty"`
	Children []nodeResult `json:"children,omitempty"`
}

func nodesOf(forest []page.Page) []nodeResult {
	out := make([]nodeResult, 0, len(forest))
	for _, p := range forest {
		out = append(out, nodeResult{
			ID:       p.ID(),
			Kind:     string(p.Kind()),
			Title:    p.Title(),
			Slug:     p.Slug(),
			Children: nodesOf(p.Children()),
		})
	}
	return out
}

func (s *Server) handleGetSidebar(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	forest, err := s.pages.PublicSidebar(ctx)
	if err != nil {
		s.logger.Error("load sidebar failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to load sidebar: %v", err)), nil
	}
	return jsonResult(nodesOf(forest))
}

func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("slug is required"), nil
	}

	p, err := s.pages.PublicPage(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("page not found: %s", slug)), nil
		}
		s.logger.Error("get page failed", slog.String("slug", slug), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get page: %v", err)), nil
	}

	a := p.Attributes()
	return jsonResult(struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		Slug            string `json:"slug"`
		Content         string `json:"content"`
		MetaDescription string `json:"meta_description,omitempty"`
	}{p.ID(), a.Title, a.Slug, a.Content, a.MetaDescription})
}

func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	visibility, err := page.ParseVisibility(request.GetString("visibility", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter := page.Filter{Visibility: visibility}
	if args := request.GetArguments(); args != nil {
		if _, ok := args["published"]; ok {
			published := request.GetBool("published", false)
			filter.Published = &published
		}
	}

	entries, err := s.pages.List(ctx, filter)
	if err != nil {
		s.logger.Error("list pages failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to list pages: %v", err)), nil
	}

	type entryResult struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		Title     string `json:"title"`
		Slug      string `json:"slug,omitempty"`
		ParentID  string `json:"parent_id,omitempty"`
		Depth     int    `json:"depth"`
		Published bool   `json:"published"`
		Private   bool   `json:"is_private"`
	}
	results := make([]entryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, entryResult{
			ID:        e.Node.ID(),
			Kind:      string(e.Node.Kind()),
			Title:     e.Node.Title(),
			Slug:      e.Node.Slug(),
			ParentID:  e.ParentID,
			Depth:     e.Depth,
			Published: e.Node.Published(),
			Private:   e.Node.Private(),
		})
	}
	return jsonResult(results)
}

func (s *Server) handleDeriveSlug(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil
	}

	slug, err := s.pages.DeriveSlug(ctx, title, request.GetString("parent_id", ""), request.GetString("slug", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(slug), nil
}

func (s *Server) handleGetMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	if s.menus == nil {
		return mcp.NewToolResultError("menus not configured"), nil
	}

	m, err := s.menus.Get(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("menu not found: %s", name)), nil
		}
		s.logger.Error("get menu failed", slog.String("name", name), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get menu: %v", err)), nil
	}

	type itemResult struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Target string `json:"target"`
	}
	items := make([]itemResult, 0, len(m.Items()))
	for _, item := range m.Items() {
		items = append(items, itemResult{Title: item.Title(), URL: item.URL(), Target: string(item.Target())})
	}
	return jsonResult(struct {
		Name  string       `json:"name"`
		Items []itemResult `json:"items"`
	}{m.Name(), items})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
