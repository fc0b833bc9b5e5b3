package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/somabay/handbook/domain/menu"
	"github.com/somabay/handbook/domain/page"
	"github.com/somabay/handbook/domain/slug"
	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/internal/domain"
)

// fakePages implements PageReader over a fixed forest.
type fakePages struct {
	forest []page.Page
}

func (f *fakePages) PublicSidebar(_ context.Context) ([]page.Page, error) {
	return page.Published(f.forest), nil
}

func (f *fakePages) PublicPage(_ context.Context, s string) (page.Page, error) {
	p, ok := page.FindBySlug(page.Published(f.forest), s)
	if !ok {
		return page.Page{}, fmt.Errorf("page %q: %w", s, domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakePages) List(_ context.Context, filter page.Filter) ([]tree.Entry[page.Page], error) {
	return page.Entries(f.forest, filter), nil
}

func (f *fakePages) DeriveSlug(_ context.Context, title, parentID, override string) (string, error) {
	parent := ""
	if p, ok := page.Find(f.forest, parentID); ok {
		parent = p.Slug()
	}
	return slug.Derive(title, parent, override), nil
}

// fakeMenus implements MenuReader with canned menus.
type fakeMenus struct {
	menus map[string]menu.Menu
}

func (f *fakeMenus) Get(_ context.Context, name string) (menu.Menu, error) {
	m, ok := f.menus[name]
	if !ok {
		return menu.Menu{}, fmt.Errorf("menu %q: %w", name, domain.ErrNotFound)
	}
	return m, nil
}

func testForest() []page.Page {
	benefits := page.Reconstruct("p-benefits", page.KindPage, page.Attributes{Title: "Benefits", Slug: "hr-benefits", Content: "<p>Dental</p>", Published: true}, nil)
	payroll := page.Reconstruct("p-payroll", page.KindPage, page.Attributes{Title: "Payroll", Slug: "hr-payroll"}, nil)
	hr := page.Reconstruct("c-hr", page.KindChapter, page.Attributes{Title: "HR", Slug: "hr", Published: true}, []page.Page{benefits, payroll})
	welcome := page.Reconstruct("p-welcome", page.KindPage, page.Attributes{Title: "Welcome", Slug: "welcome", Published: true, Private: true}, nil)
	return []page.Page{welcome, hr}
}

func testServer() *Server {
	primary := menu.Reconstruct(1, "main", []menu.Item{
		menu.ReconstructItem("1", "Home", "/", menu.TargetSelf),
		menu.ReconstructItem("2", "Intranet", "https://intranet.example", menu.TargetBlank),
	})
	return NewServer(
		&fakePages{forest: testForest()},
		&fakeMenus{menus: map[string]menu.Menu{"main": primary}},
		"0.1.0",
		slog.New(slog.DiscardHandler),
	)
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse. It fatals on marshal failure or unexpected
// response type.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()
	sendMessage(t, srv, "initialize", 1, initializeParams())
	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      name,
		"arguments": args,
	})
	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

func TestServer_Initialize(t *testing.T) {
	srv := testServer()
	resp := sendMessage(t, srv, "initialize", 1, initializeParams())

	var result mcp.InitializeResult
	resultJSON(t, resp, &result)

	if result.ServerInfo.Name != "handbook" {
		t.Errorf("expected server name handbook, got %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "0.1.0" {
		t.Errorf("expected version 0.1.0, got %s", result.ServerInfo.Version)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be present")
	}
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer()
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{"get_sidebar", "get_page", "list_pages", "derive_slug", "get_menu"} {
		if !names[name] {
			t.Errorf("expected tool %s to be registered", name)
		}
	}
	if len(result.Tools) != 5 {
		t.Errorf("expected 5 tools, got %d", len(result.Tools))
	}
}

func TestServer_GetSidebar(t *testing.T) {
	result := callTool(t, testServer(), "get_sidebar", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var nodes []nodeResult
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &nodes); err != nil {
		t.Fatalf("unmarshal sidebar: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nodes))
	}
	if len(nodes[1].Children) != 1 || nodes[1].Children[0].Slug != "hr-benefits" {
		t.Errorf("expected draft payroll to be hidden, got %+v", nodes[1].Children)
	}
}

func TestServer_GetPage(t *testing.T) {
	srv := testServer()

	result := callTool(t, srv, "get_page", map[string]any{"slug": "hr-benefits"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	if text := textFromContent(t, result); !strings.Contains(text, "<p>Dental</p>") {
		t.Errorf("expected page content in %s", text)
	}

	result = callTool(t, srv, "get_page", map[string]any{"slug": "hr-payroll"})
	if !result.IsError {
		t.Fatal("expected draft page to be an error")
	}
	if text := textFromContent(t, result); !strings.Contains(text, "not found") {
		t.Errorf("expected not found message, got %s", text)
	}
}

func TestServer_ListPages(t *testing.T) {
	srv := testServer()

	result := callTool(t, srv, "list_pages", map[string]any{"published": false})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	var entries []struct {
		ID       string `json:"id"`
		ParentID string `json:"parent_id"`
		Depth    int    `json:"depth"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &entries); err != nil {
		t.Fatalf("unmarshal entries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "p-payroll" || entries[0].ParentID != "c-hr" || entries[0].Depth != 1 {
		t.Errorf("unexpected draft entries: %+v", entries)
	}

	result = callTool(t, srv, "list_pages", map[string]any{"visibility": "private"})
	if text := textFromContent(t, result); !strings.Contains(text, "p-welcome") || strings.Contains(text, "p-benefits") {
		t.Errorf("expected only private nodes, got %s", text)
	}

	result = callTool(t, srv, "list_pages", map[string]any{"visibility": "secret"})
	if !result.IsError {
		t.Error("expected unknown visibility to be an error")
	}
}

func TestServer_DeriveSlug(t *testing.T) {
	result := callTool(t, testServer(), "derive_slug", map[string]any{"title": "Sick Leave", "parent_id": "c-hr"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	if text := textFromContent(t, result); text != "hr-sick-leave" {
		t.Errorf("expected hr-sick-leave, got %s", text)
	}
}

func TestServer_GetMenu(t *testing.T) {
	srv := testServer()

	result := callTool(t, srv, "get_menu", map[string]any{"name": "main"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	if text := textFromContent(t, result); !strings.Contains(text, `"target":"_blank"`) {
		t.Errorf("expected item targets in %s", text)
	}

	result = callTool(t, srv, "get_menu", map[string]any{"name": "footer"})
	if !result.IsError {
		t.Error("expected missing menu to be an error")
	}
}

// textFromContent extracts the text string from the first content item
// of a CallToolResult. It round-trips through JSON because in-process
// responses may hold the content as a map rather than a typed struct.
func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	b, err := json.Marshal(result.Content[0])
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	var tc struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &tc); err != nil {
		t.Fatalf("unmarshal text content: %v", err)
	}
	return tc.Text
}
