// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes quire tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/catalog"
	"github.com/starford/quire/internal/postservice"
	"github.com/starford/quire/internal/storage"
)

// PostFormatURI identifies the post format resource.
const PostFormatURI = "quire://post-format"

// Server wraps the MCP server with quire tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *postservice.Service
	store storage.Provider
}

// New creates a new MCP server with all quire tools registered. store is
// the posts directory, used to return post sources.
func New(svc *postservice.Service, store storage.Provider, version string) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"Quire",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List built posts, newest first. With a limit, pinned posts come first."),
		mcp.WithString("category", mcp.Description("Optional category filter (All for every category)")),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
		mcp.WithNumber("limit", mcp.Description("Optional maximum number of posts")),
		mcp.WithBoolean("include_drafts", mcp.Description("Also list posts whose header sets published: false")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read one post by slug: its metadata, rendered HTML and Markdown source."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (e.g. getting-started-with-rag-systems)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Full-text search through post titles, descriptions, tags and text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("build_site",
		mcp.WithDescription("Rebuild every post page and the posts index."),
	), s.buildSite)

	s.mcp.AddTool(mcp.NewTool("create_post",
		mcp.WithDescription("Write a new post and rebuild the site. "+
			"Read the format contract first via the get_post_format_contract tool or the "+
			PostFormatURI+" resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title; the slug is derived from it")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Markdown body without a header block")),
		mcp.WithString("date", mcp.Description("Publication date as YYYY-MM-DD (default today)")),
		mcp.WithString("description", mcp.Description("One-line summary")),
		mcp.WithString("category", mcp.Description("Category (default Uncategorized)")),
		mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("pinned", mcp.Description("Pin the post to the top of limited listings")),
	), s.createPost)

	s.mcp.AddTool(mcp.NewTool("get_post_format_contract",
		mcp.WithDescription("Returns the post source format contract. "+
			"Call this before creating posts to ensure correct structure."),
	), s.getPostFormatContract)

	// Resource: post format contract.
	s.mcp.AddResource(
		mcp.NewResource(PostFormatURI, "Post Format Contract",
			mcp.WithResourceDescription("Markdown post format with its header block."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(strings.TrimSuffix(buf.String(), "\n"))
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.ListPosts(ctx, catalog.ListFilter{
		Category:      req.GetString("category", ""),
		Tag:           req.GetString("tag", ""),
		Limit:         req.GetInt("limit", 0),
		IncludeDrafts: req.GetBool("include_drafts", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.svc.GetPost(ctx, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := struct {
		Post     any    `json:"post"`
		Markdown string `json:"markdown,omitempty"`
	}{Post: post}
	if data, err := s.store.Read(post.Source); err == nil {
		out.Markdown = string(data)
	}
	return jsonResult(out), nil
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no posts found"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) buildSite(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.Rebuild(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "built %d posts in %s (build %s)", len(report.Posts), report.Duration, report.ID)
	for _, sk := range report.Skipped {
		fmt.Fprintf(&b, "\nskipped %s: %s", sk.Source, sk.Reason)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) createPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	post, err := s.svc.CreatePost(ctx, postservice.NewPost{
		Title:       title,
		Body:        body,
		Date:        req.GetString("date", ""),
		Description: req.GetString("description", ""),
		Category:    req.GetString("category", ""),
		Tags:        req.GetStringSlice("tags", nil),
		Pinned:      req.GetBool("pinned", false),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("post already exists: %s", title)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", post.Slug, post.URL)), nil
}

func (s *Server) getPostFormatContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PostFormatURI,
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}
