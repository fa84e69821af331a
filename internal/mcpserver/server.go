// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the wiki page workflows as tools over stdio.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/starford/wikictl/internal/workflow"
)

const formatURI = "wiki://page-format"

// Server wraps the MCP server with the page tools.
type Server struct {
	mcp    *server.MCPServer
	engine *workflow.Engine
}

// New creates a new MCP server with all page tools registered.
func New(engine *workflow.Engine, version string) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"wikictl",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Fetch a wiki page and return it as a Markdown document with a metadata header."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path (e.g. infra/vpn)")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a wiki page from a Markdown document. "+
			"The document MUST follow the page format; read it first via "+
			"the get_page_format tool or the "+formatURI+" resource."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Markdown document with a metadata header")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool("update_page",
		mcp.WithDescription("Replace an existing wiki page with a Markdown document. "+
			"The page at the document's path is backed up, deleted and created again."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Markdown document with a metadata header")),
	), s.updatePage)

	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete the wiki page at the given path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path (e.g. infra/vpn)")),
	), s.deletePage)

	s.mcp.AddTool(mcp.NewTool("get_page_format",
		mcp.WithDescription("Returns the page document format. "+
			"Call this before creating or updating pages."),
	), s.getPageFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Page Document Format",
			mcp.WithResourceDescription("Markdown page document format used by the page tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPageFormatResource,
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

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, data, err := s.engine.Fetch(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := workflow.ParseDocument([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.engine.CreateDocument(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(res, !res.Succeeded)
}

func (s *Server) updatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := workflow.ParseDocument([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.engine.UpdateDocument(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(report, false)
}

func (s *Server) deletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.engine.Delete(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(res, !res.Succeeded)
}

func (s *Server) getPageFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PageFormatContract), nil
}

func (s *Server) readPageFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     PageFormatContract,
		},
	}, nil
}

func yamlResult(v any, isError bool) (*mcp.CallToolResult, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode result: %w", err)
	}
	if isError {
		return mcp.NewToolResultError(string(out)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
