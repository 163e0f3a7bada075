// Package mcp exposes the Knowledge Store and ingestion pipeline as MCP
// tools, grounded on the teacher's sdk.AddTool-per-operation server shape.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vedavani/astrology-ai/internal/pipeline"
)

// Server exposes search_rules, get_rule, list_sources, and ingest_book
// over MCP, backed by a single Pipeline.
type Server struct {
	pipeline *pipeline.Pipeline
	mcp      *sdk.Server
}

// NewServer builds a Server bound to p, identified to clients as version.
func NewServer(p *pipeline.Pipeline, version string) *Server {
	s := &Server{
		pipeline: p,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "astrology-ai",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP requests over transport until ctx is canceled.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
