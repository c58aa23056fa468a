// Package mcpserver exposes the split planner as an MCP server over SSE/HTTP,
// so agents can analyze a codebase, generate split plans, and open the
// resulting pull requests through tool calls.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/supernova/internal/store"
	"github.com/papapumpkin/supernova/internal/telemetry"
)

// Version is the supernova server version.
const Version = "0.1.0"

// Server is the in-process MCP server. It registers the planning tools and
// serves them over SSE/HTTP.
type Server struct {
	mcp       *mcp.Server
	port      int
	collector *telemetry.Collector
	history   *store.Store
	srv       *http.Server
	ln        net.Listener
}

// NewServer creates an MCP server with the planning tool registrations.
// collector and history may be nil to disable stats and plan persistence.
func NewServer(port int, collector *telemetry.Collector, history *store.Store) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "supernova",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:       mcpServer,
		port:      port,
		collector: collector,
		history:   history,
	}

	s.registerTools()

	return s
}

// registerTools registers the planning tools with the MCP server.
func (s *Server) registerTools() {
	s.registerAnalysisTools()
	s.registerPlanTools()
	s.registerExecutionTools()
	s.registerStatsTools()
}

// Start begins serving the MCP server over SSE/HTTP on the configured port.
// It returns once the listener is accepting connections.
func (s *Server) Start(ctx context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	})

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("mcpserver: listen on port %d: %w", s.port, err)
	}
	s.ln = ln

	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "mcpserver: serve error: %v\n", err)
		}
	}()

	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
