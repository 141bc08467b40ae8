// Package mcpserver exposes completion and the catalog commands as MCP
// tools over stdio, so that any MCP-capable editor or agent can act as host.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"i18n-autocomplete/internal/pipeline"
	"i18n-autocomplete/internal/suggest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Input types for tools
type SuggestInput struct {
	Line         string `json:"line" jsonschema:"Text of the line holding the cursor"`
	PreviousLine string `json:"previous_line,omitempty" jsonschema:"Text of the line above the cursor line"`
	Column       int    `json:"column" jsonschema:"0-based character offset of the cursor in line"`
}

type LocaleInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"Locale code (e.g. en). Omit to run for every configured locale"`
}

type EmptyInput struct{}

// Server serves one workspace.
type Server struct {
	pipeline *pipeline.Pipeline
	engine   *suggest.Engine
	version  string

	mu     sync.RWMutex
	assets []string
}

// New creates a Server. It loads the asset list once; the reload tool
// refreshes it.
func New(p *pipeline.Pipeline, version string) (*Server, error) {
	d, err := p.Config().Dialect()
	if err != nil {
		return nil, err
	}
	engine, err := suggest.New(d, suggest.WithAssetPrefix(p.Config().AssetPath))
	if err != nil {
		return nil, err
	}
	s := &Server{pipeline: p, engine: engine, version: version}
	s.loadAssets()
	return s, nil
}

func (s *Server) loadAssets() {
	cfg := s.pipeline.Config()
	assets := suggest.LoadAssetFiles(cfg.Workspace, cfg.AssetPath)
	s.mu.Lock()
	s.assets = assets
	s.mu.Unlock()
	log.Debug().Int("count", len(assets)).Msg("Loaded asset files")
}

func (s *Server) assetFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assets
}

// MCP builds the MCP server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "i18n-autocomplete",
		Version: s.version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest",
		Description: "Complete a translation key, a translated phrase or an asset path at the cursor. Returns a JSON array of {label, insertText, kind}.",
	}, s.handleSuggest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract",
		Description: "Extract translation keys from source files and regenerate the partial and main catalogs of one or every locale.",
	}, s.handleExtract)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze",
		Description: "Dry-run extraction for every locale: counts, sample keys and placeholder mismatches. Writes nothing.",
	}, s.handleAnalyze)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge the namespace partial files of one or every locale into the main catalog. Existing non-empty translations win.",
	}, s.handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sort",
		Description: "Sort the keys of every JSON translation file, recursively. Reports total and changed file counts.",
	}, s.handleSort)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reload",
		Description: "Rebuild the translation index and asset list from disk.",
	}, s.handleReload)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Report the workspace, catalog directory, primary catalog and index size.",
	}, s.handleStatus)

	return server
}

// Run serves on stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Encode error: " + err.Error())
	}
	return textResult(string(data))
}

func (s *Server) handleSuggest(ctx context.Context, req *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, any, error) {
	suggestions := s.engine.Suggest(suggest.Request{
		Line:         input.Line,
		PreviousLine: input.PreviousLine,
		Column:       input.Column,
	}, s.pipeline.Store().Current(), s.assetFiles())
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	return jsonResult(suggestions), nil, nil
}

func (s *Server) handleExtract(ctx context.Context, req *mcp.CallToolRequest, input LocaleInput) (*mcp.CallToolResult, any, error) {
	if input.Locale != "" {
		r := s.pipeline.Extract(ctx, input.Locale)
		if r.Err != nil {
			return errorResult(fmt.Sprintf("Extraction failed for %s: %v", input.Locale, r.Err)), nil, nil
		}
		return jsonResult(r), nil, nil
	}
	results, err := s.pipeline.ExtractAll(ctx)
	if err != nil {
		return errorResult("Extraction failed: " + err.Error()), nil, nil
	}
	return jsonResult(results), nil, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	report, err := s.pipeline.Analyze(ctx)
	if err != nil {
		return errorResult("Analysis failed: " + err.Error()), nil, nil
	}
	return jsonResult(report), nil, nil
}

func (s *Server) handleMerge(ctx context.Context, req *mcp.CallToolRequest, input LocaleInput) (*mcp.CallToolResult, any, error) {
	if input.Locale != "" {
		r := s.pipeline.Merge(ctx, input.Locale)
		if r.Err != nil {
			return errorResult(fmt.Sprintf("Merge failed for %s: %v", input.Locale, r.Err)), nil, nil
		}
		return jsonResult(r), nil, nil
	}
	results, err := s.pipeline.MergeAll(ctx)
	if err != nil {
		return errorResult("Merge failed: " + err.Error()), nil, nil
	}
	return jsonResult(results), nil, nil
}

func (s *Server) handleSort(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.pipeline.Sort()), nil, nil
}

func (s *Server) handleReload(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	s.loadAssets()
	idx, err := s.pipeline.Reload()
	if err != nil {
		return errorResult("Reload failed: " + err.Error()), nil, nil
	}
	return textResult(fmt.Sprintf("Loaded %d keys and %d phrases from %d catalogs", len(idx.Keys), len(idx.Reversed), len(idx.Files))), nil, nil
}

// Status is returned by the status tool.
type Status struct {
	Version    string `json:"version"`
	Workspace  string `json:"workspace"`
	CatalogDir string `json:"catalogDir"`
	Dialect    string `json:"dialect"`
	Primary    string `json:"primary,omitempty"`
	Keys       int    `json:"keys"`
	Phrases    int    `json:"phrases"`
	Assets     int    `json:"assets"`
}

func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	cfg := s.pipeline.Config()
	idx := s.pipeline.Store().Current()
	d, _ := cfg.Dialect()
	return jsonResult(Status{
		Version:    s.version,
		Workspace:  cfg.Workspace,
		CatalogDir: cfg.CatalogDir(),
		Dialect:    d.String(),
		Primary:    idx.Primary,
		Keys:       len(idx.Keys),
		Phrases:    len(idx.Reversed),
		Assets:     len(s.assetFiles()),
	}), nil, nil
}
