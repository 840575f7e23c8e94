// Package mcp exposes declaration extraction over the Model Context
// Protocol, so agents can query Python APIs without shelling out.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hargabyte/pyr/internal/config"
	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/modtree"
	"github.com/hargabyte/pyr/internal/output"
	"github.com/hargabyte/pyr/internal/pipeline"
)

// Server wraps the MCP server with the extraction pipeline.
type Server struct {
	mcpServer    *server.MCPServer
	defaultDir   string
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration.
type Config struct {
	// DefaultTarget is scanned when a tool call names no target.
	DefaultTarget string
	// Tools selects which tools to expose (empty = all).
	Tools []string
	// Timeout exits the server after this much inactivity (0 = never).
	Timeout time.Duration
}

// AllTools lists the available tools.
var AllTools = []string{"pyr_function", "pyr_class", "pyr_enum", "pyr_module", "pyr_dump"}

// New creates the server and registers its tools.
func New(cfg Config) (*Server, error) {
	if cfg.DefaultTarget == "" {
		cfg.DefaultTarget = "."
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			"pyr",
			"1.0.0",
			server.WithToolCapabilities(false),
		),
		defaultDir:   cfg.DefaultTarget,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toRegister := cfg.Tools
	if len(toRegister) == 0 {
		toRegister = AllTools
	}
	for _, name := range toRegister {
		if err := s.registerTool(name); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", name, err)
		}
		s.tools[name] = true
	}
	return s, nil
}

func (s *Server) registerTool(name string) error {
	switch name {
	case "pyr_function":
		s.registerDeclTool("pyr_function",
			"List Python function signatures with their line numbers. Optionally filter by name pattern.")
	case "pyr_class":
		s.registerDeclTool("pyr_class",
			"List Python classes with their methods and fields. Optionally filter by name pattern.")
	case "pyr_enum":
		s.registerDeclTool("pyr_enum",
			"List Python enums with their members. Optionally filter by name pattern.")
	case "pyr_dump":
		s.registerDeclTool("pyr_dump",
			"List every Python declaration: functions, classes, enums, and annotated module variables.")
	case "pyr_module":
		s.registerModuleTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
	return nil
}

// registerDeclTool registers one of the declaration listing tools; they
// share a parameter shape and differ only in what they select.
func (s *Server) registerDeclTool(name, description string) {
	tool := mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("pattern",
			mcp.Description("Name pattern; prefix matches beat substring matches, case-sensitive beats insensitive"),
		),
		mcp.WithString("target",
			mcp.Description("File or directory to scan (default: the directory the server was started for)"),
		),
		mcp.WithBoolean("public",
			mcp.Description("Only public names (no leading underscore)"),
		),
		mcp.WithBoolean("private",
			mcp.Description("Only private and dunder names"),
		),
	)

	s.mcpServer.AddTool(tool, s.makeDeclHandler(name))
}

func (s *Server) registerModuleTool() {
	tool := mcp.NewTool("pyr_module",
		mcp.WithDescription("Show the package and module tree of a Python project."),
		mcp.WithString("target",
			mcp.Description("Directory to scan (default: the directory the server was started for)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleModule)
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "pyr serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tool names.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// Tool handlers

func (s *Server) makeDeclHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		args := req.GetArguments()
		pattern, _ := args["pattern"].(string)
		target, _ := args["target"].(string)
		public, _ := args["public"].(bool)
		private, _ := args["private"].(bool)

		result, err := s.executeDecl(name, pattern, target, public, private)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

func (s *Server) handleModule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	target, _ := args["target"].(string)

	result, err := s.executeModule(target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

// Execution functions

func (s *Server) executeDecl(tool, patternArg, target string, public, private bool) (string, error) {
	mods, err := s.run(target)
	if err != nil {
		return "", err
	}

	var patterns []string
	if patternArg != "" {
		patterns = []string{patternArg}
	}
	vis := pipeline.VisibilityFromFlags(public, private)

	var doc *output.Map
	switch tool {
	case "pyr_function":
		doc = output.FunctionsDocument(pipeline.Select(mods, patterns, pipeline.Functions, vis), false)
	case "pyr_class":
		doc = output.ClassesDocument(pipeline.Select(mods, patterns, pipeline.Classes, vis), false)
	case "pyr_enum":
		doc = output.EnumsDocument(pipeline.Select(mods, patterns, pipeline.Enums, vis), false)
	case "pyr_dump":
		doc = output.DumpDocument(pipeline.Select(mods, patterns, pipeline.AnyDecl, vis), false)
	default:
		return "", fmt.Errorf("unknown tool: %s", tool)
	}
	return toJSON(doc)
}

func (s *Server) executeModule(target string) (string, error) {
	if target == "" {
		target = s.defaultDir
	}
	cfg, err := config.Load(target)
	if err != nil {
		return "", err
	}

	walkResult, err := pipeline.Run(pipeline.Options{
		Targets:  []string{target},
		Excludes: cfg.Scan.Exclude,
	})
	if err != nil {
		return "", err
	}

	tree := modtree.Build(walkResult.Files, target)
	return toJSON(map[string]interface{}{"modules": tree})
}

// run executes the pipeline for a tool call's target.
func (s *Server) run(target string) ([]*extract.Module, error) {
	if target == "" {
		target = s.defaultDir
	}
	cfg, err := config.Load(target)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Run(pipeline.Options{
		Targets:     []string{target},
		Excludes:    cfg.Scan.Exclude,
		EnumMarkers: cfg.Enums.Markers,
		UseCache:    cfg.Cache.Enabled,
	})
	if err != nil {
		return nil, err
	}
	return result.Modules, nil
}

func toJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
