package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/pdf-question-extractor/internal/config"
	"github.com/a3tai/pdf-question-extractor/internal/descriptions"
	"github.com/a3tai/pdf-question-extractor/internal/export"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
	"github.com/a3tai/pdf-question-extractor/internal/pipeline"
	"github.com/a3tai/pdf-question-extractor/internal/question"
	"github.com/a3tai/pdf-question-extractor/internal/security"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP transport
const shutdownTimeout = 5 * time.Second

// Tool names
const (
	ToolExtractQuestions = "extract_questions"
	ToolQuestionSummary  = "question_summary"
	ToolListPDFs         = "list_pdfs"
	ToolServerInfo       = "server_info"
)

// Server exposes question extraction as MCP tools
type Server struct {
	config      *config.Config
	root        *security.Root
	newPipeline func() *pipeline.Pipeline
	search      *pdf.Search
	caps        pdf.Capabilities
	formats     []string
	logger      *log.Logger
	mcpServer   *server.MCPServer
}

// NewServer creates a new MCP server instance. Every tool call runs on a
// fresh pipeline from newPipeline; paths are confined to cfg.Directory.
func NewServer(cfg *config.Config, newPipeline func() *pipeline.Pipeline, caps pdf.Capabilities, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if newPipeline == nil {
		return nil, fmt.Errorf("pipeline factory cannot be nil")
	}
	if logger == nil {
		logger = log.Default()
	}

	root, err := security.NewRoot(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:      cfg,
		root:        root,
		newPipeline: newPipeline,
		search:      pdf.NewSearch(cfg.MaxFileSize),
		caps:        caps,
		formats:     export.DefaultRegistry().Formats(),
		logger:      logger,
		mcpServer:   mcpServer,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(ToolExtractQuestions,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractQuestions)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the server directory"),
		),
		mcp.WithBoolean("use_ocr",
			mcp.Description("Also OCR page images when pdftoppm and tesseract are installed"),
		),
		mcp.WithString("filter",
			mcp.Description("Question type to return"),
			mcp.Enum("all", "text", "image"),
		),
	), s.handleExtractQuestions)

	s.mcpServer.AddTool(mcp.NewTool(ToolQuestionSummary,
		mcp.WithDescription(descriptions.GetToolDescription(ToolQuestionSummary)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the server directory"),
		),
		mcp.WithBoolean("use_ocr",
			mcp.Description("Also OCR page images when pdftoppm and tesseract are installed"),
		),
	), s.handleQuestionSummary)

	s.mcpServer.AddTool(mcp.NewTool(ToolListPDFs,
		mcp.WithDescription(descriptions.GetToolDescription(ToolListPDFs)),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the server directory if empty)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Optional file name glob, e.g. *security*.pdf"),
		),
	), s.handleListPDFs)

	s.mcpServer.AddTool(mcp.NewTool(ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolServerInfo)),
	), s.handleServerInfo)
}

// extract runs the pipeline for the path argument of request
func (s *Server) extract(ctx context.Context, request mcp.CallToolRequest) (string, *pipeline.Pipeline, []question.Record, error) {
	rawPath, err := request.RequireString("path")
	if err != nil {
		return "", nil, nil, err
	}
	path, err := s.root.Resolve(rawPath)
	if err != nil {
		return "", nil, nil, err
	}

	useOCR, _ := request.GetArguments()["use_ocr"].(bool)
	p := s.newPipeline()
	records := p.Process(ctx, path, useOCR)

	for _, e := range p.Errors().Errors {
		if e.IsDocumentLevel() {
			return path, p, nil, e
		}
	}
	return path, p, records, nil
}

func (s *Server) handleExtractQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := question.FilterAll
	if name, ok := request.GetArguments()["filter"].(string); ok {
		f, err := question.ParseFilter(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter = f
	}

	path, p, records, err := s.extract(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText(s.formatNoQuestions(path, p)), nil
	}

	var buf bytes.Buffer
	if err := export.NewJSONWriter(true).Write(&buf, filter.Apply(records), filter, time.Now()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode questions: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleQuestionSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, p, records, err := s.extract(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText(s.formatNoQuestions(path, p)), nil
	}
	return mcp.NewToolResultText(s.formatSummary(path, p)), nil
}

func (s *Server) handleListPDFs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dirArg, _ := args["directory"].(string)
	directory, err := s.root.ResolveDir(dirArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pattern, _ := args["pattern"].(string)

	files, err := s.search.FindPDFs(directory, pattern, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatFileList(directory, pattern, files)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func (s *Server) formatNoQuestions(path string, p *pipeline.Pipeline) string {
	text := fmt.Sprintf("No questions found in %s\n", path)
	if p.Errors().Count() > 0 {
		text += p.Errors().Summary() + "\n"
	}
	text += "Questions are expected to start with a 'QUESTION NO: <n>' marker."
	return text
}

func (s *Server) formatSummary(path string, p *pipeline.Pipeline) string {
	summary := p.Summary()
	text := fmt.Sprintf("Question summary for: %s\n", path)
	text += fmt.Sprintf("Total questions: %d\n", summary.Total)
	text += fmt.Sprintf("Text-based questions: %d\n", summary.TextBased)
	text += fmt.Sprintf("Image-based questions: %d\n", summary.ImageBased)
	if n := p.Errors().Count(); n > 0 {
		text += fmt.Sprintf("Skipped: %s\n", p.Errors().Summary())
	}
	return text
}

func (s *Server) formatFileList(directory, pattern string, files []pdf.FileInfo) string {
	if len(files) == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", directory)
		if pattern != "" {
			text += fmt.Sprintf(" (pattern: %s)", pattern)
		}
		return text
	}

	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", len(files), directory)
	if pattern != "" {
		text += fmt.Sprintf("Pattern: %s\n", pattern)
	}
	text += "\nFiles:\n"
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}
	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("PDF Directory: %s\n", s.root.Dir())
	text += fmt.Sprintf("Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))

	if s.caps.OCR {
		text += fmt.Sprintf("OCR: available (pdftoppm: %s, tesseract: %s)\n", s.caps.Pdftoppm, s.caps.Tesseract)
	} else {
		text += "OCR: not available (install pdftoppm and tesseract to enable)\n"
	}

	text += "\nOutput Formats (command line):\n"
	for _, f := range s.formats {
		text += fmt.Sprintf("  - %s\n", f)
	}

	text += "\nAvailable Tools:\n"
	text += fmt.Sprintf("  - %s: extract questions as JSON (path, use_ocr, filter)\n", ToolExtractQuestions)
	text += fmt.Sprintf("  - %s: count questions by type (path, use_ocr)\n", ToolQuestionSummary)
	text += fmt.Sprintf("  - %s: list PDF files (directory, pattern)\n", ToolListPDFs)
	text += fmt.Sprintf("  - %s: this information\n", ToolServerInfo)
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks MCP over in and out until in is exhausted or ctx is canceled
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if s.config.IsDebug() {
		s.logger.Printf("Starting question extractor MCP server in stdio mode")
		s.logger.Printf("PDF directory: %s", s.root.Dir())
	}

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(s.logger)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events
func (s *Server) runServerMode(ctx context.Context) error {
	sse := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting question extractor MCP server on %s", s.config.Address())
		errCh <- sse.Start(s.config.Address())
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
