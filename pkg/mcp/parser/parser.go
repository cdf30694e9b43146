package parser

import (
	"fmt"
	"os"

	"arxhq/codecheck/pkg/mcp/ast"
	mcpErrors "arxhq/codecheck/pkg/mcp/errors"
)

// Parser parses MCP rule-set files into abstract syntax trees.
type Parser struct {
	maxFileSize int64 // maximum file size in bytes (default: 10MB)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// Parse parses the rule-set file at the given path and returns the AST.
// It returns an error if the file cannot be read, has invalid syntax, or
// contains rules that cannot be decoded.
func (p *Parser) Parse(path string) (*ast.MCPFile, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &mcpErrors.Error{
			Type:     mcpErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &mcpErrors.Error{
			Type:     mcpErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mcpErrors.Error{
			Type:     mcpErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses a rule set from a byte slice. JSON and YAML are both
// accepted. sourcePath is used for diagnostics only.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.MCPFile, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &mcpErrors.Error{
			Type:     mcpErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	yf, err := parseBytes(data)
	if err != nil {
		return nil, &mcpErrors.Error{
			Type:       mcpErrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("parsing failed: %v", err),
			Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
			Suggestion: "check JSON/YAML syntax",
		}
	}

	return newBuilder(sourcePath).buildFile(yf)
}
