package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/husk/internal/cache"
	"github.com/panbanda/husk/internal/output"
	"github.com/panbanda/husk/pkg/analyzer/deadcode"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
)

// DeadcodeInput is the input of the analyze_deadcode tool.
type DeadcodeInput struct {
	Path          string   `json:"path,omitempty" jsonschema:"Project root to analyze. Defaults to the current directory."`
	Format        string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Kinds         []string `json:"kinds,omitempty" jsonschema:"Only report these kinds: function, class, constant, prop, definition, export, console, dependency."`
	NoCache       bool     `json:"no_cache,omitempty" jsonschema:"Bypass the detection cache."`
	NoAnnotations bool     `json:"no_annotations,omitempty" jsonschema:"Ignore @husk-ignore markers."`
}

func getPath(input DeadcodeInput) string {
	if input.Path == "" {
		return "."
	}
	return input.Path
}

func getFormat(input DeadcodeInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// parseKinds validates kind names. An empty list selects every kind.
func parseKinds(names []string) (map[models.Kind]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	valid := make(map[models.Kind]bool)
	for _, k := range models.Kinds() {
		valid[k] = true
	}
	selected := make(map[models.Kind]bool, len(names))
	for _, name := range names {
		k := models.Kind(strings.ToLower(strings.TrimSpace(name)))
		if !valid[k] {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
		selected[k] = true
	}
	return selected, nil
}

func filterKinds(decls []models.Declaration, kinds map[models.Kind]bool) []models.Declaration {
	if kinds == nil {
		return decls
	}
	out := make([]models.Declaration, 0, len(decls))
	for _, d := range decls {
		if kinds[d.Kind] {
			out = append(out, d)
		}
	}
	return out
}

// filterResult rebuilds res from the declarations of the selected kinds so
// the summary counts match the listed sets.
func filterResult(res *models.AnalysisResult, kinds map[models.Kind]bool) *models.AnalysisResult {
	if kinds == nil || res.Declarations == nil {
		return res
	}
	table := models.NewTable()
	table.MergeAll(filterKinds(res.Declarations.Snapshot(), kinds))
	return models.NewAnalysisResult(table, res.Duration)
}

func formatOutput(res *models.AnalysisResult, root string, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		var buf bytes.Buffer
		if err := output.NewDeadCodeReport(res, root).RenderMarkdown(&buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return output.MarshalTOON(res)
	}
}

func toolResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleAnalyzeDeadcode(ctx context.Context, req *mcp.CallToolRequest, input DeadcodeInput) (*mcp.CallToolResult, any, error) {
	root, err := filepath.Abs(getPath(input))
	if err != nil {
		return toolError(err.Error())
	}
	kinds, err := parseKinds(input.Kinds)
	if err != nil {
		return toolError(err.Error())
	}

	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return toolError(err.Error())
	}
	if input.NoAnnotations {
		cfg.Annotations.Enabled = false
	}
	if input.NoCache {
		cfg.Cache.Enabled = false
	}

	opts := []deadcode.Option{}
	if c, err := cache.Open(root, cfg); err == nil {
		opts = append(opts, deadcode.WithCache(c))
	}

	engine := deadcode.New(cfg, opts...)
	defer engine.Close()

	res, err := engine.Analyze(ctx, root)
	if err != nil {
		return toolError(err.Error())
	}
	res = filterResult(res, kinds)

	text, err := formatOutput(res, root, getFormat(input))
	if err != nil {
		return nil, nil, err
	}
	return toolResult(text)
}
