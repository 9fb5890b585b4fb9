package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentgeo-mcp/internal/tools"
)

// RegisterTools publishes every registry tool on s, routed through d.
func RegisterTools(s *server.MCPServer, d *tools.Dispatcher) int {
	registered := d.Registry().Tools()
	for _, t := range registered {
		s.AddTool(BuildMCPTool(t), ToolHandler(d, t.Name))
	}
	return len(registered)
}

// BuildMCPTool converts a registry Tool into an mcp.Tool with its input schema.
func BuildMCPTool(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

// buildParamOption maps a registry Param to the matching mcp-go option.
func buildParamOption(p tools.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case tools.TypeFloat:
		if p.HasDefault {
			if n, err := strconv.ParseFloat(p.Default, 64); err == nil {
				opts = append(opts, mcp.DefaultNumber(n))
			}
		}
		return mcp.WithNumber(p.Name, opts...)
	default:
		if p.HasDefault {
			opts = append(opts, mcp.DefaultString(p.Default))
		}
		return mcp.WithString(p.Name, opts...)
	}
}

// ToolHandler adapts one registry tool to an mcp-go handler. Error responses
// are delivered as a normal result with IsError set; the JSON payload is the
// same one the HTTP transport returns.
func ToolHandler(d *tools.Dispatcher, name string) server.ToolHandlerFunc {
	floats := make(map[string]bool)
	if t, ok := d.Registry().Lookup(name); ok {
		for _, p := range t.Params {
			floats[p.Name] = p.Type == tools.TypeFloat
		}
	}

	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := d.Dispatch(ctx, name, rawArguments(r.GetArguments(), floats))

		data, err := resp.Bytes()
		if err != nil {
			return errorResult(fmt.Sprintf("Error: failed to encode %s response: %v", name, err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(data))},
			IsError: resp.IsError(),
		}, nil
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// rawArguments flattens structured MCP arguments into the string form the
// dispatcher coerces. Arrays become comma-separated lists (e.g. ids). Whole
// numbers sent for float parameters keep one decimal place (50 -> "50.0") so
// coordinates reach the upstream in the same form as over HTTP.
func rawArguments(args map[string]any, floats map[string]bool) map[string][]string {
	out := make(map[string][]string, len(args))
	for k, v := range args {
		if floats[k] {
			if n, ok := v.(float64); ok {
				out[k] = []string{formatFloat(n)}
				continue
			}
		}
		if s, ok := stringify(v); ok {
			out[k] = []string{s}
		}
	}
	return out
}

func formatFloat(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', 1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := stringify(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(x), true
	}
}
