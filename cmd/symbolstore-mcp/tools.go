package main

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/signalzero/symbolstore-mcp/internal/spec"
)

// registerTools registers all MCP tools on the server, routing every
// invocation through the dispatcher.
func registerTools(s *server.MCPServer, tools []mcp.Tool, d *dispatcher) {
	for _, tool := range tools {
		s.AddTool(tool, d.Handle)
	}
}

// buildToolsFromSpec derives the tool catalog from the loaded spec document.
// Descriptions come from the path operation summaries with fixed fallbacks;
// input schemas are hand-specified. The order is stable: query_symbols,
// get_symbol_by_id, put_symbol_by_id, list_domains.
func buildToolsFromSpec(doc *spec.Document) []mcp.Tool {
	return []mcp.Tool{
		createQuerySymbolsTool(doc),
		createGetSymbolTool(doc),
		createPutSymbolTool(doc),
		createListDomainsTool(doc),
	}
}

// summaryOr returns the spec summary for a path operation, or fallback when
// the spec doesn't carry one.
func summaryOr(doc *spec.Document, path, method, fallback string) string {
	if s := doc.Summary(path, method); s != "" {
		return s
	}
	return fallback
}

// rawSchema builds a JSON-schema object with the given properties. The
// required list is omitted when empty.
func rawSchema(properties map[string]any, required []string) json.RawMessage {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	data, err := json.Marshal(schema)
	if err != nil {
		// Properties are built from plain maps and strings; marshalling them
		// cannot fail at runtime.
		panic(err)
	}
	return data
}

func createQuerySymbolsTool(doc *spec.Document) mcp.Tool {
	return mcp.NewToolWithRawSchema("query_symbols",
		summaryOr(doc, "/symbol", "get", "Query symbols"),
		rawSchema(map[string]any{
			"symbol_domain": map[string]any{"type": "string", "description": "Filter by domain"},
			"symbol_tag":    map[string]any{"type": "string", "description": "Filter by tag"},
			"last_symbol_id": map[string]any{
				"type": "string", "description": "Start after ID",
			},
			"limit": map[string]any{"type": "integer", "description": "Maximum results"},
		}, nil),
	)
}

func createGetSymbolTool(doc *spec.Document) mcp.Tool {
	return mcp.NewToolWithRawSchema("get_symbol_by_id",
		summaryOr(doc, "/symbol/{id}", "get", "Get symbol by ID"),
		rawSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Symbol identifier"},
		}, []string{"id"}),
	)
}

func createPutSymbolTool(doc *spec.Document) mcp.Tool {
	// The symbol property is copied verbatim from the spec's Symbol
	// component schema.
	var symbolSchema any = map[string]any{"type": "object"}
	if s := doc.Schema("Symbol"); s != nil {
		symbolSchema = s
	}
	return mcp.NewToolWithRawSchema("put_symbol_by_id",
		summaryOr(doc, "/save_symbol/{symbol_id}", "put", "Save symbol"),
		rawSchema(map[string]any{
			"symbol_id": map[string]any{"type": "string", "description": "Symbol identifier"},
			"symbol":    symbolSchema,
		}, []string{"symbol_id", "symbol"}),
	)
}

func createListDomainsTool(doc *spec.Document) mcp.Tool {
	return mcp.NewToolWithRawSchema("list_domains",
		summaryOr(doc, "/domains", "get", "List symbol domains"),
		rawSchema(map[string]any{}, nil),
	)
}
