package main

import (
	"encoding/json"
	"testing"

	"github.com/signalzero/symbolstore-mcp/internal/spec"
)

func testDoc() *spec.Document {
	doc := &spec.Document{
		Paths: map[string]map[string]spec.Operation{
			"/symbol":                  {"get": {Summary: "Query the symbol store"}},
			"/symbol/{id}":             {"get": {Summary: "Fetch one symbol"}},
			"/save_symbol/{symbol_id}": {"put": {Summary: "Persist a symbol"}},
			"/domains":                 {"get": {Summary: "Enumerate domains"}},
		},
	}
	doc.Components.Schemas = map[string]map[string]any{
		"Symbol": {
			"type": "object",
			"properties": map[string]any{
				"symbol_id":     map[string]any{"type": "string"},
				"symbol_domain": map[string]any{"type": "string"},
			},
		},
	}
	return doc
}

func decodeSchema(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("Input schema should be valid JSON: %v", err)
	}
	return schema
}

func TestBuildToolsFromSpec_NamesAndOrder(t *testing.T) {
	tools := buildToolsFromSpec(testDoc())

	expected := []string{"query_symbols", "get_symbol_by_id", "put_symbol_by_id", "list_domains"}
	if len(tools) != len(expected) {
		t.Fatalf("Expected %d tools, got %d", len(expected), len(tools))
	}
	for i, name := range expected {
		if tools[i].Name != name {
			t.Errorf("Expected tool %d to be %s, got %s", i, name, tools[i].Name)
		}
	}
}

func TestBuildToolsFromSpec_SummariesFromSpec(t *testing.T) {
	tools := buildToolsFromSpec(testDoc())

	descriptions := map[string]string{}
	for _, tool := range tools {
		descriptions[tool.Name] = tool.Description
	}

	if descriptions["query_symbols"] != "Query the symbol store" {
		t.Errorf("query_symbols should use the spec summary, got %q", descriptions["query_symbols"])
	}
	if descriptions["put_symbol_by_id"] != "Persist a symbol" {
		t.Errorf("put_symbol_by_id should use the spec summary, got %q", descriptions["put_symbol_by_id"])
	}
}

func TestBuildToolsFromSpec_FallbackDescriptions(t *testing.T) {
	// An empty document still yields the four tools with default descriptions.
	tools := buildToolsFromSpec(&spec.Document{})

	expected := map[string]string{
		"query_symbols":    "Query symbols",
		"get_symbol_by_id": "Get symbol by ID",
		"put_symbol_by_id": "Save symbol",
		"list_domains":     "List symbol domains",
	}
	for _, tool := range tools {
		if tool.Description != expected[tool.Name] {
			t.Errorf("Expected fallback description %q for %s, got %q",
				expected[tool.Name], tool.Name, tool.Description)
		}
	}
}

func TestQuerySymbolsTool_Schema(t *testing.T) {
	tool := buildToolsFromSpec(testDoc())[0]
	schema := decodeSchema(t, tool.RawInputSchema)

	if _, present := schema["required"]; present {
		t.Error("query_symbols should have no required fields")
	}

	props := schema["properties"].(map[string]any)
	for _, key := range []string{"symbol_domain", "symbol_tag", "last_symbol_id", "limit"} {
		if _, ok := props[key]; !ok {
			t.Errorf("query_symbols schema missing property %s", key)
		}
	}
	limit := props["limit"].(map[string]any)
	if limit["type"] != "integer" {
		t.Errorf("limit should be an integer, got %v", limit["type"])
	}
}

func TestGetSymbolTool_RequiresID(t *testing.T) {
	tool := buildToolsFromSpec(testDoc())[1]
	schema := decodeSchema(t, tool.RawInputSchema)

	required, ok := schema["required"].([]any)
	if !ok || len(required) != 1 || required[0] != "id" {
		t.Errorf("get_symbol_by_id should require exactly [id], got %v", schema["required"])
	}
}

func TestPutSymbolTool_EmbedsSymbolSchema(t *testing.T) {
	tool := buildToolsFromSpec(testDoc())[2]
	schema := decodeSchema(t, tool.RawInputSchema)

	required, ok := schema["required"].([]any)
	if !ok || len(required) != 2 {
		t.Fatalf("put_symbol_by_id should require symbol_id and symbol, got %v", schema["required"])
	}

	props := schema["properties"].(map[string]any)
	symbol, ok := props["symbol"].(map[string]any)
	if !ok {
		t.Fatal("put_symbol_by_id schema missing symbol property")
	}
	symbolProps, ok := symbol["properties"].(map[string]any)
	if !ok {
		t.Fatal("symbol property should carry the spec's Symbol schema")
	}
	if _, ok := symbolProps["symbol_domain"]; !ok {
		t.Error("symbol schema should be copied verbatim from the spec document")
	}
}

func TestPutSymbolTool_FallbackSymbolSchema(t *testing.T) {
	// Without a Symbol component the symbol property degrades to a bare object.
	tool := buildToolsFromSpec(&spec.Document{})[2]
	schema := decodeSchema(t, tool.RawInputSchema)

	props := schema["properties"].(map[string]any)
	symbol := props["symbol"].(map[string]any)
	if symbol["type"] != "object" {
		t.Errorf("Expected fallback object schema, got %v", symbol)
	}
}

func TestListDomainsTool_EmptySchema(t *testing.T) {
	tool := buildToolsFromSpec(testDoc())[3]
	schema := decodeSchema(t, tool.RawInputSchema)

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("list_domains should still declare a properties object")
	}
	if len(props) != 0 {
		t.Errorf("list_domains should take no arguments, got %v", props)
	}
}
