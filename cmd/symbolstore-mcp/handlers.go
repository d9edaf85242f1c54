package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/signalzero/symbolstore-mcp/internal/common"
	"github.com/signalzero/symbolstore-mcp/internal/store"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// dispatcher routes tool invocations to the symbol store client. A fresh
// client is built per invocation, so nothing mutable is shared across calls.
type dispatcher struct {
	newClient func() *store.Client
	logger    *common.Logger
}

func newDispatcher(newClient func() *store.Client, logger *common.Logger) *dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &dispatcher{newClient: newClient, logger: logger}
}

// Handle processes a single tool invocation. Remote HTTP error statuses
// become the text result of the call; only missing required arguments and
// network-level failures surface as error-flagged results. The serving loop
// never crashes on a bad invocation.
func (d *dispatcher) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.Params.Name
	logger := d.logger.WithCorrelationId(uuid.NewString()[:8])
	logger.Info().Str("tool", name).Msg("Tool invocation")

	client := d.newClient()

	var (
		raw    []byte
		err    error
		render func([]byte) string
	)

	switch name {
	case "query_symbols":
		params := store.QueryParams{
			Domain: request.GetString("symbol_domain", ""),
			Tag:    request.GetString("symbol_tag", ""),
			LastID: request.GetString("last_symbol_id", ""),
			Limit:  request.GetInt("limit", 0),
		}
		raw, err = client.QuerySymbols(ctx, params)
		render = func(b []byte) string {
			if isEmptyPayload(b) {
				return "No symbols returned:\n" + formatJSONPayload(b)
			}
			return "Query results:\n" + formatJSONPayload(b)
		}

	case "get_symbol_by_id":
		id, argErr := request.RequireString("id")
		if argErr != nil || id == "" {
			return errorResult("Error: id parameter is required"), nil
		}
		raw, err = client.GetSymbol(ctx, id)
		render = formatJSONPayload

	case "put_symbol_by_id":
		symbolID, argErr := request.RequireString("symbol_id")
		if argErr != nil || symbolID == "" {
			return errorResult("Error: symbol_id parameter is required"), nil
		}
		symbol, ok := request.GetArguments()["symbol"].(map[string]any)
		if !ok {
			return errorResult("Error: symbol parameter is required and must be an object"), nil
		}
		raw, err = client.PutSymbol(ctx, symbolID, symbol)
		render = func(b []byte) string {
			return fmt.Sprintf("Stored symbol %s:\n%s", symbolID, formatJSONPayload(b))
		}

	case "list_domains":
		raw, err = client.ListDomains(ctx)
		render = func(b []byte) string {
			return "Available domains:\n" + formatJSONPayload(b)
		}

	default:
		return textResult("Unknown tool: " + name), nil
	}

	if err != nil {
		var statusErr *store.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn().
				Str("tool", name).
				Int("status", statusErr.StatusCode).
				Msg("Symbol store returned an error status")
			return textResult(statusErr.Error()), nil
		}
		logger.Error().Err(err).Str("tool", name).Msg("Tool invocation failed")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	return textResult(render(raw)), nil
}
