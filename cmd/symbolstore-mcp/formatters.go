package main

import (
	"bytes"
	"encoding/json"
)

// formatJSONPayload pretty-prints a raw JSON payload with 2-space
// indentation. Working on the raw bytes keeps the source key order and
// leaves non-ASCII characters unescaped. Payloads that fail to re-indent are
// returned as-is.
func formatJSONPayload(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// isEmptyPayload reports whether a payload is an empty JSON array, an empty
// object, or null. Scalars like 0 and false are deliberately non-empty.
func isEmptyPayload(raw []byte) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
