package logger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// formatRPCMessage formats an RPC message for logging
func formatRPCMessage(info *RPCMessageInfo) string {
	// Short format: server→method (or server←resp) size payload
	var dir string
	if info.Direction == RPCDirectionOutbound {
		dir = "→"
	} else {
		dir = "←"
	}

	var parts []string

	// Server and direction
	if info.ServerID != "" {
		if info.Method != "" {
			parts = append(parts, fmt.Sprintf("%s%s%s", info.ServerID, dir, info.Method))
		} else {
			parts = append(parts, fmt.Sprintf("%s%sresp", info.ServerID, dir))
		}
	}

	// Size
	parts = append(parts, fmt.Sprintf("%db", info.PayloadSize))

	// Error (if present)
	if info.Error != "" {
		parts = append(parts, fmt.Sprintf("err:%s", info.Error))
	}

	// Payload preview (if present)
	if info.Payload != "" {
		parts = append(parts, info.Payload)
	}

	return strings.Join(parts, " ")
}

// formatJSONWithoutFields formats JSON by removing specified fields and compacting to single line
// Returns the formatted string, a boolean indicating if the JSON was valid, and a boolean indicating if empty
func formatJSONWithoutFields(jsonStr string, fieldsToRemove []string) (string, bool, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		// If not valid JSON, return as-is with false
		return jsonStr, false, false
	}

	// Remove specified fields
	for _, field := range fieldsToRemove {
		delete(data, field)
	}

	// Check if only "params": null remains (or equivalent empty state)
	isEmpty := isEffectivelyEmpty(data)

	// Re-marshal as compact single line
	formatted, err := json.Marshal(data)
	if err != nil {
		return jsonStr, false, false
	}

	return string(formatted), true, isEmpty
}
