// Package logger provides structured logging for the conformance harness.
//
// This file contains RPC message logging coordination, managing the flow of messages
// across multiple output formats (text, JSONL).
//
// File Organization:
//
// - rpc_logger.go (this file): Coordination of RPC logging across formats
// - rpc_formatter.go: Text formatting functions
// - rpc_helpers.go: Utility functions for payload processing
//
// The package supports logging RPC messages in two formats:
//
// 1. Text logs: Compact single-line format for grep-friendly searching
// 2. JSONL logs: Machine-readable format for structured analysis
//
// Example:
//
//	logger.LogRPCRequest(logger.RPCDirectionOutbound, "target", "tools/list", payload)
//	logger.LogRPCResponse(logger.RPCDirectionInbound, "target", responsePayload, nil)
package logger

// RPCMessageType represents the direction of an RPC message
type RPCMessageType string

const (
	// RPCMessageRequest represents a request frame, in either direction
	RPCMessageRequest RPCMessageType = "REQUEST"
	// RPCMessageResponse represents a response frame, in either direction
	RPCMessageResponse RPCMessageType = "RESPONSE"
)

// RPCMessageDirection represents whether the message is inbound or outbound
type RPCMessageDirection string

const (
	// RPCDirectionInbound represents messages the harness receives from
	// the spawned server under test
	RPCDirectionInbound RPCMessageDirection = "IN"
	// RPCDirectionOutbound represents messages the harness sends to the
	// spawned server under test
	RPCDirectionOutbound RPCMessageDirection = "OUT"
)

const (
	// MaxPayloadPreviewLengthText is the maximum number of characters to include in text log preview (10KB)
	MaxPayloadPreviewLengthText = 10 * 1024 // 10KB
)

// RPCMessageInfo contains information about an RPC message for logging
type RPCMessageInfo struct {
	Direction   RPCMessageDirection // IN or OUT
	MessageType RPCMessageType      // REQUEST or RESPONSE
	ServerID    string              // identifier of the server under test, or "client" for the harness's own messages
	Method      string              // RPC method name (for requests)
	PayloadSize int                 // Size of the payload in bytes
	Payload     string              // First N characters of payload (sanitized)
	Error       string              // Error message if any (for responses)
}

// logRPCMessageToAll is a helper that logs RPC messages to text and JSONL logs
func logRPCMessageToAll(direction RPCMessageDirection, messageType RPCMessageType, serverID, method string, payload []byte, err error) {
	// Create info for text log (with larger payload preview)
	infoText := &RPCMessageInfo{
		Direction:   direction,
		MessageType: messageType,
		ServerID:    serverID,
		Method:      method,
		PayloadSize: len(payload),
		Payload:     truncateAndSanitize(string(payload), MaxPayloadPreviewLengthText),
	}

	if err != nil {
		infoText.Error = err.Error()
	}

	// Log to text file
	LogDebug("rpc", "%s", formatRPCMessage(infoText))

	// Log to JSONL file (full payload, sanitized)
	LogRPCMessageJSONL(direction, messageType, serverID, method, payload, err)
}

// LogRPCRequest logs an RPC request message to text and JSONL logs
func LogRPCRequest(direction RPCMessageDirection, serverID, method string, payload []byte) {
	logRPCMessageToAll(direction, RPCMessageRequest, serverID, method, payload, nil)
}

// LogRPCResponse logs an RPC response message to text and JSONL logs
func LogRPCResponse(direction RPCMessageDirection, serverID string, payload []byte, err error) {
	logRPCMessageToAll(direction, RPCMessageResponse, serverID, "", payload, err)
}

// LogRPCMessage logs a generic RPC message with custom info
func LogRPCMessage(info *RPCMessageInfo) {
	LogDebug("rpc", "%s", formatRPCMessage(info))
}
