package instrumentation

import (
	"context"
	"errors"
	"net"
)

// Cardinality management helpers for metrics.
// These functions reduce unbounded label values to prevent metrics explosion.
//
// # Warning
//
// Commands and errors arrive from chat users and remote APIs. Recording them
// verbatim lets any caller create new time series. Always use these helpers
// when a label value is not produced by this program.

// knownCommands are the chat commands with dedicated processing paths.
var knownCommands = map[string]struct{}{
	"status":          {},
	"destroy":         {},
	"confirm_destroy": {},
}

// CommandOther is the label for any command without dedicated handling.
const CommandOther = "other"

// CommandLabel returns command if it is a known command and "other" otherwise.
//
// # Examples
//
//	CommandLabel("status")          // "status"
//	CommandLabel("confirm_destroy") // "confirm_destroy"
//	CommandLabel("plan")            // "other"
//	CommandLabel("")                // "other"
func CommandLabel(command string) string {
	if _, ok := knownCommands[command]; ok {
		return command
	}
	return CommandOther
}

// Error classes for metrics and span attributes.
const (
	ErrorClassNone     = "none"
	ErrorClassTimeout  = "timeout"
	ErrorClassCanceled = "canceled"
	ErrorClassNetwork  = "network"
	ErrorClassOther    = "other"
)

// ClassifyError maps an error onto a small fixed set of classes.
//
// # Classification Rules
//
//	| Error                                   | Classification |
//	|-----------------------------------------|----------------|
//	| nil                                     | none           |
//	| context.DeadlineExceeded, net timeouts  | timeout        |
//	| context.Canceled                        | canceled       |
//	| any other net.Error                     | network        |
//	| everything else                         | other          |
func ClassifyError(err error) string {
	if err == nil {
		return ErrorClassNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorClassCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorClassTimeout
		}
		return ErrorClassNetwork
	}
	return ErrorClassOther
}
