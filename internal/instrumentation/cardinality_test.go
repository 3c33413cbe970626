package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestCommandLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "status", input: "status", expected: "status"},
		{name: "destroy", input: "destroy", expected: "destroy"},
		{name: "confirm destroy", input: "confirm_destroy", expected: "confirm_destroy"},
		{name: "empty string", input: "", expected: CommandOther},
		{name: "unknown command", input: "plan", expected: CommandOther},
		{name: "case differs", input: "Destroy", expected: CommandOther},
		{name: "injected text", input: "destroy\nstatus", expected: CommandOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommandLabel(tt.input); got != tt.expected {
				t.Errorf("CommandLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

type timeoutError struct{ timeout bool }

func (e timeoutError) Error() string   { return "net error" }
func (e timeoutError) Timeout() bool   { return e.timeout }
func (e timeoutError) Temporary() bool { return false }

var _ net.Error = timeoutError{}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected string
	}{
		{name: "nil", input: nil, expected: ErrorClassNone},
		{name: "deadline exceeded", input: context.DeadlineExceeded, expected: ErrorClassTimeout},
		{name: "wrapped deadline", input: fmt.Errorf("invoke model: %w", context.DeadlineExceeded), expected: ErrorClassTimeout},
		{name: "canceled", input: context.Canceled, expected: ErrorClassCanceled},
		{name: "net timeout", input: timeoutError{timeout: true}, expected: ErrorClassTimeout},
		{name: "net error", input: fmt.Errorf("dial: %w", timeoutError{}), expected: ErrorClassNetwork},
		{name: "dns error", input: &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, expected: ErrorClassNetwork},
		{name: "plain error", input: errors.New("boom"), expected: ErrorClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.input); got != tt.expected {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
