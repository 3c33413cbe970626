package server

import (
	"errors"
	"regexp"
	"strings"
)

// Request validation errors.
var (
	ErrMissingParameters = errors.New("missing required parameters")
	ErrInvalidProject    = errors.New("invalid project")
)

// validationMessages are the error bodies returned for validation errors.
var validationMessages = map[error]string{
	ErrMissingParameters: "Missing required parameters",
	ErrInvalidProject:    "Invalid project",
}

// projectPattern bounds the project name embedded in button callback data.
var projectPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,48}$`)

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	RawOutput string `json:"raw_output"`
	Command   string `json:"command"`
	ChatID    string `json:"chat_id"`

	// Token is accepted for compatibility with existing callers and never used.
	Token string `json:"token,omitempty"`

	// Project enables the destroy confirmation keyboard.
	Project string `json:"project,omitempty"`
}

// Validate checks the required fields and the project name.
func (r ProcessRequest) Validate() error {
	if r.RawOutput == "" || strings.TrimSpace(r.Command) == "" || strings.TrimSpace(r.ChatID) == "" {
		return ErrMissingParameters
	}
	if r.Project != "" && !projectPattern.MatchString(r.Project) {
		return ErrInvalidProject
	}
	return nil
}

// ProcessResponse is returned on success.
type ProcessResponse struct {
	Success          bool   `json:"success"`
	MessagesSent     int    `json:"messages_sent"`
	ProcessingMethod string `json:"processing_method"`
}

// ErrorResponse is returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
