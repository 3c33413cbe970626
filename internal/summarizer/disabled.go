package summarizer

import "context"

// Disabled is the backend wired when AI processing is turned off.
type Disabled struct{}

// Generate always fails with ErrDisabled.
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}
