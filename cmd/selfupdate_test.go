package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelfUpdateCmd(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		errorContains string
	}{
		{
			name:          "self-update with dev version should fail",
			version:       "dev",
			errorContains: "cannot self-update a development version",
		},
		{
			name:          "self-update with empty version should fail",
			version:       "",
			errorContains: "cannot self-update a development version",
		},
		// Actual updates need network access and published releases.
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalVersion := rootCmd.Version
			defer func() {
				rootCmd.Version = originalVersion
			}()
			rootCmd.Version = tt.version

			cmd := newSelfUpdateCmd()
			cmd.SetArgs([]string{})

			err := cmd.Execute()

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestSelfUpdateCmdProperties(t *testing.T) {
	cmd := newSelfUpdateCmd()

	assert.Equal(t, "self-update", cmd.Use)
	assert.Equal(t, "Update chatops-processor to the latest version", cmd.Short)
	assert.True(t, strings.Contains(cmd.Long, "chatops-processor"))
	assert.True(t, strings.Contains(cmd.Long, "GitHub"))
}

func TestGithubRepoSlug(t *testing.T) {
	assert.Equal(t, "giantswarm/chatops-processor", githubRepoSlug)
}
