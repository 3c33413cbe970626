// Package cmd provides the command-line interface for chatops-processor.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the HTTP service (default behavior when no subcommand is provided)
//   - process: Runs the output pipeline once over a file or stdin
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// Command Structure:
//
//	chatops-processor [flags]                      # Starts the HTTP service (default)
//	chatops-processor serve [flags]                # Explicitly starts the HTTP service
//	chatops-processor process plan.txt --command destroy
//	terraform plan | chatops-processor process --deliver --chat-id -100123
//	chatops-processor version                      # Shows version information
//	chatops-processor self-update                  # Updates to latest release
//
// Every pipeline flag has an environment variable fallback that applies when
// the flag is not set explicitly. Variables can also come from a .env file
// (--env-file).
package cmd
