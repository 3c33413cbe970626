// Package output turns raw infrastructure-as-code plan and apply output into
// safe, bounded chat messages.
//
// Terraform output is long, repetitive and may carry credentials. This package
// implements the processing pipeline that makes it fit for a chat window:
//
//	raw -> Sanitize -> RemoveDuplicateSections -> extract/classify -> decide -> format -> Split
//
// # Key Features
//
// Secret Redaction: GitHub tokens, AWS access keys and generic secret, password,
// token and x-api-key values are replaced with "[REDACTED]" before anything else
// looks at the text.
//
// Deduplication: plans printed twice by the CI runner are collapsed so each
// "will destroy the following" block appears once.
//
// Extraction: plan summaries, apply results, error blocks and per-category
// resource counts are parsed with regular expressions. Counting is always done
// here, never by the summarizer.
//
// Hybrid Decisions: a [TextGenerator] is only consulted for errors and for plans
// that change or destroy high-risk resources. Every AI branch has a regex-only
// fallback, so a missing or failing summarizer degrades output quality but never
// availability.
//
// Splitting: formatted text is cut into chunks of at most MaxMessageLength runes
// and at most MaxMessages chunks.
//
// # Configuration
//
//	cfg := output.DefaultConfig()
//	cfg.MaxMessageLength = 3500
//	cfg.MaxMessages = 10
//
// # Usage Example
//
//	processor := output.NewProcessor(cfg, output.WithTextGenerator(gen))
//	outcome := processor.Process(ctx, raw, output.CommandDestroy)
//	for _, msg := range outcome.Messages {
//	    // deliver msg
//	}
package output
