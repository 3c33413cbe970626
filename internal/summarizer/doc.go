// Package summarizer provides the text generation backends used for error
// summaries and risk analysis.
//
// Every backend implements output.TextGenerator. Callers never see a partial
// result: a backend either returns the generated text or an error, and the
// output.Processor turns any error into its deterministic fallback.
//
// Backends:
//   - Bedrock: AWS Bedrock Runtime InvokeModel with an Amazon Titan text body
//   - OpenAI: any OpenAI-compatible chat completion endpoint
//   - Disabled: always fails with ErrDisabled
package summarizer
