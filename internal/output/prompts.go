package output

import "fmt"

// Prompt budgets, in runes of embedded output text.
const (
	ErrorPromptBudget = 3000
	RiskPromptBudget  = 4000
)

// Summarizer tasks, used for logging, metrics and span names.
const (
	TaskErrorSummary = "error_summary"
	TaskRiskAnalysis = "risk_analysis"
)

const errorPromptTemplate = `You are a DevOps assistant. The following is a raw Terraform error message. Summarize this error into a clear, human-readable, and actionable insight for the user. Explain what failed and why.

Error Message:
%s

Provide a concise summary (2-3 sentences) explaining:
1. What failed
2. Why it failed
3. What the user should do next`

const riskPromptTemplate = `You are a senior DevOps engineer. Analyze the following Terraform plan for risk.

CRITICAL: The plan summary below was already extracted by automated code. Do NOT attempt to count or recalculate these numbers. Your ONLY task is to analyze the risk level and identify critical resources.

Pre-extracted Plan Summary: %d to add, %d to change, %d to destroy

Terraform Plan Text:
%s

Your task is to provide a concise risk analysis (2-3 sentences) focusing on:
1. Most critical or dangerous resources being changed/destroyed (e.g., databases, IAM roles, load balancers)
2. Potential impact of these changes
3. Overall risk level (high/medium/low)

If the plan is low-risk, simply state that. Do NOT count resources - use the pre-extracted summary above.`

// ErrorPrompt builds the error summarization prompt.
func ErrorPrompt(errorText string) string {
	return fmt.Sprintf(errorPromptTemplate, TruncateRunes(errorText, ErrorPromptBudget))
}

// RiskPrompt builds the risk analysis prompt.
// The counts come from the regex stage and are handed to the model as facts.
func RiskPrompt(planText string, summary PlanSummary) string {
	return fmt.Sprintf(riskPromptTemplate,
		summary.ToAdd, summary.ToChange, summary.ToDestroy,
		TruncateRunes(planText, RiskPromptBudget))
}
