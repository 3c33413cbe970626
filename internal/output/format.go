package output

import (
	"fmt"
	"regexp"
	"strings"
)

// Message headers.
const (
	headerPlanSummary  = "💥 **Destroy Plan Summary**"
	headerApplyResults = "🚀 **Destroy Apply Results**"
	headerStatus       = "🔍 **Terraform Status Summary**"

	planFooter       = "⚠️ This is only a plan - no resources have been destroyed yet."
	emptyStateNotice = "The state file is empty. No resources are represented."
)

// errorFallbackLength bounds the raw error text shown when no summary is available.
const errorFallbackLength = 500

var errorHeaders = map[Command]string{
	CommandStatus:         "🔍 **Terraform Status Error**",
	CommandDestroy:        "💥 **Destroy Plan Error**",
	CommandConfirmDestroy: "🚀 **Destroy Apply Error**",
}

var simpleHeaders = map[Command]string{
	CommandStatus:         "🔍 **Terraform Status**",
	CommandDestroy:        "💥 **Destroy Plan**",
	CommandConfirmDestroy: "🚀 **Destroy Apply**",
}

const (
	defaultErrorHeader  = "❌ **Terraform Error**"
	defaultSimpleHeader = "✅ **Terraform Result**"
)

var (
	resourceLinePattern  = regexp.MustCompile(`(?i)aws_|resource|module\.|data\.`)
	itemNumberPattern    = regexp.MustCompile(`\d+\.\s+`)
	destroyedNotePattern = regexp.MustCompile(`(?i)(\d+)\s+resource\(s\)\s+(?:were|will be)?\s*destroyed`)
	failedNotePattern    = regexp.MustCompile(`(?i)Error:|Failed`)
	planNotePattern      = regexp.MustCompile(`(?i)Terraform will perform|will be destroyed`)
)

// FormatPlan renders a destroy plan. riskAnalysis is omitted when empty.
func FormatPlan(summary PlanSummary, riskAnalysis, text string) string {
	lines := []string{headerPlanSummary, "", summary.String(), ""}

	if counts := CountResources(text); len(counts) > 0 {
		lines = append(lines, "Resource breakdown:")
		lines = appendBreakdown(lines, counts, "- ")
		lines = append(lines, "")
	}

	if riskAnalysis != "" {
		lines = append(lines, "⚠️ **Risk Analysis:**", riskAnalysis, "")
	}

	lines = append(lines, planFooter)
	return strings.Join(lines, "\n")
}

// FormatApplyResult renders the outcome of an executed destroy.
func FormatApplyResult(result ApplyResult) string {
	lines := []string{headerApplyResults, ""}

	if result.Status == ApplyStatusSuccess {
		lines = append(lines, "✅ Destroy Successful")
		if result.ResourcesDestroyed != nil {
			lines = append(lines, fmt.Sprintf("Resources destroyed: %d", *result.ResourcesDestroyed))
		}
	} else {
		lines = append(lines, "❌ Destroy Failed")
	}

	return strings.Join(lines, "\n")
}

// FormatStatus renders a resource count summary of a state listing.
func FormatStatus(text string) string {
	lines := []string{headerStatus, ""}

	counts := CountResources(text)
	if total := counts.Total(); total > 0 {
		lines = append(lines, fmt.Sprintf("Total resources: %d", total), "")
		lines = appendBreakdown(lines, counts, "- ")
	} else {
		lines = append(lines, emptyStateNotice)
	}

	return strings.Join(lines, "\n")
}

// FormatError renders an error summary, or raw error text, under a command-specific header.
func FormatError(body string, command Command) string {
	header, ok := errorHeaders[command]
	if !ok {
		header = defaultErrorHeader
	}
	return header + "\n\n" + body
}

// FormatSimple renders output that fit no structured path.
// The body is truncated to maxLength runes before the header is added.
func FormatSimple(text string, command Command, maxLength int) string {
	header, ok := simpleHeaders[command]
	if !ok {
		header = defaultSimpleHeader
	}

	structured := structureOutput(text, command)
	if RuneLen(structured) > maxLength {
		structured = TruncateRunes(structured, maxLength) + TruncatedSuffix
	}

	return header + "\n\n" + structured
}

// structureOutput builds the body of a simple message: a completion note for
// confirm_destroy, a resource summary, then the relevant raw lines in a text block.
func structureOutput(text string, command Command) string {
	if text == "" {
		return ""
	}

	var lines []string
	if note := completionNote(text, command); note != "" {
		lines = append(lines, note, "")
	}

	if counts := CountResources(text); len(counts) > 0 {
		if command == CommandConfirmDestroy {
			lines = append(lines, fmt.Sprintf("**Resources Destroyed:** %d resource(s)", counts.Total()))
		} else {
			lines = append(lines, fmt.Sprintf("**Summary:** %d resource(s) to be affected", counts.Total()))
		}
		lines = append(lines, "")
		lines = appendBreakdown(lines, counts, "  • ")
		lines = append(lines, "", "---", "")
	}

	if command == CommandConfirmDestroy {
		if section, ok := ExtractApplySection(text); ok {
			lines = append(lines, "**Destruction Results:**", "", codeBlock(section))
			return strings.Join(lines, "\n")
		}
	}

	if resourceLines := firstResourceLines(text); len(resourceLines) > 0 {
		lines = append(lines, codeBlock(strings.Join(resourceLines, "\n")))
	} else {
		lines = append(lines, codeBlock(text))
	}

	return strings.Join(lines, "\n")
}

func completionNote(text string, command Command) string {
	if command != CommandConfirmDestroy {
		return ""
	}

	switch {
	case completionPattern.MatchString(text):
		note := "✅ **Destruction completed successfully**"
		if m := destroyedNotePattern.FindStringSubmatch(text); m != nil {
			note += fmt.Sprintf(" - %s resource(s) destroyed", m[1])
		}
		return note
	case failedNotePattern.MatchString(text):
		return "❌ **Destruction failed** - see errors below"
	case planNotePattern.MatchString(text):
		return "⚠️ **Note:** This appears to be plan output, not actual apply results"
	}
	return ""
}

// firstResourceLines returns the first block of resource lines, each distinct
// resource line kept once. The block ends at the first blank line after it starts.
func firstResourceLines(text string) []string {
	var lines []string
	seen := make(map[string]struct{})
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		switch {
		case resourceLinePattern.MatchString(line):
			key := strings.ToLower(strings.TrimSpace(itemNumberPattern.ReplaceAllString(line, "")))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			lines = append(lines, line)
			inSection = true
		case inSection && strings.TrimSpace(line) == "":
			return lines
		case inSection:
			lines = append(lines, line)
		}
	}
	return lines
}

func appendBreakdown(lines []string, counts ResourceCounts, bullet string) []string {
	for _, label := range counts.SortedLabels() {
		lines = append(lines, fmt.Sprintf("%s%s: %d", bullet, label, counts[label]))
	}
	return lines
}

func codeBlock(body string) string {
	return "```text\n" + body + "\n```"
}
