package output

import (
	"regexp"
	"strconv"
	"strings"
)

// minErrorLength is the length below which an extracted error is considered incomplete.
const minErrorLength = 50

// maxApplySectionLines bounds the apply section returned by ExtractApplySection.
const maxApplySectionLines = 30

var (
	planSummaryPattern = regexp.MustCompile(`Plan:\s*(\d+)\s+to\s+add,\s*(\d+)\s+to\s+change,\s*(\d+)\s+to\s+destroy`)

	completionPattern = regexp.MustCompile(`(?i)Apply complete!|Destroy complete!|resources destroyed`)
	failurePattern    = regexp.MustCompile(`(?i)Error:|Failed`)

	// destroyedCountPatterns are tried in order, most specific first.
	destroyedCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Resources:\s*(\d+)\s+destroyed`),
		regexp.MustCompile(`(?i)(\d+)\s+resource\(s\)\s+destroyed`),
		regexp.MustCompile(`(?i)Destroy\s+Complete!\s+Resources:\s*(\d+)\s+destroyed`),
	}

	errorStartPattern = regexp.MustCompile(`(?i)error:`)
	broadErrorPattern = regexp.MustCompile(`(?i)(?:error|failed):`)
	highRiskPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)aws_db_instance`),
		regexp.MustCompile(`(?i)aws_rds_cluster`),
		regexp.MustCompile(`(?i)aws_iam_role`),
		regexp.MustCompile(`(?i)aws_iam_policy`),
		regexp.MustCompile(`(?i)aws_lb\b`),
		regexp.MustCompile(`(?i)aws_alb\b`),
		regexp.MustCompile(`(?i)aws_elb\b`),
		regexp.MustCompile(`(?i)aws_s3_bucket`),
		regexp.MustCompile(`(?i)aws_route53`),
	}
)

// ExtractPlanSummary parses the "Plan: X to add, Y to change, Z to destroy" line.
func ExtractPlanSummary(text string) (PlanSummary, bool) {
	m := planSummaryPattern.FindStringSubmatch(text)
	if m == nil {
		return PlanSummary{}, false
	}

	add, errAdd := strconv.Atoi(m[1])
	change, errChange := strconv.Atoi(m[2])
	destroy, errDestroy := strconv.Atoi(m[3])
	if errAdd != nil || errChange != nil || errDestroy != nil {
		// Only reachable for counts overflowing int.
		return PlanSummary{}, false
	}

	return PlanSummary{ToAdd: add, ToChange: change, ToDestroy: destroy}, true
}

// ExtractApplyResult reports the outcome of an executed apply or destroy.
// A completion phrase wins over any error text found elsewhere in the output.
func ExtractApplyResult(text string) (ApplyResult, bool) {
	if completionPattern.MatchString(text) {
		result := ApplyResult{Status: ApplyStatusSuccess}
		for _, pattern := range destroyedCountPatterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil {
				result.ResourcesDestroyed = &n
				break
			}
		}
		return result, true
	}

	if failurePattern.MatchString(text) {
		return ApplyResult{Status: ApplyStatusFailed}, true
	}

	return ApplyResult{}, false
}

// ExtractErrors returns the error block starting at the first "Error:".
//
// The block runs until the next blank line or the end of text. A block shorter
// than 50 characters is compared against the first "Error:"/"Failed:" block and
// the longer of the two is kept.
func ExtractErrors(text string) (string, bool) {
	block, ok := blockFrom(text, errorStartPattern)
	if !ok {
		return "", false
	}

	errorText := strings.TrimSpace(block)
	if RuneLen(errorText) < minErrorLength {
		if broad, found := blockFrom(text, broadErrorPattern); found && RuneLen(broad) > RuneLen(errorText) {
			errorText = strings.TrimSpace(broad)
		}
	}
	return errorText, true
}

// blockFrom returns the text from the first match of start up to the next blank line.
func blockFrom(text string, start *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	block := text[loc[0]:]
	if end := strings.Index(block, "\n\n"); end >= 0 {
		block = block[:end]
	}
	return block, true
}

// HasHighRiskResources reports whether a plan that changes or destroys
// something touches databases, IAM, load balancers, object storage or DNS.
func HasHighRiskResources(text string, summary PlanSummary) bool {
	if summary.ToChange == 0 && summary.ToDestroy == 0 {
		return false
	}

	for _, pattern := range highRiskPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractApplySection returns the lines from the first completion phrase onward.
// At most 30 lines are returned.
func ExtractApplySection(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !completionPattern.MatchString(line) {
			continue
		}
		end := min(i+maxApplySectionLines, len(lines))
		return strings.Join(lines[i:end], "\n"), true
	}
	return "", false
}
