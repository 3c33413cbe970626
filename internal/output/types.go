package output

import (
	"fmt"
	"sort"
)

// Command identifies the chat command whose output is being processed.
type Command string

// Known commands. Any other value is processed through the generic path.
const (
	CommandStatus         Command = "status"
	CommandDestroy        Command = "destroy"
	CommandConfirmDestroy Command = "confirm_destroy"
)

// Known reports whether c is one of the commands with dedicated handling.
func (c Command) Known() bool {
	switch c {
	case CommandStatus, CommandDestroy, CommandConfirmDestroy:
		return true
	}
	return false
}

// Method tags how the final message was produced.
type Method string

// Processing methods reported to callers.
const (
	MethodRegexOnly    Method = "regex_only"
	MethodRegexErrorAI Method = "regex+error_ai"
	MethodRegexRiskAI  Method = "regex+risk_ai"
)

// PlanSummary holds the counts parsed from a "Plan: X to add, Y to change, Z to destroy" line.
type PlanSummary struct {
	ToAdd     int `json:"to_add"`
	ToChange  int `json:"to_change"`
	ToDestroy int `json:"to_destroy"`
}

// String renders the summary in the same shape it was parsed from.
func (s PlanSummary) String() string {
	return fmt.Sprintf("Plan: %d to add, %d to change, %d to destroy", s.ToAdd, s.ToChange, s.ToDestroy)
}

// ApplyStatus is the outcome of an executed change.
type ApplyStatus string

// Apply outcomes.
const (
	ApplyStatusSuccess ApplyStatus = "success"
	ApplyStatusFailed  ApplyStatus = "failed"
)

// ApplyResult describes an executed apply or destroy.
// ResourcesDestroyed is only set for successful runs whose output carried a count.
type ApplyResult struct {
	Status             ApplyStatus `json:"status"`
	ResourcesDestroyed *int        `json:"resources_destroyed,omitempty"`
}

// ResourceCounts maps a resource category label to the number of distinct resources seen.
type ResourceCounts map[string]int

// Total returns the sum of all category counts.
func (rc ResourceCounts) Total() int {
	total := 0
	for _, n := range rc {
		total += n
	}
	return total
}

// SortedLabels returns the category labels in ascending order.
func (rc ResourceCounts) SortedLabels() []string {
	labels := make([]string, 0, len(rc))
	for label := range rc {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Outcome is the result of one pipeline invocation.
type Outcome struct {
	Messages []string `json:"messages"`
	Method   Method   `json:"method"`
}
