package output

import (
	"regexp"
	"strings"
)

// sectionHeaderPhrases mark the start of a resource list in plan output.
// Plans rendered twice (once by the runner, once in the job log) repeat them.
var sectionHeaderPhrases = []string{
	"terraform will destroy",
	"terraform will perform",
	"will destroy the following",
	"will perform the following",
}

// listItemMarkers are substrings that make a line part of a resource list.
var listItemMarkers = []string{"aws_", "resource", "module", "data"}

// listItemPattern matches numbered items and dash-prefixed lines.
var listItemPattern = regexp.MustCompile(`^\d+\.\s+|^\s*-`)

// sectionState is the state of the deduplication line machine.
type sectionState int

const (
	stateOutside sectionState = iota
	stateCapturing
	stateSkipping
)

// RemoveDuplicateSections drops repeated "will destroy/perform the following" blocks.
//
// The first occurrence of a header starts a block made of the header and the
// list-like lines after it. The block ends at a blank line, or at a non-list
// line which passes through unchanged. A header already seen drops its whole
// block, including the blank line that terminates it.
func RemoveDuplicateSections(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)
	result := make([]string, 0, len(lines))

	state := stateOutside
	for _, line := range lines {
		if isSectionHeader(line) {
			key := strings.ToLower(strings.TrimSpace(line))
			if seen[key] {
				state = stateSkipping
				continue
			}
			seen[key] = true
			result = append(result, line)
			state = stateCapturing
			continue
		}

		switch state {
		case stateCapturing, stateSkipping:
			switch {
			case isListItem(line):
				if state == stateCapturing {
					result = append(result, line)
				}
			case strings.TrimSpace(line) == "":
				if state == stateCapturing {
					result = append(result, line)
				}
				state = stateOutside
			default:
				result = append(result, line)
				state = stateOutside
			}
		default:
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

func isSectionHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range sectionHeaderPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func isListItem(line string) bool {
	if listItemPattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, marker := range listItemMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
