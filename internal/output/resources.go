package output

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OtherResourcesLabel is the category for AWS resources no specific pattern claimed.
const OtherResourcesLabel = "Other AWS Resources"

type resourcePattern struct {
	label   string
	pattern *regexp.Regexp
}

// resourcePatterns are applied in order; an earlier pattern wins any overlap.
var resourcePatterns = []resourcePattern{
	{"AWS Instance", regexp.MustCompile(`(?i)aws_instance\.[\w-]+`)},
	{"AWS VPC", regexp.MustCompile(`(?i)aws_vpc\.[\w-]+`)},
	{"AWS Subnet", regexp.MustCompile(`(?i)aws_subnet\.[\w-]+`)},
	{"AWS Security Group", regexp.MustCompile(`(?i)aws_security_group\.[\w-]+`)},
	{"AWS Route Table", regexp.MustCompile(`(?i)aws_route_table\.[\w-]+`)},
	{"AWS Internet Gateway", regexp.MustCompile(`(?i)aws_internet_gateway\.[\w-]+`)},
	{"AWS NACL", regexp.MustCompile(`(?i)aws_network_acl\.[\w-]+`)},
	{"VPC Connection", regexp.MustCompile(`(?i)aws_vpc.*connection`)},
	{"Route", regexp.MustCompile(`(?i)aws_route\.[\w-]+`)},
}

var (
	awsResourcePattern     = regexp.MustCompile(`(?i)aws_\w+\.[\w-]+`)
	genericResourcePattern = regexp.MustCompile(`\w+\.\w+`)
)

// span is a half-open byte range of text claimed by a counted match.
type span struct {
	start, end int
}

type claims []span

func (c claims) overlaps(start, end int) bool {
	for _, s := range c {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// CountResources counts distinct resource identifiers per category.
//
// Every occurrence of an identifier lands in at most one category: specific
// patterns run first and claim the text they match, "Other AWS Resources"
// only counts identifiers none of whose occurrences were claimed, and the
// generic word.word fallback runs only when nothing else matched.
func CountResources(text string) ResourceCounts {
	counts := make(ResourceCounts)
	if text == "" {
		return counts
	}

	var claimed claims
	for _, rp := range resourcePatterns {
		distinct := make(map[string]struct{})
		for _, loc := range rp.pattern.FindAllStringIndex(text, -1) {
			if claimed.overlaps(loc[0], loc[1]) {
				continue
			}
			distinct[text[loc[0]:loc[1]]] = struct{}{}
			claimed = append(claimed, span{loc[0], loc[1]})
		}
		if len(distinct) > 0 {
			counts[rp.label] = len(distinct)
		}
	}

	others := make(map[string]bool)
	for _, loc := range awsResourcePattern.FindAllStringIndex(text, -1) {
		id := text[loc[0]:loc[1]]
		if claimed.overlaps(loc[0], loc[1]) {
			others[id] = false
			continue
		}
		if _, seen := others[id]; !seen {
			others[id] = true
		}
	}
	other := 0
	for _, unclaimed := range others {
		if unclaimed {
			other++
		}
	}
	if other > 0 {
		counts[OtherResourcesLabel] = other
	}

	if len(counts) > 0 {
		return counts
	}

	seen := make(map[string]struct{})
	for _, id := range genericResourcePattern.FindAllString(text, -1) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		prefix, _, _ := strings.Cut(id, ".")
		counts[genericLabel(prefix)]++
	}
	return counts
}

// genericLabel turns an identifier prefix such as "aws_lambda_function"
// into a display label such as "AWS Lambda Function".
func genericLabel(prefix string) string {
	// A Caser keeps state, so one is built per call.
	label := cases.Title(language.English).String(strings.ReplaceAll(prefix, "_", " "))
	if rest, ok := strings.CutPrefix(label, "Aws "); ok {
		return "AWS " + rest
	}
	return label
}
