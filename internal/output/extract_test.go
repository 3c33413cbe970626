package output

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractPlanSummary(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   PlanSummary
		wantOK bool
	}{
		{
			name:   "standard line",
			input:  "Plan: 2 to add, 1 to change, 3 to destroy.",
			want:   PlanSummary{ToAdd: 2, ToChange: 1, ToDestroy: 3},
			wantOK: true,
		},
		{
			name:   "embedded in plan output",
			input:  "Terraform will perform the following actions:\n\nPlan: 0 to add, 0 to change, 12 to destroy.\n\nDo you want to continue?",
			want:   PlanSummary{ToDestroy: 12},
			wantOK: true,
		},
		{
			name:   "extra spacing",
			input:  "Plan:   5 to add,  0 to change,   0 to destroy",
			want:   PlanSummary{ToAdd: 5},
			wantOK: true,
		},
		{
			name:   "absent",
			input:  "No changes. Your infrastructure matches the configuration.",
			wantOK: false,
		},
		{
			name:   "lowercase prefix not matched",
			input:  "plan: 1 to add, 0 to change, 0 to destroy",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPlanSummary(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractPlanSummary() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractPlanSummary() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanSummary_String(t *testing.T) {
	s := PlanSummary{ToAdd: 2, ToChange: 1, ToDestroy: 3}
	if got := s.String(); got != "Plan: 2 to add, 1 to change, 3 to destroy" {
		t.Errorf("String() = %q", got)
	}
}

func TestExtractApplyResult(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantOK        bool
		wantStatus    ApplyStatus
		wantDestroyed int // -1 means not set
	}{
		{
			name:          "destroy complete with count",
			input:         "Destroy complete! Resources: 5 destroyed.",
			wantOK:        true,
			wantStatus:    ApplyStatusSuccess,
			wantDestroyed: 5,
		},
		{
			name:          "resource(s) destroyed fallback",
			input:         "Destroy complete!\n4 resource(s) destroyed",
			wantOK:        true,
			wantStatus:    ApplyStatusSuccess,
			wantDestroyed: 4,
		},
		{
			name:          "apply complete without destroyed count",
			input:         "Apply complete! Resources: 1 added, 0 changed, 0 destroyed.",
			wantOK:        true,
			wantStatus:    ApplyStatusSuccess,
			wantDestroyed: -1,
		},
		{
			name:          "resources destroyed phrase",
			input:         "all resources destroyed",
			wantOK:        true,
			wantStatus:    ApplyStatusSuccess,
			wantDestroyed: -1,
		},
		{
			name:          "completion wins over error text",
			input:         "Error: transient\nretrying\nDestroy complete! Resources: 2 destroyed.",
			wantOK:        true,
			wantStatus:    ApplyStatusSuccess,
			wantDestroyed: 2,
		},
		{
			name:       "error",
			input:      "Error: deleting VPC: DependencyViolation",
			wantOK:     true,
			wantStatus: ApplyStatusFailed,
		},
		{
			name:       "failed lowercase",
			input:      "job failed after 3 attempts",
			wantOK:     true,
			wantStatus: ApplyStatusFailed,
		},
		{
			name:   "nothing recognisable",
			input:  "Refreshing state...",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractApplyResult(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractApplyResult() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if tt.wantStatus != ApplyStatusSuccess {
				if got.ResourcesDestroyed != nil {
					t.Errorf("failed result should carry no count, got %d", *got.ResourcesDestroyed)
				}
				return
			}
			switch {
			case tt.wantDestroyed < 0 && got.ResourcesDestroyed != nil:
				t.Errorf("ResourcesDestroyed = %d, want unset", *got.ResourcesDestroyed)
			case tt.wantDestroyed >= 0 && got.ResourcesDestroyed == nil:
				t.Errorf("ResourcesDestroyed unset, want %d", tt.wantDestroyed)
			case tt.wantDestroyed >= 0 && *got.ResourcesDestroyed != tt.wantDestroyed:
				t.Errorf("ResourcesDestroyed = %d, want %d", *got.ResourcesDestroyed, tt.wantDestroyed)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	longError := "Error: creating EC2 Instance: UnauthorizedOperation: You are not authorized to perform this operation."

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "short error to end of text",
			input:  "Error: Resource not found\nDetails: ...",
			want:   "Error: Resource not found\nDetails: ...",
			wantOK: true,
		},
		{
			name:   "stops at blank line",
			input:  "Planning...\n" + longError + "\n  with aws_instance.web\n\nmore output",
			want:   longError + "\n  with aws_instance.web",
			wantOK: true,
		},
		{
			name:   "case insensitive",
			input:  "error: something broke",
			want:   "error: something broke",
			wantOK: true,
		},
		{
			name:   "short error replaced by longer failed block",
			input:  "Failed: apply step aborted because the provider crashed during refresh\n\nError: boom",
			want:   "Failed: apply step aborted because the provider crashed during refresh",
			wantOK: true,
		},
		{
			name:   "long error kept even if failed block exists",
			input:  "Failed: x\n\n" + longError,
			want:   longError,
			wantOK: true,
		},
		{
			name:   "failed without error is not an error block",
			input:  "Failed: something",
			wantOK: false,
		},
		{
			name:   "no error",
			input:  "Apply complete!",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractErrors(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractErrors() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractErrors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasHighRiskResources(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		summary PlanSummary
		want    bool
	}{
		{
			name:    "no change or destroy short-circuits",
			text:    "aws_db_instance.main will be destroyed",
			summary: PlanSummary{ToAdd: 3},
			want:    false,
		},
		{
			name:    "database destroyed",
			text:    "aws_db_instance.main will be destroyed",
			summary: PlanSummary{ToDestroy: 1},
			want:    true,
		},
		{
			name:    "iam role changed",
			text:    "aws_iam_role.deployer will be updated in-place",
			summary: PlanSummary{ToChange: 1},
			want:    true,
		},
		{
			name:    "load balancer",
			text:    "aws_lb.front",
			summary: PlanSummary{ToDestroy: 1},
			want:    true,
		},
		{
			name:    "load balancer listener is not a load balancer",
			text:    "aws_lb_listener.http",
			summary: PlanSummary{ToDestroy: 1},
			want:    false,
		},
		{
			name:    "dns record",
			text:    "AWS_ROUTE53_RECORD.www",
			summary: PlanSummary{ToDestroy: 1},
			want:    true,
		},
		{
			name:    "low risk resources",
			text:    "aws_instance.web\naws_lambda_function.example",
			summary: PlanSummary{ToAdd: 1, ToDestroy: 1},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasHighRiskResources(tt.text, tt.summary); got != tt.want {
				t.Errorf("HasHighRiskResources() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractApplySection(t *testing.T) {
	got, ok := ExtractApplySection("aws_instance.web: Destroying...\nDestroy complete! Resources: 2 destroyed.\nbye")
	if !ok {
		t.Fatal("ExtractApplySection() found nothing")
	}
	if got != "Destroy complete! Resources: 2 destroyed.\nbye" {
		t.Errorf("ExtractApplySection() = %q", got)
	}

	var lines []string
	lines = append(lines, "Apply complete!")
	for i := range 40 {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	got, _ = ExtractApplySection(strings.Join(lines, "\n"))
	if n := len(strings.Split(got, "\n")); n != maxApplySectionLines {
		t.Errorf("section has %d lines, want %d", n, maxApplySectionLines)
	}

	if _, ok := ExtractApplySection("Plan: 1 to add"); ok {
		t.Error("ExtractApplySection() should find nothing without a completion phrase")
	}
}
