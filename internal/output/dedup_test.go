package output

import (
	"strings"
	"testing"
)

func TestRemoveDuplicateSections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "no headers",
			input: "line one\nline two",
			want:  "line one\nline two",
		},
		{
			name: "repeated block dropped",
			input: strings.Join([]string{
				"Terraform will perform the following actions:",
				"  # aws_instance.web will be destroyed",
				`  - resource "aws_instance" "web" {`,
				"",
				"Plan: 0 to add, 0 to change, 1 to destroy.",
				"",
				"Terraform will perform the following actions:",
				"  # aws_instance.web will be destroyed",
				`  - resource "aws_instance" "web" {`,
				"",
				"Done",
			}, "\n"),
			want: strings.Join([]string{
				"Terraform will perform the following actions:",
				"  # aws_instance.web will be destroyed",
				`  - resource "aws_instance" "web" {`,
				"",
				"Plan: 0 to add, 0 to change, 1 to destroy.",
				"",
				"Done",
			}, "\n"),
		},
		{
			name: "header comparison ignores case and padding",
			input: strings.Join([]string{
				"Terraform will destroy the following resources:",
				"1. aws_vpc.main",
				"",
				"  TERRAFORM WILL DESTROY THE FOLLOWING RESOURCES:  ",
				"1. aws_vpc.main",
				"",
				"tail",
			}, "\n"),
			want: strings.Join([]string{
				"Terraform will destroy the following resources:",
				"1. aws_vpc.main",
				"",
				"tail",
			}, "\n"),
		},
		{
			name: "non-list line ends capture and is kept",
			input: strings.Join([]string{
				"Terraform will destroy the following:",
				"- one",
				"plain text",
				"- two",
			}, "\n"),
			want: strings.Join([]string{
				"Terraform will destroy the following:",
				"- one",
				"plain text",
				"- two",
			}, "\n"),
		},
		{
			name: "different headers both kept",
			input: strings.Join([]string{
				"Terraform will perform the following actions:",
				"- a",
				"",
				"Terraform will destroy the following:",
				"- b",
			}, "\n"),
			want: strings.Join([]string{
				"Terraform will perform the following actions:",
				"- a",
				"",
				"Terraform will destroy the following:",
				"- b",
			}, "\n"),
		},
		{
			name: "repeated block ended by plain line keeps the plain line",
			input: strings.Join([]string{
				"Terraform will perform the following actions:",
				"- a",
				"",
				"Terraform will perform the following actions:",
				"- a",
				"Plan: 1 to add, 0 to change, 0 to destroy.",
			}, "\n"),
			want: strings.Join([]string{
				"Terraform will perform the following actions:",
				"- a",
				"",
				"Plan: 1 to add, 0 to change, 0 to destroy.",
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveDuplicateSections(tt.input)
			if got != tt.want {
				t.Errorf("RemoveDuplicateSections() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRemoveDuplicateSections_Idempotent(t *testing.T) {
	input := "Terraform will destroy the following:\n- a\n\nTerraform will destroy the following:\n- a\n\nend"
	once := RemoveDuplicateSections(input)
	twice := RemoveDuplicateSections(once)
	if once != twice {
		t.Errorf("second pass changed output:\n%q\n%q", once, twice)
	}
}
